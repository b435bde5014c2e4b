package invoice

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/angelofallars/htmx-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/angelofallars/hyperdash/app/auth"
	"github.com/angelofallars/hyperdash/app/component"
	"github.com/angelofallars/hyperdash/app/event"
	"github.com/angelofallars/hyperdash/app/route"
	"github.com/angelofallars/hyperdash/app/workspace"
	"github.com/angelofallars/hyperdash/internal/invoices"
	"github.com/angelofallars/hyperdash/pkg/billing"
)

type HandlerGroup struct {
	log *slog.Logger
}

func NewHandlerGroup(log *slog.Logger) *HandlerGroup {
	return &HandlerGroup{log: log}
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", auth.RequireLogin(handlePage))
		r.Get("/table", auth.RequireLogin(handleTable))

		r.Post("/filters", auth.RequireLogin(handleApplyFilters))
		r.Post("/filters/reset", auth.RequireLogin(handleResetFilters))
		r.Post("/page/{page}", auth.RequireLogin(handleGoToPage))
		r.Post("/per-page", auth.RequireLogin(handleChangePerPage))

		r.Get("/clients", auth.RequireLogin(handleClients))
		r.Post("/clients/search", auth.RequireLogin(handleSearchClients))

		r.Get("/detail", auth.RequireLogin(handleDetail))
		r.Delete("/detail", auth.RequireLogin(handleCloseDetail))
		r.Post("/{id}/open", auth.RequireLogin(handleOpenDetail))
		r.Get("/{id}/download", auth.RequireLogin(route.WithWorkspace(hg.handleDownload)))
	})
}

var handlePage = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	inv := ws.Invoices
	inv.Refresh()
	inv.FetchClients(billing.ClientQuery{})

	s := inv.State()
	props := component.InvoicesProps{
		User:     ws.Auth.Select.Auth(ws.Auth.State()).UserName,
		Overview: inv.Select.Overview(s),
		Detail:   inv.Select.Detail(s),
	}

	_ = component.InvoicesPage(props).Render(r.Context(), w)
})

var handleTable = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	route.Render(w, r, component.InvoiceTable(overview(ws.Invoices)))
})

var handleApplyFilters = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	req := &FilterRequest{}
	if err := render.Bind(r, req); err != nil {
		route.ShowError(w, http.StatusBadRequest, err)
		return
	}

	ws.Invoices.ApplyFilter(req.Filters())

	_ = htmx.NewResponse().
		Reswap(htmx.SwapNone).
		AddTrigger(
			event.TriggerInvoicesChanged,
			event.TriggerSetErrMessage(""),
		).
		Write(w)
})

var handleResetFilters = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	ws.Invoices.ResetFilters()
	ws.Invoices.Refresh()

	_ = htmx.NewResponse().
		AddTrigger(
			event.TriggerInvoicesChanged,
			event.TriggerSetErrMessage(""),
		).
		RenderTempl(r.Context(), w, component.InvoiceFilters(overview(ws.Invoices)))
})

var handleGoToPage = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 1 {
		route.ShowError(w, http.StatusBadRequest, fmt.Errorf("Invalid page: %s", chi.URLParam(r, "page")))
		return
	}
	if total := ws.Invoices.State().Pagination.TotalPages; total > 0 && page > total {
		route.ShowError(w, http.StatusBadRequest, fmt.Errorf("Page %d is past the last page", page))
		return
	}

	ws.Invoices.GoToPage(page)
	route.Render(w, r, component.InvoiceTable(overview(ws.Invoices)))
})

var handleChangePerPage = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	req := &PerPageRequest{}
	if err := render.Bind(r, req); err != nil {
		route.ShowError(w, http.StatusBadRequest, err)
		return
	}

	ws.Invoices.ChangeItemsPerPage(req.perPage)
	route.Render(w, r, component.InvoiceTable(overview(ws.Invoices)))
})

var handleClients = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	route.Render(w, r, component.InvoiceClients(overview(ws.Invoices)))
})

var handleSearchClients = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	req := &FilterRequest{}
	if err := render.Bind(r, req); err != nil {
		route.ShowError(w, http.StatusBadRequest, err)
		return
	}

	ws.Invoices.FetchClients(billing.ClientQuery{Client: req.ClientSearch})
	route.Render(w, r, component.InvoiceClients(overview(ws.Invoices)))
})

var handleOpenDetail = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	ws.Invoices.OpenDetail(chi.URLParam(r, "id"))
	route.Render(w, r, component.InvoiceDetail(detail(ws.Invoices)))
})

var handleDetail = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	route.Render(w, r, component.InvoiceDetail(detail(ws.Invoices)))
})

var handleCloseDetail = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	ws.Invoices.CloseDetail()
	route.Render(w, r, component.InvoiceDetail(detail(ws.Invoices)))
})

// handleDownload streams the invoice PDF straight from the API.
func (hg *HandlerGroup) handleDownload(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	id := chi.URLParam(r, "id")

	download, err := ws.API.DownloadInvoice(r.Context(), id)
	if errors.Is(err, billing.ErrUnauthorized) {
		ws.Session.TakeReload()
		auth.Redirect(w, r, auth.LoginPath)
		return
	}
	if err != nil {
		route.ShowAPIError(w, err, "Failed to download invoice")
		return
	}
	defer download.Body.Close()

	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": download.Filename,
	}))

	if _, err := io.Copy(w, download.Body); err != nil {
		hg.log.Error("streaming invoice failed", "session", ws.ID, "invoice", id, "err", err)
	}
}

func overview(inv *invoices.Container) *invoices.OverviewView {
	return inv.Select.Overview(inv.State())
}

func detail(inv *invoices.Container) *invoices.DetailView {
	return inv.Select.Detail(inv.State())
}
