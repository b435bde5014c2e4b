package dashboard

import (
	"net/http"

	"github.com/angelofallars/htmx-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/angelofallars/hyperdash/app/auth"
	"github.com/angelofallars/hyperdash/app/component"
	"github.com/angelofallars/hyperdash/app/event"
	"github.com/angelofallars/hyperdash/app/route"
	"github.com/angelofallars/hyperdash/app/workspace"
	"github.com/angelofallars/hyperdash/internal/dashboard"
)

type HandlerGroup struct{}

func NewHandlerGroup() *HandlerGroup {
	return &HandlerGroup{}
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Get("/", auth.RequireLogin(handlePage))

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/clients", auth.RequireLogin(handleClients))
		r.Post("/clients/search", auth.RequireLogin(handleSearchClients))
		r.Get("/buildings", auth.RequireLogin(handleBuildings))
		r.Post("/buildings/search", auth.RequireLogin(handleSearchBuildings))

		r.Post("/filters", auth.RequireLogin(handleApplyFilters))
		r.Post("/filters/reset", auth.RequireLogin(handleResetFilters))

		r.Get("/chart", auth.RequireLogin(handleChart))
		r.Get("/statistics", auth.RequireLogin(handleStatistics))
		r.Post("/statistics", auth.RequireLogin(handleUpdateStatistics))
		r.Get("/rankings", auth.RequireLogin(handleRankings))
	})
}

var handlePage = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	d := ws.Dashboard
	d.Mount()

	s := d.State()
	props := component.DashboardProps{
		User:       userName(ws),
		Overview:   d.Select.Overview(s),
		Chart:      d.Select.Chart(s),
		Statistics: statisticsProps(d),
		Rankings:   d.Select.TopClients(s),
	}

	_ = component.DashboardPage(props).Render(r.Context(), w)
})

var handleClients = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	route.Render(w, r, component.DashboardClients(overview(ws.Dashboard)))
})

var handleSearchClients = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	req := &FilterRequest{}
	if err := render.Bind(r, req); err != nil {
		route.ShowError(w, http.StatusBadRequest, err)
		return
	}

	ws.Dashboard.FetchClients(req.ClientSearch)
	route.Render(w, r, component.DashboardClients(overview(ws.Dashboard)))
})

var handleBuildings = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	route.Render(w, r, component.DashboardBuildings(overview(ws.Dashboard)))
})

var handleSearchBuildings = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	req := &FilterRequest{}
	if err := render.Bind(r, req); err != nil {
		route.ShowError(w, http.StatusBadRequest, err)
		return
	}

	ws.Dashboard.FetchBuildings(req.Client, req.BuildingSearch)
	route.Render(w, r, component.DashboardBuildings(overview(ws.Dashboard)))
})

var handleApplyFilters = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	req := &FilterRequest{}
	if err := render.Bind(r, req); err != nil {
		route.ShowError(w, http.StatusBadRequest, err)
		return
	}

	ws.Dashboard.ApplyFilters(req.Patch())

	_ = htmx.NewResponse().
		Reswap(htmx.SwapNone).
		AddTrigger(
			event.TriggerFiltersChanged,
			event.TriggerSetErrMessage(""),
		).
		Write(w)
})

var handleResetFilters = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	ws.Dashboard.ClearFilters()

	_ = htmx.NewResponse().
		AddTrigger(
			event.TriggerFiltersChanged,
			event.TriggerSetErrMessage(""),
		).
		RenderTempl(r.Context(), w, component.DashboardFilters(overview(ws.Dashboard)))
})

var handleChart = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	d := ws.Dashboard
	route.Render(w, r, component.DashboardChart(d.Select.Chart(d.State())))
})

var handleStatistics = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	route.Render(w, r, component.DashboardStatistics(statisticsProps(ws.Dashboard)))
})

var handleUpdateStatistics = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	req := &StatisticsRequest{}
	if err := render.Bind(r, req); err != nil {
		route.ShowError(w, http.StatusBadRequest, err)
		return
	}

	ws.Dashboard.UpdateStatistics(req.Client, req.Building, req.Update())

	_ = htmx.NewResponse().
		AddTrigger(event.TriggerSetErrMessage("")).
		RenderTempl(r.Context(), w, component.DashboardStatistics(statisticsProps(ws.Dashboard)))
})

var handleRankings = route.WithWorkspace(func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
	d := ws.Dashboard
	route.Render(w, r, component.DashboardRankings(d.Select.TopClients(d.State())))
})

func overview(d *dashboard.Container) *dashboard.OverviewView {
	return d.Select.Overview(d.State())
}

func statisticsProps(d *dashboard.Container) component.StatisticsProps {
	s := d.State()
	return component.StatisticsProps{
		StatsView: d.Select.Stats(s),
		Filters:   s.Filters,
	}
}

func userName(ws *workspace.Workspace) string {
	v := ws.Auth.Select.Auth(ws.Auth.State())
	if v.UserName != "" {
		return v.UserName
	}
	return "Signed in"
}
