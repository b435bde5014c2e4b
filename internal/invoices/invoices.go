// Package invoices is the invoice listing container: filtered, paginated
// invoices, the client picker of the filter bar and the detail modal.
package invoices

import (
	"context"
	"log/slog"
	"time"

	"github.com/angelofallars/hyperdash/internal/store"
	"github.com/angelofallars/hyperdash/pkg/billing"
)

type API interface {
	Invoices(ctx context.Context, q billing.InvoiceQuery) (*billing.InvoicePage, error)
	Invoice(ctx context.Context, id string) (*billing.Invoice, error)
	Clients(ctx context.Context, q billing.ClientQuery) ([]billing.ClientInfo, error)
}

// Query is a fetch request. Empty filter fields fall back to the stored
// filters; zero Page or PerPage are left out of the request.
type Query struct {
	Page      int
	PerPage   int
	Client    string
	StartDate time.Time
	EndDate   time.Time
}

type Container struct {
	ctx context.Context
	api API
	log *slog.Logger
	now func() time.Time

	store *store.Store[State]
	tasks store.Tasks
	seqs  [resourceCount]store.Sequence

	clientSearch *store.Debouncer

	Select Selectors
}

type Option func(*Container)

// WithClock sets the clock used for open-ended date ranges.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.now = now
	}
}

func New(ctx context.Context, api API, perPage int, debounce time.Duration, log *slog.Logger, opts ...Option) *Container {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	c := &Container{
		ctx:    ctx,
		api:    api,
		log:    log,
		now:    time.Now,
		store:  store.New(initialState(perPage), reduce),
		Select: newSelectors(),
	}
	c.clientSearch = store.NewDebouncer(debounce, &c.tasks)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Container) State() State { return c.store.State() }

// Wait blocks until every effect started or pending so far has landed.
func (c *Container) Wait() { c.tasks.Wait() }

func (c *Container) Close() { c.clientSearch.Stop() }

// FetchInvoices loads one page of invoices. A start date without any end
// date, given or stored, queries up to now.
func (c *Container) FetchInvoices(q Query) {
	filters := c.store.State().Filters

	client := q.Client
	if client == "" {
		client = filters.Client
	}
	startDate := q.StartDate
	if startDate.IsZero() {
		startDate = filters.StartDate
	}
	endDate := q.EndDate
	if endDate.IsZero() {
		endDate = filters.EndDate
	}
	if endDate.IsZero() && !startDate.IsZero() {
		endDate = c.now()
	}

	seq := c.begin(resInvoices)
	c.tasks.Go(func() {
		page, err := c.api.Invoices(c.ctx, billing.InvoiceQuery{
			Page:      q.Page,
			PerPage:   q.PerPage,
			Client:    client,
			StartDate: startDate,
			EndDate:   endDate,
		})
		if err != nil {
			c.fail(resInvoices, seq, err, "Failed to fetch invoices")
			return
		}
		c.store.Dispatch(invoicesLoaded{seq: seq, page: page})
	})
}

// Refresh refetches the current page with the stored filters.
func (c *Container) Refresh() {
	p := c.store.State().Pagination
	c.FetchInvoices(Query{Page: p.CurrentPage, PerPage: p.ItemsPerPage})
}

// FetchClients searches the clients offered by the filter bar. Bursts are
// debounced.
func (c *Container) FetchClients(q billing.ClientQuery) {
	c.store.Dispatch(resourceOp{res: resClients, op: store.QueueOp()})
	c.clientSearch.Trigger(func() {
		seq := c.begin(resClients)
		clients, err := c.api.Clients(c.ctx, q)
		if err != nil {
			c.fail(resClients, seq, err, "Failed to fetch clients")
			return
		}
		c.store.Dispatch(clientsLoaded{seq: seq, clients: clients})
	})
}

// SetSelectedClient filters by client and returns to the first page.
func (c *Container) SetSelectedClient(clientID string) {
	c.store.Dispatch(clientSelected(clientID))
}

// SetFilterDates updates the date filters and returns to the first page.
func (c *Container) SetFilterDates(r DateRange) {
	c.store.Dispatch(datesSet(r))
}

// SetFilter replaces every filter field and returns to the first page.
func (c *Container) SetFilter(f Filters) {
	c.store.Dispatch(clientSelected(f.Client))
	c.store.Dispatch(datesSet{StartDate: &f.StartDate, EndDate: &f.EndDate})
}

func (c *Container) ResetFilters() {
	c.store.Dispatch(filtersReset{})
}

func (c *Container) SetCurrentPage(page int) {
	c.store.Dispatch(pageSet(page))
}

// SetItemsPerPage changes the page size; the page count is recomputed from
// the current total without a fetch.
func (c *Container) SetItemsPerPage(perPage int) {
	c.store.Dispatch(perPageSet(perPage))
}

// GoToPage moves to page and fetches it.
func (c *Container) GoToPage(page int) {
	c.SetCurrentPage(page)
	c.Refresh()
}

// ChangeItemsPerPage changes the page size and fetches the first page.
func (c *Container) ChangeItemsPerPage(perPage int) {
	c.SetItemsPerPage(perPage)
	c.SetCurrentPage(1)
	c.Refresh()
}

// ApplyFilter changes the filters and fetches the first page.
func (c *Container) ApplyFilter(f Filters) {
	c.SetFilter(f)
	c.Refresh()
}

// OpenDetail opens the detail modal and fetches the invoice fresh.
func (c *Container) OpenDetail(id string) {
	c.store.Dispatch(detailOpened{})

	seq := c.begin(resSelected)
	c.tasks.Go(func() {
		invoice, err := c.api.Invoice(c.ctx, id)
		if err != nil {
			c.fail(resSelected, seq, err, "Failed to fetch invoice details")
			return
		}
		c.store.Dispatch(invoiceLoaded{seq: seq, invoice: invoice})
	})
}

// CloseDetail closes the modal and discards the selected invoice, its error
// and any fetch of it still in flight.
func (c *Container) CloseDetail() {
	c.store.Dispatch(detailClosed{})
}

func (c *Container) begin(res resource) uint64 {
	seq := c.seqs[res].Next()
	c.store.Dispatch(resourceOp{res: res, op: store.BeginOp(seq)})
	return seq
}

func (c *Container) fail(res resource, seq uint64, err error, fallback string) {
	c.log.Error("fetch failed", "resource", res.String(), "err", err)
	c.store.Dispatch(resourceOp{res: res, op: store.FailOp(seq, billing.ErrorMessage(err, fallback))})
}
