package invoices

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelofallars/hyperdash/pkg/billing"
)

type fakeAPI struct {
	mu sync.Mutex

	queries       []billing.InvoiceQuery
	clientQueries []billing.ClientQuery

	total   int
	invoice func(id string) (*billing.Invoice, error)
}

func (f *fakeAPI) Invoices(_ context.Context, q billing.InvoiceQuery) (*billing.InvoicePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return &billing.InvoicePage{Data: []billing.Invoice{{ID: "i1"}}, Total: f.total}, nil
}

func (f *fakeAPI) Invoice(_ context.Context, id string) (*billing.Invoice, error) {
	if f.invoice != nil {
		return f.invoice(id)
	}
	return &billing.Invoice{ID: id}, nil
}

func (f *fakeAPI) Clients(_ context.Context, q billing.ClientQuery) ([]billing.ClientInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clientQueries = append(f.clientQueries, q)
	return []billing.ClientInfo{{ID: "c1", Name: q.Client}}, nil
}

var fixedNow = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

func newTestContainer(api API) *Container {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(context.Background(), api, 10, 20*time.Millisecond, log,
		WithClock(func() time.Time { return fixedNow }))
}

func assertConsistent(t *testing.T, p Pagination) {
	t.Helper()
	want := 0
	if p.ItemsPerPage > 0 {
		want = (p.TotalItems + p.ItemsPerPage - 1) / p.ItemsPerPage
	}
	assert.Equal(t, want, p.TotalPages, "total pages")
	assert.Equal(t, p.CurrentPage < p.TotalPages, p.HasNextPage, "has next page")
	assert.Equal(t, p.CurrentPage > 1, p.HasPrevPage, "has prev page")
}

func TestInitialState(t *testing.T) {
	c := newTestContainer(&fakeAPI{})

	p := c.State().Pagination
	assert.Equal(t, Pagination{CurrentPage: 1, ItemsPerPage: 10, TotalPages: 1}, p)
}

func TestFetchInvoices_FallsBackToStoredFilters(t *testing.T) {
	api := &fakeAPI{total: 21}
	c := newTestContainer(api)

	c.SetSelectedClient("c1")
	c.FetchInvoices(Query{Page: 2, PerPage: 10})
	c.Wait()

	require.Len(t, api.queries, 1)
	assert.Equal(t, billing.InvoiceQuery{Page: 2, PerPage: 10, Client: "c1"}, api.queries[0])
}

func TestFetchInvoices_OpenEndedRangeEndsNow(t *testing.T) {
	api := &fakeAPI{}
	c := newTestContainer(api)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c.FetchInvoices(Query{StartDate: start})
	c.Wait()

	require.Len(t, api.queries, 1)
	assert.Equal(t, start, api.queries[0].StartDate)
	assert.Equal(t, fixedNow, api.queries[0].EndDate)
}

func TestFetchInvoices_EndDateOnlyStaysOpen(t *testing.T) {
	api := &fakeAPI{}
	c := newTestContainer(api)
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	c.SetFilterDates(DateRange{EndDate: &end})
	c.FetchInvoices(Query{Page: 1})
	c.Wait()

	assert.True(t, api.queries[0].StartDate.IsZero())
	assert.Equal(t, end, api.queries[0].EndDate)
}

func TestFetchInvoices_ExplicitArgumentsWin(t *testing.T) {
	api := &fakeAPI{}
	c := newTestContainer(api)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	c.SetFilter(Filters{Client: "stored", StartDate: start})
	c.FetchInvoices(Query{Client: "c9", EndDate: end})
	c.Wait()

	assert.Equal(t, billing.InvoiceQuery{Client: "c9", StartDate: start, EndDate: end}, api.queries[0])
}

func TestPagination_Invariants(t *testing.T) {
	api := &fakeAPI{total: 25}
	c := newTestContainer(api)

	c.FetchInvoices(Query{Page: 1, PerPage: 10})
	c.Wait()
	p := c.State().Pagination
	assert.Equal(t, 3, p.TotalPages)
	assertConsistent(t, p)

	c.SetCurrentPage(3)
	p = c.State().Pagination
	assert.False(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)
	assertConsistent(t, p)

	c.SetItemsPerPage(5)
	p = c.State().Pagination
	assert.Equal(t, 5, p.TotalPages)
	assert.True(t, p.HasNextPage)
	assertConsistent(t, p)

	c.SetItemsPerPage(50)
	assertConsistent(t, c.State().Pagination)
}

func TestFilterChangesResetPage(t *testing.T) {
	c := newTestContainer(&fakeAPI{total: 100})
	c.FetchInvoices(Query{Page: 1, PerPage: 10})
	c.Wait()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	changes := []func(){
		func() { c.SetSelectedClient("c1") },
		func() { c.SetFilterDates(DateRange{StartDate: &start}) },
		func() { c.SetFilterDates(DateRange{EndDate: &start}) },
		func() { c.SetFilter(Filters{Client: "c2"}) },
		func() { c.ResetFilters() },
	}

	for _, change := range changes {
		c.SetCurrentPage(4)
		change()
		p := c.State().Pagination
		assert.Equal(t, 1, p.CurrentPage)
		assertConsistent(t, p)
	}
}

func TestChangeItemsPerPage(t *testing.T) {
	api := &fakeAPI{total: 40}
	c := newTestContainer(api)
	c.GoToPage(3)
	c.Wait()

	c.ChangeItemsPerPage(20)
	c.Wait()

	last := api.queries[len(api.queries)-1]
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, 20, last.PerPage)
	p := c.State().Pagination
	assert.Equal(t, 2, p.TotalPages)
	assertConsistent(t, p)
}

func TestFetchInvoices_Failure(t *testing.T) {
	c := newTestContainer(&failingAPI{})

	c.FetchInvoices(Query{Page: 1})
	c.Wait()

	s := c.State()
	assert.Equal(t, "Failed to fetch invoices", s.Invoices.Err)
	assert.False(t, s.Invoices.Loading)
}

type failingAPI struct{ fakeAPI }

func (f *failingAPI) Invoices(context.Context, billing.InvoiceQuery) (*billing.InvoicePage, error) {
	return nil, errors.New("")
}

func TestDetailModal(t *testing.T) {
	c := newTestContainer(&fakeAPI{})

	c.OpenDetail("i7")
	assert.True(t, c.State().DetailOpen)
	c.Wait()

	v := c.Select.Detail(c.State())
	assert.True(t, v.Open)
	assert.Equal(t, "i7", v.Invoice.ID)

	c.CloseDetail()
	v = c.Select.Detail(c.State())
	assert.False(t, v.Open)
	assert.Nil(t, v.Invoice)
	assert.Empty(t, v.Err)
}

func TestDetailModal_LateResultAfterClose(t *testing.T) {
	release := make(chan struct{})
	c := newTestContainer(&fakeAPI{
		invoice: func(id string) (*billing.Invoice, error) {
			<-release
			return &billing.Invoice{ID: id}, nil
		},
	})

	c.OpenDetail("i1")
	c.CloseDetail()
	close(release)
	c.Wait()

	assert.Nil(t, c.State().Selected.Data)
}

func TestDetailModal_ErrorClearedOnClose(t *testing.T) {
	c := newTestContainer(&fakeAPI{
		invoice: func(string) (*billing.Invoice, error) {
			return nil, &billing.Error{Status: 404, Message: "Request failed with status code 404", ServerMessage: "Invoice not found"}
		},
	})

	c.OpenDetail("missing")
	c.Wait()
	assert.Equal(t, "Invoice not found", c.State().Selected.Err)

	c.CloseDetail()
	assert.Empty(t, c.State().Selected.Err)
}

func TestFetchClients_Debounced(t *testing.T) {
	api := &fakeAPI{}
	c := newTestContainer(api)

	c.FetchClients(billing.ClientQuery{Client: "a"})
	c.FetchClients(billing.ClientQuery{Client: "ab"})
	c.Wait()

	assert.Equal(t, []billing.ClientQuery{{Client: "ab"}}, api.clientQueries)
	assert.Equal(t, "ab", c.State().Clients.Data[0].Name)
}

func TestSelectors_Overview(t *testing.T) {
	c := newTestContainer(&fakeAPI{total: 3})

	first := c.Select.Overview(c.State())
	assert.Same(t, first, c.Select.Overview(c.State()))

	c.FetchInvoices(Query{Page: 1})
	c.Wait()

	v := c.Select.Overview(c.State())
	assert.NotSame(t, first, v)
	assert.Equal(t, 3, v.TotalItems)
	assert.Len(t, v.Invoices, 1)
}

type gatedAPI struct {
	fakeAPI
	release chan struct{}
}

func (g *gatedAPI) Invoices(_ context.Context, q billing.InvoiceQuery) (*billing.InvoicePage, error) {
	if q.Client == "slow" {
		<-g.release
		return &billing.InvoicePage{Data: []billing.Invoice{{ID: "stale"}}, Total: 95}, nil
	}
	return &billing.InvoicePage{Data: []billing.Invoice{{ID: "fresh"}}, Total: 25}, nil
}

func TestFetchInvoices_StalePageDropped(t *testing.T) {
	api := &gatedAPI{release: make(chan struct{})}
	c := newTestContainer(api)

	c.FetchInvoices(Query{Page: 1, PerPage: 10, Client: "slow"})
	c.FetchInvoices(Query{Page: 1, PerPage: 10, Client: "fast"})

	require.Eventually(t, func() bool {
		return !c.State().Invoices.Loading
	}, time.Second, 5*time.Millisecond)

	close(api.release)
	c.Wait()

	s := c.State()
	require.Len(t, s.Invoices.Data, 1)
	assert.Equal(t, "fresh", s.Invoices.Data[0].ID)
	assert.Equal(t, 25, s.Pagination.TotalItems)
	assert.Equal(t, 3, s.Pagination.TotalPages)
	assertConsistent(t, s.Pagination)
}
