package invoices

import (
	"time"

	"github.com/angelofallars/hyperdash/internal/store"
	"github.com/angelofallars/hyperdash/pkg/billing"
)

const DefaultPerPage = 10

type Filters struct {
	Client    string
	StartDate time.Time
	EndDate   time.Time
}

// Pagination is kept consistent by every transition that touches it:
// TotalPages = ceil(TotalItems / ItemsPerPage),
// HasNextPage = CurrentPage < TotalPages, HasPrevPage = CurrentPage > 1.
type Pagination struct {
	CurrentPage  int
	ItemsPerPage int
	TotalItems   int
	TotalPages   int
	HasNextPage  bool
	HasPrevPage  bool
}

func (p Pagination) recompute() Pagination {
	if p.ItemsPerPage > 0 {
		p.TotalPages = (p.TotalItems + p.ItemsPerPage - 1) / p.ItemsPerPage
	}
	p.HasNextPage = p.CurrentPage < p.TotalPages
	p.HasPrevPage = p.CurrentPage > 1
	return p
}

type State struct {
	Invoices store.Resource[[]billing.Invoice]
	Clients  store.Resource[[]billing.ClientInfo]
	Selected store.Resource[*billing.Invoice]

	Filters    Filters
	Pagination Pagination

	DetailOpen bool
}

func initialState(perPage int) State {
	return State{
		Pagination: Pagination{
			CurrentPage:  1,
			ItemsPerPage: perPage,
			TotalPages:   1,
		},
	}
}

type resource int

const (
	resInvoices resource = iota
	resClients
	resSelected

	resourceCount
)

var resourceNames = [resourceCount]string{
	resInvoices: "invoices",
	resClients:  "invoice clients",
	resSelected: "invoice",
}

func (r resource) String() string { return resourceNames[r] }

// DateRange is a partial update of the date filters. Nil fields are left
// untouched; a pointer to the zero time clears the field.
type DateRange struct {
	StartDate *time.Time
	EndDate   *time.Time
}

type (
	resourceOp struct {
		res resource
		op  store.Op
	}
	invoicesLoaded struct {
		seq  uint64
		page *billing.InvoicePage
	}
	clientsLoaded struct {
		seq     uint64
		clients []billing.ClientInfo
	}
	invoiceLoaded struct {
		seq     uint64
		invoice *billing.Invoice
	}

	clientSelected string
	datesSet       DateRange
	filtersReset   struct{}

	pageSet    int
	perPageSet int

	detailOpened struct{}
	detailClosed struct{}
)

func reduce(s State, action any) State {
	switch a := action.(type) {
	case resourceOp:
		switch a.res {
		case resInvoices:
			s.Invoices = s.Invoices.Apply(a.op)
		case resClients:
			s.Clients = s.Clients.Apply(a.op)
		case resSelected:
			s.Selected = s.Selected.Apply(a.op)
		}

	case invoicesLoaded:
		if !s.Invoices.Current(a.seq) {
			return s
		}
		s.Invoices = s.Invoices.Succeed(a.seq, a.page.Data)
		s.Pagination.TotalItems = a.page.Total
		s.Pagination = s.Pagination.recompute()
	case clientsLoaded:
		s.Clients = s.Clients.Succeed(a.seq, a.clients)
	case invoiceLoaded:
		s.Selected = s.Selected.Succeed(a.seq, a.invoice)

	case clientSelected:
		s.Filters.Client = string(a)
		s = s.firstPage()
	case datesSet:
		if a.StartDate != nil {
			s.Filters.StartDate = *a.StartDate
		}
		if a.EndDate != nil {
			s.Filters.EndDate = *a.EndDate
		}
		s = s.firstPage()
	case filtersReset:
		s.Filters = Filters{}
		s = s.firstPage()

	case pageSet:
		s.Pagination.CurrentPage = int(a)
		s.Pagination = s.Pagination.recompute()
	case perPageSet:
		s.Pagination.ItemsPerPage = int(a)
		s.Pagination = s.Pagination.recompute()

	case detailOpened:
		s.DetailOpen = true
	case detailClosed:
		s.DetailOpen = false
		s.Selected = s.Selected.Clear()
	}
	return s
}

func (s State) firstPage() State {
	s.Pagination.CurrentPage = 1
	s.Pagination = s.Pagination.recompute()
	return s
}
