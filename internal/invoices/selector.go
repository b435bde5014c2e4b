package invoices

import (
	"github.com/angelofallars/hyperdash/internal/store"
	"github.com/angelofallars/hyperdash/pkg/billing"
)

type OverviewView struct {
	Invoices        []billing.Invoice
	InvoicesLoading bool
	InvoicesErr     string

	Clients        []billing.ClientInfo
	ClientsLoading bool
	ClientsErr     string

	Filters Filters
	Pagination
}

type DetailView struct {
	Invoice *billing.Invoice
	Loading bool
	Err     string
	Open    bool
}

type Selectors struct {
	Overview func(State) *OverviewView
	Detail   func(State) *DetailView
}

type overviewKey struct {
	invoices   store.Key
	clients    store.Key
	filters    Filters
	pagination Pagination
}

type detailKey struct {
	selected store.Key
	open     bool
}

func newSelectors() Selectors {
	return Selectors{
		Overview: store.Memo(
			func(s State) overviewKey {
				return overviewKey{
					invoices:   s.Invoices.Key(),
					clients:    s.Clients.Key(),
					filters:    s.Filters,
					pagination: s.Pagination,
				}
			},
			func(s State) *OverviewView {
				return &OverviewView{
					Invoices:        s.Invoices.Data,
					InvoicesLoading: s.Invoices.Loading,
					InvoicesErr:     s.Invoices.Err,
					Clients:         s.Clients.Data,
					ClientsLoading:  s.Clients.Loading,
					ClientsErr:      s.Clients.Err,
					Filters:         s.Filters,
					Pagination:      s.Pagination,
				}
			},
		),
		Detail: store.Memo(
			func(s State) detailKey {
				return detailKey{selected: s.Selected.Key(), open: s.DetailOpen}
			},
			func(s State) *DetailView {
				return &DetailView{
					Invoice: s.Selected.Data,
					Loading: s.Selected.Loading,
					Err:     s.Selected.Err,
					Open:    s.DetailOpen,
				}
			},
		),
	}
}
