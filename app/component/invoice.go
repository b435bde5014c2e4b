package component

import (
	"github.com/a-h/templ"

	"github.com/angelofallars/hyperdash/internal/invoices"
)

type InvoicesProps struct {
	User     string
	Overview *invoices.OverviewView
	Detail   *invoices.DetailView
}

func InvoicesPage(props InvoicesProps) templ.Component {
	return FullPage("Invoices", "invoices", props.User, view("invoices-page", props))
}

func InvoiceFilters(v *invoices.OverviewView) templ.Component {
	return view("invoice-filters", v)
}

func InvoiceClients(v *invoices.OverviewView) templ.Component {
	return view("invoice-clients", v)
}

func InvoiceTable(v *invoices.OverviewView) templ.Component {
	return view("invoice-table", v)
}

func InvoiceDetail(v *invoices.DetailView) templ.Component {
	return view("invoice-detail", v)
}
