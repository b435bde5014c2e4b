package invoice

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelofallars/hyperdash/internal/invoices"
)

const maxPerPage = 100

// FilterRequest is the invoice filter bar, client search box included.
type FilterRequest struct {
	Client       string `form:"client"`
	StartDate    string `form:"start-date"`
	EndDate      string `form:"end-date"`
	ClientSearch string `form:"client-search"`

	Start time.Time `form:"-"`
	End   time.Time `form:"-"`
}

// FilterRequest satisfies [render.Binder]
func (fr *FilterRequest) Bind(r *http.Request) error {
	var err error

	fr.ClientSearch = strings.TrimSpace(fr.ClientSearch)

	if fr.StartDate != "" {
		if fr.Start, err = time.Parse(time.DateOnly, fr.StartDate); err != nil {
			return fmt.Errorf("Invalid start date: %s", fr.StartDate)
		}
	}
	if fr.EndDate != "" {
		if fr.End, err = time.Parse(time.DateOnly, fr.EndDate); err != nil {
			return fmt.Errorf("Invalid end date: %s", fr.EndDate)
		}
	}

	if !fr.Start.IsZero() && !fr.End.IsZero() && fr.Start.After(fr.End) {
		return errors.New("Start date must be earlier than end date.")
	}

	return nil
}

func (fr *FilterRequest) Filters() invoices.Filters {
	return invoices.Filters{
		Client:    fr.Client,
		StartDate: fr.Start,
		EndDate:   fr.End,
	}
}

type PerPageRequest struct {
	PerPage string `form:"per-page"`

	perPage int
}

// PerPageRequest satisfies [render.Binder]
func (pr *PerPageRequest) Bind(r *http.Request) error {
	n, err := strconv.Atoi(pr.PerPage)
	if err != nil || n < 1 {
		return fmt.Errorf("Invalid page size: %s", pr.PerPage)
	}
	if n > maxPerPage {
		return fmt.Errorf("Page size cannot be more than %d", maxPerPage)
	}

	pr.perPage = n
	return nil
}
