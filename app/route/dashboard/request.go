package dashboard

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelofallars/hyperdash/internal/dashboard"
	"github.com/angelofallars/hyperdash/pkg/billing"
)

// FilterRequest is the dashboard filter bar. The search boxes are part of
// the same form, so every filter endpoint binds the whole of it.
type FilterRequest struct {
	Client         string `form:"client"`
	Building       string `form:"building"`
	StartDate      string `form:"start-date"`
	EndDate        string `form:"end-date"`
	ClientSearch   string `form:"client-search"`
	BuildingSearch string `form:"building-search"`

	Start time.Time `form:"-"`
	End   time.Time `form:"-"`
}

// FilterRequest satisfies [render.Binder]
func (fr *FilterRequest) Bind(r *http.Request) error {
	var err error

	fr.ClientSearch = strings.TrimSpace(fr.ClientSearch)
	fr.BuildingSearch = strings.TrimSpace(fr.BuildingSearch)

	if fr.Start, err = parseDate(fr.StartDate); err != nil {
		return fmt.Errorf("Invalid start date: %s", fr.StartDate)
	}
	if fr.End, err = parseDate(fr.EndDate); err != nil {
		return fmt.Errorf("Invalid end date: %s", fr.EndDate)
	}

	if !fr.Start.IsZero() && !fr.End.IsZero() && fr.Start.After(fr.End) {
		return errors.New("Start date must be earlier than end date.")
	}

	// A building belongs to a client.
	if fr.Client == "" {
		fr.Building = ""
	}

	return nil
}

// Patch is the full filter state of the form. Every field is set, so
// clearing a field in the form clears the stored filter.
func (fr *FilterRequest) Patch() dashboard.FilterPatch {
	return dashboard.FilterPatch{
		ClientID:  &fr.Client,
		Building:  &fr.Building,
		StartDate: &fr.Start,
		EndDate:   &fr.End,
	}
}

type StatisticsRequest struct {
	Client        string `form:"client"`
	Building      string `form:"building"`
	TotalEarnings string `form:"total-earnings"`
	TotalSavings  string `form:"total-savings"`
	EnergyScore   string `form:"energy-score"`

	earnings decimal.Decimal
	savings  decimal.Decimal
	score    decimal.Decimal
}

var maxEnergyScore = decimal.NewFromInt(100)

// StatisticsRequest satisfies [render.Binder]
func (sr *StatisticsRequest) Bind(r *http.Request) error {
	var err error

	if sr.Client == "" || sr.Building == "" {
		return errors.New("Select a client and a building to edit their statistics.")
	}

	if sr.earnings, err = parseAmount("Total earnings", sr.TotalEarnings); err != nil {
		return err
	}
	if sr.savings, err = parseAmount("Total savings", sr.TotalSavings); err != nil {
		return err
	}
	if sr.score, err = parseAmount("Energy score", sr.EnergyScore); err != nil {
		return err
	}
	if sr.score.GreaterThan(maxEnergyScore) {
		return errors.New("Energy score cannot be greater than 100")
	}

	return nil
}

func (sr *StatisticsRequest) Update() billing.StatisticsUpdate {
	return billing.StatisticsUpdate{
		TotalEarnings: sr.earnings.Round(2).InexactFloat64(),
		TotalSavings:  sr.savings.Round(2).InexactFloat64(),
		EnergyScore:   sr.score.InexactFloat64(),
	}
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a number", field)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s cannot be less than zero", field)
	}
	return d, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}
