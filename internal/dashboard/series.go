package dashboard

import (
	"math"
	"slices"
	"time"

	"github.com/angelofallars/hyperdash/pkg/billing"
)

// ChartSeries is chart data reshaped for the renderer: one category per
// data point, ordered by date, with every figure rounded to a whole amount.
type ChartSeries struct {
	Categories []string `json:"categories"`

	TotalElectricCost []float64 `json:"totalElectricCost"`
	TotalSupplyCost   []float64 `json:"totalSupplyCost"`
	TotalDeliveryCost []float64 `json:"totalDeliveryCost"`

	ConsumptionCost []float64 `json:"consumptionCost"`
	DemandCost      []float64 `json:"demandCost"`
	MiscCost        []float64 `json:"miscCost"`

	TotalDemandPrimary []float64 `json:"totalDemandPrimary"`
	TotalEnergyUsage   []float64 `json:"totalEnergyUsage"`
}

var dateLayouts = []string{time.RFC3339Nano, time.DateOnly, "2006-01"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// round matches the renderer's half-up rounding.
func round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Series derives chart series from points without modifying them. It
// returns nil when there is nothing to plot.
func Series(points []billing.ChartDataPoint) *ChartSeries {
	if len(points) == 0 {
		return nil
	}

	type dated struct {
		point billing.ChartDataPoint
		at    time.Time
		ok    bool
	}

	sorted := make([]dated, 0, len(points))
	for _, p := range points {
		at, ok := parseDate(p.Date)
		sorted = append(sorted, dated{point: p, at: at, ok: ok})
	}
	slices.SortStableFunc(sorted, func(a, b dated) int {
		return a.at.Compare(b.at)
	})

	s := &ChartSeries{}
	for _, d := range sorted {
		p := d.point

		category := p.Date
		if d.ok {
			category = d.at.Format("Jan 2006")
		}
		s.Categories = append(s.Categories, category)

		s.TotalElectricCost = append(s.TotalElectricCost, round(p.TotalElectricCostCumulative))
		s.TotalSupplyCost = append(s.TotalSupplyCost, round(p.TotalSupplyCostCumulative))
		s.TotalDeliveryCost = append(s.TotalDeliveryCost, round(p.TotalDeliveryCostCumulative))

		s.ConsumptionCost = append(s.ConsumptionCost, round(p.TotalConsumptionCost))
		s.DemandCost = append(s.DemandCost, round(p.TotalDemandCost))
		s.MiscCost = append(s.MiscCost, round(math.Max(0, p.TotalElectricCost-p.TotalConsumptionCost-p.TotalDemandCost)))

		s.TotalDemandPrimary = append(s.TotalDemandPrimary, round(p.TotalDemandPrimary))
		s.TotalEnergyUsage = append(s.TotalEnergyUsage, round(p.TotalEnergyUsage))
	}

	return s
}
