package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelofallars/hyperdash/pkg/billing"
)

func TestSeries_Empty(t *testing.T) {
	assert.Nil(t, Series(nil))
}

func TestSeries(t *testing.T) {
	points := []billing.ChartDataPoint{
		{
			Date:                        "2024-02-01T00:00:00.000Z",
			TotalElectricCostCumulative: 300.4,
			TotalElectricCost:           150,
			TotalConsumptionCost:        100.5,
			TotalDemandCost:             20,
			TotalEnergyUsage:            1234.5,
		},
		{
			Date:                        "2024-01-01T00:00:00.000Z",
			TotalElectricCostCumulative: 150,
			TotalElectricCost:           100,
			TotalConsumptionCost:        80,
			TotalDemandCost:             40,
		},
	}

	s := Series(points)

	assert.Equal(t, []string{"Jan 2024", "Feb 2024"}, s.Categories)
	assert.Equal(t, []float64{150, 300}, s.TotalElectricCost)
	assert.Equal(t, []float64{80, 101}, s.ConsumptionCost)
	assert.Equal(t, []float64{0, 30}, s.MiscCost)
	assert.Equal(t, []float64{0, 1235}, s.TotalEnergyUsage)

	assert.Equal(t, "2024-02-01T00:00:00.000Z", points[0].Date)
}
