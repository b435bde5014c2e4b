package dashboard

import (
	"github.com/angelofallars/hyperdash/internal/store"
	"github.com/angelofallars/hyperdash/pkg/billing"
)

type OverviewView struct {
	Clients          []billing.ClientInfo
	ClientsLoading   bool
	ClientsErr       string
	Buildings        []billing.Building
	BuildingsLoading bool
	BuildingsErr     string
	Filters          Filters
}

type ChartView struct {
	Data    []billing.ChartDataPoint
	Series  *ChartSeries
	Loading bool
	Err     string
}

type StatsView struct {
	Statistics *billing.Statistics
	Loading    bool
	Err        string
}

type TopClientsView struct {
	TopPaying          []billing.ClientTableData
	TopPayingLoading   bool
	TopPayingErr       string
	LeastPaying        []billing.ClientTableData
	LeastPayingLoading bool
	LeastPayingErr     string
}

// Selectors bundle state into the shape each dashboard section renders.
// Results are memoized per Container.
type Selectors struct {
	Overview   func(State) *OverviewView
	Chart      func(State) *ChartView
	Stats      func(State) *StatsView
	TopClients func(State) *TopClientsView
}

type overviewKey struct {
	clients   store.Key
	buildings store.Key
	filters   Filters
}

func newSelectors() Selectors {
	return Selectors{
		Overview: store.Memo(
			func(s State) overviewKey {
				return overviewKey{clients: s.Clients.Key(), buildings: s.Buildings.Key(), filters: s.Filters}
			},
			func(s State) *OverviewView {
				return &OverviewView{
					Clients:          s.Clients.Data,
					ClientsLoading:   s.Clients.Loading,
					ClientsErr:       s.Clients.Err,
					Buildings:        s.Buildings.Data,
					BuildingsLoading: s.Buildings.Loading,
					BuildingsErr:     s.Buildings.Err,
					Filters:          s.Filters,
				}
			},
		),
		Chart: store.Memo(
			func(s State) store.Key { return s.Chart.Key() },
			func(s State) *ChartView {
				return &ChartView{
					Data:    s.Chart.Data,
					Series:  Series(s.Chart.Data),
					Loading: s.Chart.Loading,
					Err:     s.Chart.Err,
				}
			},
		),
		Stats: store.Memo(
			func(s State) store.Key { return s.Statistics.Key() },
			func(s State) *StatsView {
				return &StatsView{
					Statistics: s.Statistics.Data,
					Loading:    s.Statistics.Loading,
					Err:        s.Statistics.Err,
				}
			},
		),
		TopClients: store.Memo(
			func(s State) [2]store.Key { return [2]store.Key{s.TopPaying.Key(), s.LeastPaying.Key()} },
			func(s State) *TopClientsView {
				return &TopClientsView{
					TopPaying:          s.TopPaying.Data,
					TopPayingLoading:   s.TopPaying.Loading,
					TopPayingErr:       s.TopPaying.Err,
					LeastPaying:        s.LeastPaying.Data,
					LeastPayingLoading: s.LeastPaying.Loading,
					LeastPayingErr:     s.LeastPaying.Err,
				}
			},
		),
	}
}
