package dashboard

import (
	"time"

	"github.com/angelofallars/hyperdash/internal/store"
	"github.com/angelofallars/hyperdash/pkg/billing"
)

// Filters is the query shared by the chart data and statistics fetches.
// Building only makes sense together with a ClientID; the state does not
// enforce that.
type Filters struct {
	ClientID  string
	Building  string
	StartDate time.Time
	EndDate   time.Time
}

// FilterPatch is a partial Filters update. Nil fields are left untouched.
type FilterPatch struct {
	ClientID  *string
	Building  *string
	StartDate *time.Time
	EndDate   *time.Time
}

// Merge applies p over f, field by field.
func (f Filters) Merge(p FilterPatch) Filters {
	if p.ClientID != nil {
		f.ClientID = *p.ClientID
	}
	if p.Building != nil {
		f.Building = *p.Building
	}
	if p.StartDate != nil {
		f.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		f.EndDate = *p.EndDate
	}
	return f
}

// Override fills f from p wherever p holds a non-empty value.
func (f Filters) Override(p FilterPatch) Filters {
	if p.ClientID != nil && *p.ClientID != "" {
		f.ClientID = *p.ClientID
	}
	if p.Building != nil && *p.Building != "" {
		f.Building = *p.Building
	}
	if p.StartDate != nil && !p.StartDate.IsZero() {
		f.StartDate = *p.StartDate
	}
	if p.EndDate != nil && !p.EndDate.IsZero() {
		f.EndDate = *p.EndDate
	}
	return f
}

type State struct {
	Clients     store.Resource[[]billing.ClientInfo]
	Buildings   store.Resource[[]billing.Building]
	Chart       store.Resource[[]billing.ChartDataPoint]
	Statistics  store.Resource[*billing.Statistics]
	TopPaying   store.Resource[[]billing.ClientTableData]
	LeastPaying store.Resource[[]billing.ClientTableData]

	Filters Filters
}

type resource int

const (
	resClients resource = iota
	resBuildings
	resChart
	resStatistics
	resTopPaying
	resLeastPaying

	resourceCount
)

var resourceNames = [resourceCount]string{
	resClients:     "clients",
	resBuildings:   "buildings",
	resChart:       "chart data",
	resStatistics:  "statistics",
	resTopPaying:   "top paying clients",
	resLeastPaying: "least paying clients",
}

func (r resource) String() string { return resourceNames[r] }

type (
	// resourceOp routes a data-independent transition to one resource.
	resourceOp struct {
		res resource
		op  store.Op
	}
	loaded[T any] struct {
		res  resource
		seq  uint64
		data T
	}

	filtersSet   FilterPatch
	filtersReset struct{}
)

func reduce(s State, action any) State {
	switch a := action.(type) {
	case resourceOp:
		switch a.res {
		case resClients:
			s.Clients = s.Clients.Apply(a.op)
		case resBuildings:
			s.Buildings = s.Buildings.Apply(a.op)
		case resChart:
			s.Chart = s.Chart.Apply(a.op)
		case resStatistics:
			s.Statistics = s.Statistics.Apply(a.op)
		case resTopPaying:
			s.TopPaying = s.TopPaying.Apply(a.op)
		case resLeastPaying:
			s.LeastPaying = s.LeastPaying.Apply(a.op)
		}

	case loaded[[]billing.ClientInfo]:
		s.Clients = s.Clients.Succeed(a.seq, a.data)
	case loaded[[]billing.Building]:
		s.Buildings = s.Buildings.Succeed(a.seq, a.data)
	case loaded[[]billing.ChartDataPoint]:
		s.Chart = s.Chart.Succeed(a.seq, a.data)
	case loaded[*billing.Statistics]:
		s.Statistics = s.Statistics.Succeed(a.seq, a.data)
	case loaded[[]billing.ClientTableData]:
		if a.res == resTopPaying {
			s.TopPaying = s.TopPaying.Succeed(a.seq, a.data)
		} else {
			s.LeastPaying = s.LeastPaying.Succeed(a.seq, a.data)
		}

	case filtersSet:
		s.Filters = s.Filters.Merge(FilterPatch(a))
	case filtersReset:
		s.Filters = Filters{}
	}
	return s
}
