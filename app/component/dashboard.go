package component

import (
	"github.com/a-h/templ"

	"github.com/angelofallars/hyperdash/internal/dashboard"
)

type DashboardProps struct {
	User       string
	Overview   *dashboard.OverviewView
	Chart      *dashboard.ChartView
	Statistics StatisticsProps
	Rankings   *dashboard.TopClientsView
}

// StatisticsProps are the statistics cards. The edit form is offered once
// both a client and a building are selected.
type StatisticsProps struct {
	*dashboard.StatsView
	Filters dashboard.Filters
}

func (p StatisticsProps) Editable() bool {
	return p.Filters.ClientID != "" && p.Filters.Building != ""
}

func DashboardPage(props DashboardProps) templ.Component {
	return FullPage("Dashboard", "dashboard", props.User, view("dashboard-page", props))
}

func DashboardFilters(v *dashboard.OverviewView) templ.Component {
	return view("dashboard-filters", v)
}

func DashboardClients(v *dashboard.OverviewView) templ.Component {
	return view("dashboard-clients", v)
}

func DashboardBuildings(v *dashboard.OverviewView) templ.Component {
	return view("dashboard-buildings", v)
}

func DashboardChart(v *dashboard.ChartView) templ.Component {
	return view("dashboard-chart", v)
}

func DashboardStatistics(props StatisticsProps) templ.Component {
	return view("dashboard-statistics", props)
}

func DashboardRankings(v *dashboard.TopClientsView) templ.Component {
	return view("dashboard-rankings", v)
}
