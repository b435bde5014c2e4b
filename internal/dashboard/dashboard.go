// Package dashboard is the analytics container: client and building
// search, chart data, statistics and client rankings, each loading and
// failing independently.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/angelofallars/hyperdash/internal/store"
	"github.com/angelofallars/hyperdash/pkg/billing"
)

const DefaultDebounce = 300 * time.Millisecond

type API interface {
	Clients(ctx context.Context, q billing.ClientQuery) ([]billing.ClientInfo, error)
	Buildings(ctx context.Context, clientID, searchKey string) ([]billing.Building, error)
	ChartData(ctx context.Context, q billing.ChartQuery) ([]billing.ChartDataPoint, error)
	Statistics(ctx context.Context, clientID, building string) (*billing.Statistics, error)
	UpdateStatistics(ctx context.Context, clientID, building string, update billing.StatisticsUpdate) (*billing.Statistics, error)
	TopPayingClients(ctx context.Context) ([]billing.ClientTableData, error)
	LeastPayingClients(ctx context.Context) ([]billing.ClientTableData, error)
}

type Container struct {
	ctx context.Context
	api API
	log *slog.Logger

	store *store.Store[State]
	tasks store.Tasks
	seqs  [resourceCount]store.Sequence

	clientSearch   *store.Debouncer
	buildingSearch *store.Debouncer

	Select Selectors
}

func New(ctx context.Context, api API, debounce time.Duration, log *slog.Logger) *Container {
	c := &Container{
		ctx:    ctx,
		api:    api,
		log:    log,
		store:  store.New(State{}, reduce),
		Select: newSelectors(),
	}
	c.clientSearch = store.NewDebouncer(debounce, &c.tasks)
	c.buildingSearch = store.NewDebouncer(debounce, &c.tasks)
	return c
}

func (c *Container) State() State { return c.store.State() }

// Wait blocks until every effect started or pending so far has landed.
func (c *Container) Wait() { c.tasks.Wait() }

// Close drops pending debounced searches.
func (c *Container) Close() {
	c.clientSearch.Stop()
	c.buildingSearch.Stop()
}

// Mount loads everything the dashboard page shows on first render.
func (c *Container) Mount() {
	c.FetchChartData(nil)
	c.FetchClients("")
	c.FetchStatistics()
	c.FetchTopPayingClients()
	c.FetchLeastPayingClients()
}

// FetchClients searches clients by name. Bursts are debounced; an empty
// term lists every client.
func (c *Container) FetchClients(searchTerm string) {
	c.store.Dispatch(resourceOp{res: resClients, op: store.QueueOp()})
	c.clientSearch.Trigger(func() {
		seq := c.begin(resClients)
		clients, err := c.api.Clients(c.ctx, billing.ClientQuery{SearchKey: searchTerm})
		finish(c, resClients, seq, clients, err, "Failed to fetch clients")
	})
}

// FetchBuildings searches the buildings of one client, debounced like
// FetchClients. Without a client the result is empty and no request is made.
func (c *Container) FetchBuildings(clientID, searchKey string) {
	c.store.Dispatch(resourceOp{res: resBuildings, op: store.QueueOp()})
	c.buildingSearch.Trigger(func() {
		seq := c.begin(resBuildings)
		if clientID == "" {
			finish(c, resBuildings, seq, []billing.Building{}, nil, "")
			return
		}
		buildings, err := c.api.Buildings(c.ctx, clientID, searchKey)
		finish(c, resBuildings, seq, buildings, err, "Failed to fetch buildings")
	})
}

// FetchChartData queries chart data with the stored filters, overridden by
// any non-empty field of override.
func (c *Container) FetchChartData(override *FilterPatch) {
	filters := c.store.State().Filters
	if override != nil {
		filters = filters.Override(*override)
	}

	seq := c.begin(resChart)
	c.tasks.Go(func() {
		points, err := c.api.ChartData(c.ctx, billing.ChartQuery{
			Client:    filters.ClientID,
			Building:  filters.Building,
			StartDate: filters.StartDate,
			EndDate:   filters.EndDate,
		})
		finish(c, resChart, seq, points, err, "Failed to fetch chart data")
	})
}

// FetchStatistics queries statistics for the stored client and building.
func (c *Container) FetchStatistics() {
	filters := c.store.State().Filters

	seq := c.begin(resStatistics)
	c.tasks.Go(func() {
		stats, err := c.api.Statistics(c.ctx, filters.ClientID, filters.Building)
		finish(c, resStatistics, seq, stats, err, "Failed to fetch statistics")
	})
}

// UpdateStatistics overwrites the statistics of one client and building.
// The response replaces the statistics snapshot.
func (c *Container) UpdateStatistics(clientID, building string, update billing.StatisticsUpdate) {
	seq := c.begin(resStatistics)
	c.tasks.Go(func() {
		stats, err := c.api.UpdateStatistics(c.ctx, clientID, building, update)
		finish(c, resStatistics, seq, stats, err, "Failed to update statistics")
	})
}

func (c *Container) FetchTopPayingClients() {
	seq := c.begin(resTopPaying)
	c.tasks.Go(func() {
		clients, err := c.api.TopPayingClients(c.ctx)
		finish(c, resTopPaying, seq, clients, err, "Failed to fetch top paying clients")
	})
}

func (c *Container) FetchLeastPayingClients() {
	seq := c.begin(resLeastPaying)
	c.tasks.Go(func() {
		clients, err := c.api.LeastPayingClients(c.ctx)
		finish(c, resLeastPaying, seq, clients, err, "Failed to fetch least paying clients")
	})
}

// SetFilters merges patch into the stored filters. Nothing is fetched.
func (c *Container) SetFilters(patch FilterPatch) {
	c.store.Dispatch(filtersSet(patch))
}

// ResetFilters restores the empty filters. Nothing is fetched.
func (c *Container) ResetFilters() {
	c.store.Dispatch(filtersReset{})
}

// ApplyFilters is the single filters-changed event: it stores patch and
// refetches everything keyed by the filters.
func (c *Container) ApplyFilters(patch FilterPatch) {
	c.SetFilters(patch)
	c.refresh()
}

// ClearFilters resets the filters, reloads the full client list and
// refetches everything keyed by the filters.
func (c *Container) ClearFilters() {
	c.ResetFilters()
	c.FetchClients("")
	c.FetchBuildings("", "")
	c.refresh()
}

func (c *Container) refresh() {
	c.FetchChartData(nil)
	c.FetchStatistics()
}

func (c *Container) begin(res resource) uint64 {
	seq := c.seqs[res].Next()
	c.store.Dispatch(resourceOp{res: res, op: store.BeginOp(seq)})
	return seq
}

func finish[T any](c *Container, res resource, seq uint64, data T, err error, fallback string) {
	if err != nil {
		c.log.Error("fetch failed", "resource", res.String(), "err", err)
		c.store.Dispatch(resourceOp{res: res, op: store.FailOp(seq, billing.ErrorMessage(err, fallback))})
		return
	}
	c.store.Dispatch(loaded[T]{res: res, seq: seq, data: data})
}
