// Package workspace keeps one set of containers per browser session, all
// sharing that session's token and API client.
package workspace

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/angelofallars/hyperdash/internal/auth"
	"github.com/angelofallars/hyperdash/internal/dashboard"
	"github.com/angelofallars/hyperdash/internal/invoices"
	"github.com/angelofallars/hyperdash/internal/session"
	"github.com/angelofallars/hyperdash/pkg/billing"
)

type Config struct {
	APIBaseURL      string
	APITimeout      time.Duration
	SearchDebounce  time.Duration
	InvoicesPerPage int

	LoginRate  rate.Limit
	LoginBurst int

	// IdleTTL is how long an unused workspace is kept in memory.
	IdleTTL time.Duration

	// HTTPClient overrides the API transport, for tests.
	HTTPClient *http.Client
}

type Workspace struct {
	ID string

	Session   *session.Manager
	API       *billing.Client
	Auth      *auth.Container
	Dashboard *dashboard.Container
	Invoices  *invoices.Container

	// LoginLimiter throttles login attempts of this session.
	LoginLimiter *rate.Limiter

	cancel   context.CancelFunc
	mu       sync.Mutex
	lastSeen time.Time
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.lastSeen
}

func (w *Workspace) close() {
	w.cancel()
	w.Dashboard.Close()
	w.Invoices.Close()
}

type Registry struct {
	cfg    Config
	tokens session.Store
	log    *slog.Logger
	now    func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry(cfg Config, tokens session.Store, log *slog.Logger) *Registry {
	return &Registry{
		cfg:        cfg,
		tokens:     tokens,
		log:        log,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Open returns the workspace of session id, creating it on first use. A new
// workspace starts by restoring the session token from the token store.
func (r *Registry) Open(id string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.workspaces[id]
	if !ok {
		ws = r.build(id)
		r.workspaces[id] = ws
		r.log.Debug("workspace opened", "session", id)
	}
	ws.touch(r.now())
	return ws
}

func (r *Registry) build(id string) *Workspace {
	ctx, cancel := context.WithCancel(context.Background())
	log := r.log.With("session", id)

	manager := session.NewManager(id, r.tokens, log)

	opts := []billing.Option{
		billing.WithTimeout(r.cfg.APITimeout),
		billing.WithTokenSource(manager),
		billing.WithUnauthorizedHandler(manager.Invalidate),
	}
	if r.cfg.HTTPClient != nil {
		opts = append(opts, billing.WithHTTPClient(r.cfg.HTTPClient))
	}
	api := billing.New(r.cfg.APIBaseURL, opts...)

	ws := &Workspace{
		ID:           id,
		Session:      manager,
		API:          api,
		Auth:         auth.New(ctx, api, manager, log),
		Dashboard:    dashboard.New(ctx, api, r.cfg.SearchDebounce, log),
		Invoices:     invoices.New(ctx, api, r.cfg.InvoicesPerPage, r.cfg.SearchDebounce, log),
		LoginLimiter: rate.NewLimiter(r.cfg.LoginRate, r.cfg.LoginBurst),
		cancel:       cancel,
	}
	manager.OnInvalidate(ws.Auth.Expire)
	ws.Auth.Init()

	return ws
}

// Close drops the workspace of session id. Its persisted token is kept.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	ws, ok := r.workspaces[id]
	delete(r.workspaces, id)
	r.mu.Unlock()

	if ok {
		ws.close()
	}
}

// Sweep drops every workspace idle for longer than the configured TTL and
// returns how many were dropped.
func (r *Registry) Sweep() int {
	if r.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	var idle []*Workspace
	for id, ws := range r.workspaces {
		if ws.idleSince().Before(cutoff) {
			idle = append(idle, ws)
			delete(r.workspaces, id)
		}
	}
	r.mu.Unlock()

	for _, ws := range idle {
		ws.close()
	}
	return len(idle)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Info("idle workspaces dropped", "count", n)
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.workspaces)
}
