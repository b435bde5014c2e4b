package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Manager owns the bearer token of one browser session. It is the token
// source of that session's API client: the token is read when each request
// is built, so a request built after RemoveToken never carries the old one.
type Manager struct {
	id    string
	store Store
	log   *slog.Logger

	mu           sync.RWMutex
	token        string
	onInvalidate []func()

	reloads atomic.Int32
}

func NewManager(id string, store Store, log *slog.Logger) *Manager {
	return &Manager{
		id:    id,
		store: store,
		log:   log,
	}
}

func (m *Manager) ID() string { return m.id }

func (m *Manager) key() string {
	return TokenKey + ":" + m.id
}

// Token satisfies [billing.TokenSource].
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token
}

// Load reads the persisted token, if any.
func (m *Manager) Load(ctx context.Context) (string, bool, error) {
	token, err := m.store.Get(ctx, m.key())
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, token != "", nil
}

// SetToken persists token and attaches it to every request built from now on.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	return m.store.Set(ctx, m.key(), token)
}

// RemoveToken forgets the token. Calling it with no token set is a no-op.
func (m *Manager) RemoveToken(ctx context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()

	return m.store.Delete(ctx, m.key())
}

// OnInvalidate registers f to run whenever the API rejects the session.
func (m *Manager) OnInvalidate(f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onInvalidate = append(m.onInvalidate, f)
}

// Invalidate tears the session down after a 401: the token is wiped,
// listeners are notified and one page reload is requested.
func (m *Manager) Invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.RemoveToken(ctx); err != nil {
		m.log.Error("removing token failed", "session", m.id, "err", err)
	}

	m.mu.RLock()
	listeners := append([]func(){}, m.onInvalidate...)
	m.mu.RUnlock()

	for _, f := range listeners {
		f()
	}

	m.reloads.Add(1)
	m.log.Info("session invalidated", "session", m.id)
}

// TakeReload reports whether a reload was requested since the last call,
// consuming the request.
func (m *Manager) TakeReload() bool {
	return m.reloads.Swap(0) > 0
}
