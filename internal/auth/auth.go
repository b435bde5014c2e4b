// Package auth is the session container: startup token restore, login and
// logout.
package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/angelofallars/hyperdash/internal/store"
	"github.com/angelofallars/hyperdash/pkg/billing"
)

type API interface {
	Login(ctx context.Context, creds billing.LoginCredentials) (*billing.AuthResponse, error)
}

// Tokens persists the session token and attaches it to API requests.
type Tokens interface {
	Load(ctx context.Context) (string, bool, error)
	SetToken(ctx context.Context, token string) error
	RemoveToken(ctx context.Context) error
}

type Container struct {
	ctx    context.Context
	api    API
	tokens Tokens
	log    *slog.Logger

	store *store.Store[State]
	tasks store.Tasks

	// commit serializes token writes with the state transition they belong
	// to, so a token stored by a login can never outlive a logout.
	commit sync.Mutex

	Select Selectors
}

func New(ctx context.Context, api API, tokens Tokens, log *slog.Logger) *Container {
	return &Container{
		ctx:    ctx,
		api:    api,
		tokens: tokens,
		log:    log,
		store:  store.New(initialState(), reduce),
		Select: newSelectors(),
	}
}

func (c *Container) State() State { return c.store.State() }

// Wait blocks until every effect started so far has landed.
func (c *Container) Wait() { c.tasks.Wait() }

// Init restores a persisted token. A stored token is trusted as is; it is
// not validated against the server.
func (c *Container) Init() {
	generation := c.store.Dispatch(initStarted{}).generation
	c.tasks.Go(func() {
		token, ok, err := c.tokens.Load(c.ctx)
		if err != nil {
			c.log.Error("restoring session failed", "err", err)
		}

		c.commit.Lock()
		defer c.commit.Unlock()

		if !ok || c.store.State().generation != generation {
			c.store.Dispatch(initCompleted{})
			return
		}

		if err := c.tokens.SetToken(c.ctx, token); err != nil {
			c.log.Error("attaching session token failed", "err", err)
		}
		c.store.Dispatch(initSucceeded{token: token})
	})
}

func (c *Container) Login(creds billing.LoginCredentials) {
	generation := c.store.Dispatch(loginStarted{}).generation

	c.tasks.Go(func() {
		resp, err := c.api.Login(c.ctx, creds)
		if err != nil {
			c.log.Error("login failed", "user", creds.Name, "err", err)
			c.store.Dispatch(loginFailed{
				generation: generation,
				msg:        billing.ErrorMessage(err, "Login failed"),
			})
			return
		}

		c.commit.Lock()
		defer c.commit.Unlock()

		if c.store.State().generation != generation {
			return
		}
		if err := c.tokens.SetToken(c.ctx, resp.AccessToken); err != nil {
			c.log.Error("storing session token failed", "err", err)
		}
		c.store.Dispatch(loginSucceeded{
			generation: generation,
			token:      resp.AccessToken,
			user:       resp.User,
		})
	})
}

// Logout forgets the token and resets the session. No server round-trip is
// made.
func (c *Container) Logout() {
	c.commit.Lock()
	defer c.commit.Unlock()

	if err := c.tokens.RemoveToken(c.ctx); err != nil {
		c.log.Error("removing session token failed", "err", err)
	}
	c.store.Dispatch(loggedOut{})
}

// Expire resets the session after the API rejected its token. The token is
// wiped again under the commit lock in case a login stored one meanwhile.
func (c *Container) Expire() {
	c.commit.Lock()
	defer c.commit.Unlock()

	if err := c.tokens.RemoveToken(c.ctx); err != nil {
		c.log.Error("removing session token failed", "err", err)
	}
	c.store.Dispatch(expired{})
}

func (c *Container) SetLoading(loading bool) {
	c.store.Dispatch(setLoading(loading))
}

// ClearError dismisses the login error.
func (c *Container) ClearError() {
	c.store.Dispatch(clearError{})
}
