package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelofallars/hyperdash/app/workspace"
)

type App struct {
	host string
	port int

	slog   *slog.Logger
	router chi.Router

	workspaces    *workspace.Registry
	sessionCookie string
	sessionTTL    time.Duration
}

// New builds the app. Sessions are tracked with the cookieName cookie, kept
// for sessionTTL.
func New(slog *slog.Logger, workspaces *workspace.Registry, cookieName string, sessionTTL time.Duration) *App {
	app := &App{
		host: "localhost",
		port: 3000,

		router: chi.NewRouter(),
		slog:   slog,

		workspaces:    workspaces,
		sessionCookie: cookieName,
		sessionTTL:    sessionTTL,
	}

	app.RegisterRoutes()

	return app
}

func (a *App) WithHost(host string) *App {
	a.host = host
	return a
}

func (a *App) WithPort(port uint) *App {
	a.port = int(port)
	return a
}

// Handler returns the HTTP handler of the app.
func (a *App) Handler() http.Handler {
	return a.router
}

// Serve listens until ctx is done, then shuts the server down gracefully.
func (a *App) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", a.host, a.port)
	server := http.Server{
		Addr:    addr,
		Handler: a.router,

		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go a.workspaces.RunSweeper(ctx, time.Minute)

	errc := make(chan error, 1)
	go func() {
		a.slog.Info("server started listening", "addr", addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.slog.Info("server shutting down")
	return server.Shutdown(shutdownCtx)
}
