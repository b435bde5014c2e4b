package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/angelofallars/hyperdash/app/auth"
	"github.com/angelofallars/hyperdash/app/route/dashboard"
	"github.com/angelofallars/hyperdash/app/route/invoice"
	"github.com/angelofallars/hyperdash/app/route/login"
)

func (a *App) RegisterRoutes() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)

	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("app/static/"))))

	a.router.Group(func(r chi.Router) {
		r.Use(auth.WithWorkspace(a.workspaces, a.sessionCookie, a.sessionTTL))

		login.NewHandlerGroup().Mount(r)
		dashboard.NewHandlerGroup().Mount(r)
		invoice.NewHandlerGroup(a.slog).Mount(r)
	})
}
