package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/angelofallars/htmx-go"
	"github.com/google/uuid"

	"github.com/angelofallars/hyperdash/app/workspace"
)

const LoginPath = "/login"

// WithWorkspace attaches the workspace of the requesting browser session to
// the request context. Requests without a valid session cookie get a fresh
// session.
func WithWorkspace(reg *workspace.Registry, cookieName string, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(cookieName); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			ws := reg.Open(id)
			r = r.WithContext(context.WithValue(r.Context(), workspaceKey, ws))

			next.ServeHTTP(w, r)
		})
	}
}

// RequireLogin lets the request through only for an authenticated session.
// A session the API has rejected since the last request is sent through a
// full page reload first.
func RequireLogin(f http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := GetWorkspace(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if ws.Session.TakeReload() {
			if htmx.IsHTMX(r) {
				_ = htmx.NewResponse().Refresh(true).Write(w)
				return
			}
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		if ws.Auth.State().Initializing {
			ws.Auth.Wait()
		}
		if !ws.Auth.State().Authenticated {
			Redirect(w, r, LoginPath)
			return
		}

		f(w, r)
	}
}

func GetWorkspace(c context.Context) (*workspace.Workspace, error) {
	ws, ok := c.Value(workspaceKey).(*workspace.Workspace)
	if !ok {
		return nil, errors.New("session workspace not found")
	}
	return ws, nil
}

// Redirect sends the browser to path, as a client-side redirect for htmx
// requests.
func Redirect(w http.ResponseWriter, r *http.Request, path string) {
	if htmx.IsHTMX(r) {
		_ = htmx.NewResponse().Redirect(path).Write(w)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

type key struct{}

var workspaceKey = key{}
