package login

import (
	"errors"
	"net/http"
	"strings"

	"github.com/angelofallars/htmx-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/angelofallars/hyperdash/app/auth"
	"github.com/angelofallars/hyperdash/app/component"
	"github.com/angelofallars/hyperdash/app/event"
	"github.com/angelofallars/hyperdash/app/route"
	"github.com/angelofallars/hyperdash/pkg/billing"
)

const tooManyAttempts = "Too many login attempts. Please wait a moment and try again."

type HandlerGroup struct{}

func NewHandlerGroup() *HandlerGroup {
	return &HandlerGroup{}
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Get(auth.LoginPath, handleLoginPage)
	r.Post(auth.LoginPath, handleLogin)
	r.Post(auth.LoginPath+"/dismiss", handleDismissError)
	r.Post("/logout", handleLogout)
}

func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	ws, ok := route.Workspace(w, r)
	if !ok {
		return
	}

	ws.Auth.Wait()
	v := ws.Auth.Select.Auth(ws.Auth.State())
	if v.Authenticated {
		auth.Redirect(w, r, "/")
		return
	}

	_ = component.LoginPage(component.LoginProps{Err: v.Err}).Render(r.Context(), w)
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	req := &LoginRequest{}
	if err := render.Bind(r, req); err != nil {
		route.ShowError(w, http.StatusBadRequest, err)
		return
	}

	ws, ok := route.Workspace(w, r)
	if !ok {
		return
	}

	if !ws.LoginLimiter.Allow() {
		_ = htmx.NewResponse().
			RenderTempl(r.Context(), w, component.LoginForm(component.LoginProps{
				Name:    req.Name,
				Err:     tooManyAttempts,
				Limited: true,
			}))
		return
	}

	ws.Auth.Login(billing.LoginCredentials{Name: req.Name, Password: req.Password})
	ws.Auth.Wait()

	// A 401 tears the session down like anywhere else.
	if ws.Session.TakeReload() {
		_ = htmx.NewResponse().Refresh(true).Write(w)
		return
	}

	v := ws.Auth.Select.Auth(ws.Auth.State())
	if v.Authenticated {
		auth.Redirect(w, r, "/")
		return
	}

	_ = htmx.NewResponse().
		AddTrigger(event.TriggerSetErrMessage("")).
		RenderTempl(r.Context(), w, component.LoginForm(component.LoginProps{
			Name: req.Name,
			Err:  v.Err,
		}))
}

func handleDismissError(w http.ResponseWriter, r *http.Request) {
	ws, ok := route.Workspace(w, r)
	if !ok {
		return
	}

	// The alert is removed client-side; the typed credentials stay in place.
	ws.Auth.ClearError()

	_ = htmx.NewResponse().Write(w)
}

func handleLogout(w http.ResponseWriter, r *http.Request) {
	ws, ok := route.Workspace(w, r)
	if !ok {
		return
	}

	ws.Auth.Logout()
	auth.Redirect(w, r, auth.LoginPath)
}

type LoginRequest struct {
	Name     string `form:"name"`
	Password string `form:"password"`
}

// LoginRequest satisfies [render.Binder]
func (lr *LoginRequest) Bind(r *http.Request) error {
	lr.Name = strings.TrimSpace(lr.Name)

	if lr.Name == "" {
		return errors.New("Username is required.")
	}
	if lr.Password == "" {
		return errors.New("Password is required.")
	}
	return nil
}
