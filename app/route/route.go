// Package route holds what the handler groups share.
package route

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/angelofallars/htmx-go"

	"github.com/angelofallars/hyperdash/app/auth"
	"github.com/angelofallars/hyperdash/app/event"
	"github.com/angelofallars/hyperdash/app/workspace"
	"github.com/angelofallars/hyperdash/pkg/billing"
)

func ShowError(w http.ResponseWriter, code int, err error) {
	_ = htmx.NewResponse().
		StatusCode(code).
		Reswap(htmx.SwapNone).
		AddTrigger(event.TriggerSetErrMessage(err.Error())).
		Write(w)
}

// ShowAPIError shows the message of an API error, answering with the API's
// own status code when it has one.
func ShowAPIError(w http.ResponseWriter, err error, fallback string) {
	code := http.StatusBadGateway
	var apiErr *billing.Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		code = apiErr.Status
	}
	ShowError(w, code, errors.New(billing.ErrorMessage(err, fallback)))
}

// Workspace returns the session workspace of r, answering the request itself
// when there is none.
func Workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	ws, err := auth.GetWorkspace(r.Context())
	if err != nil {
		ShowError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return ws, true
}

// WithWorkspace adapts a handler that works on the session workspace.
func WithWorkspace(f func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := Workspace(w, r)
		if !ok {
			return
		}
		f(w, r, ws)
	}
}

func Render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	_ = htmx.NewResponse().RenderTempl(r.Context(), w, c)
}
