package billing

import (
	"errors"

	"github.com/tidwall/gjson"
)

var (
	ErrUnauthorized = errors.New("billing API rejected the session token")
	ErrTimeout      = errors.New("billing API request timed out")
)

// Error is returned for every failed request: transport failures, timeouts
// and non-2xx responses.
type Error struct {
	// Status is zero when no response was received.
	Status int
	// Message describes the failure from the client's point of view.
	Message string
	// ServerMessage is the "message" field of the response body, if any.
	ServerMessage string
	Err           error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func serverMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return gjson.GetBytes(body, "message").String()
}

// ErrorMessage turns err into a human-readable message, preferring the
// message supplied by the server, then the error text, then fallback.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.ServerMessage != "" {
		return apiErr.ServerMessage
	}

	if msg := err.Error(); msg != "" {
		return msg
	}

	return fallback
}
