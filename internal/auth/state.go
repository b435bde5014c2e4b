package auth

import "github.com/angelofallars/hyperdash/pkg/billing"

type State struct {
	Authenticated bool
	Token         string
	User          *billing.User
	Loading       bool
	Err           string
	Initializing  bool

	// generation increments on every logout or expiry; login results
	// started under an older generation are dropped.
	generation uint64
}

func initialState() State {
	return State{Initializing: true}
}

type (
	initStarted   struct{}
	initSucceeded struct{ token string }
	initCompleted struct{}

	loginStarted   struct{}
	loginSucceeded struct {
		generation uint64
		token      string
		user       billing.User
	}
	loginFailed struct {
		generation uint64
		msg        string
	}

	loggedOut  struct{}
	expired    struct{}
	setLoading bool
	clearError struct{}
)

func reduce(s State, action any) State {
	switch a := action.(type) {
	case initStarted:
		s.Initializing = true
	case initSucceeded:
		s.Authenticated = true
		s.Token = a.token
		s.Initializing = false
	case initCompleted:
		s.Initializing = false

	case loginStarted:
		s.Err = ""
		s.Loading = true
	case loginSucceeded:
		if a.generation != s.generation {
			return s
		}
		user := a.user
		s.Authenticated = true
		s.Token = a.token
		s.User = &user
		s.Err = ""
		s.Loading = false
	case loginFailed:
		if a.generation != s.generation {
			return s
		}
		s.Authenticated = false
		s.Token = ""
		s.User = nil
		s.Err = a.msg
		s.Loading = false

	case loggedOut, expired:
		s = State{generation: s.generation + 1}
	case setLoading:
		s.Loading = bool(a)
	case clearError:
		s.Err = ""
	}
	return s
}
