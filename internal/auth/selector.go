package auth

import "github.com/angelofallars/hyperdash/internal/store"

type View struct {
	Authenticated bool
	Initializing  bool
	Loading       bool
	Err           string
	UserName      string
}

type Selectors struct {
	Auth func(State) *View
}

func newSelectors() Selectors {
	return Selectors{
		Auth: store.Memo(view, func(s State) *View {
			v := view(s)
			return &v
		}),
	}
}

func view(s State) View {
	v := View{
		Authenticated: s.Authenticated,
		Initializing:  s.Initializing,
		Loading:       s.Loading,
		Err:           s.Err,
	}
	if s.User != nil {
		v.UserName = s.User.Name
	}
	return v
}
