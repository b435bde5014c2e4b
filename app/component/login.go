package component

import "github.com/a-h/templ"

type LoginProps struct {
	Name    string
	Err     string
	Limited bool
}

func LoginPage(props LoginProps) templ.Component {
	return FullPage("Sign in", "", "", LoginForm(props))
}

func LoginForm(props LoginProps) templ.Component {
	return view("login-form", props)
}
