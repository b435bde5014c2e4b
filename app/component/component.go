// Package component holds the server-rendered views. Every view is a
// [templ.Component] backed by the embedded HTML templates.
package component

import (
	"context"
	"embed"
	"encoding/json"
	"html"
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/angelofallars/hyperdash/app/event"
	"github.com/angelofallars/hyperdash/internal/format"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.New("").Funcs(funcs).ParseFS(files, "templates/*.html"))

type events struct {
	SetErrMessage   event.Event
	FiltersChanged  event.Event
	InvoicesChanged event.Event
}

var funcs = template.FuncMap{
	"currency":   format.Currency,
	"number":     format.Number,
	"int":        format.Int,
	"date":       format.Date,
	"dateString": format.DateString,
	"dateInput":  dateInput,
	"json":       toJSON,
	"listen":     listen,
	"pages":      pages,
	"add":        func(a, b int) int { return a + b },
	"sub":        func(a, b int) int { return a - b },
	"events": func() events {
		return events{
			SetErrMessage:   event.SetErrMessage,
			FiltersChanged:  event.FiltersChanged,
			InvoicesChanged: event.InvoicesChanged,
		}
	},
}

func view(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}

type pageProps struct {
	Title  string
	Active string
	User   string
}

// FullPage wraps body in the document shell. active names the highlighted
// navigation entry; an empty user hides the navigation.
func FullPage(title, active, user string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		props := pageProps{Title: title, Active: active, User: user}
		if err := templates.ExecuteTemplate(w, "page-start", props); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		return templates.ExecuteTemplate(w, "page-end", props)
	})
}

// listen renders the x-on attribute of e.
func listen(e event.Event, jsCode string) template.HTMLAttr {
	attrs := e.Listen(jsCode)

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		value, _ := attrs[name].(string)
		b.WriteString(name + `="` + html.EscapeString(value) + `"`)
	}
	return template.HTMLAttr(b.String())
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

func dateInput(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

// pages lists the page numbers 1..n.
func pages(n int) []int {
	out := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, i)
	}
	return out
}
