package billing

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// isoLayout matches the millisecond UTC form the API expects for dates.
const isoLayout = "2006-01-02T15:04:05.000Z"

// Params are query parameters or a request payload. A nil value is an
// explicit null; a value of Undefined is dropped entirely.
type Params map[string]any

type undefined struct{}

// Undefined marks a field that must never reach the server.
var Undefined = undefined{}

// FormatTime renders t as an ISO-8601 UTC timestamp with milliseconds.
func FormatTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// BuildQuery encodes params as a URL query string.
//
// Explicit nulls become empty values, empty values (zero, false, "", the zero
// time) are skipped, dates are ISO-8601, slices repeat their key and
// nested objects are JSON encoded.
func BuildQuery(params Params) string {
	if len(params) == 0 {
		return ""
	}

	values := url.Values{}
	for key, raw := range params {
		if raw == nil {
			values.Add(key, "")
			continue
		}
		if isEmpty(raw) {
			continue
		}

		rv := reflect.ValueOf(raw)
		switch {
		case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8:
			for i := 0; i < rv.Len(); i++ {
				item := rv.Index(i).Interface()
				switch {
				case item == nil:
					values.Add(key, "")
				case isEmpty(item):
				default:
					values.Add(key, queryValue(item))
				}
			}
		default:
			values.Add(key, queryValue(raw))
		}
	}

	return values.Encode()
}

// BuildURL appends the encoded params to base.
func BuildURL(base string, params Params) string {
	q := BuildQuery(params)
	if q == "" {
		return base
	}
	if strings.Contains(base, "?") {
		return base + "&" + q
	}
	return base + "?" + q
}

func queryValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case time.Time:
		return FormatTime(v)
	case *time.Time:
		return FormatTime(*v)
	case fmt.Stringer:
		return v.String()
	}

	switch reflect.Indirect(reflect.ValueOf(v)).Kind() {
	case reflect.Map, reflect.Struct:
		b, err := json.Marshal(NormalizePayload(v))
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}

	return fmt.Sprint(v)
}

func isEmpty(v any) bool {
	switch v := v.(type) {
	case undefined:
		return true
	case time.Time:
		return v.IsZero()
	case *time.Time:
		return v == nil || v.IsZero()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice:
		return false
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return rv.IsZero()
}

// NormalizePayload strips Undefined fields recursively, keeps explicit
// nulls and converts dates to ISO-8601 strings. Values of other types are
// returned as is.
func NormalizePayload(payload any) any {
	switch p := payload.(type) {
	case nil:
		return nil
	case time.Time:
		return FormatTime(p)
	case *time.Time:
		if p == nil {
			return nil
		}
		return FormatTime(*p)
	case Params:
		return normalizeMap(p)
	case map[string]any:
		return normalizeMap(p)
	case []any:
		out := make([]any, 0, len(p))
		for _, item := range p {
			out = append(out, NormalizePayload(item))
		}
		return out
	}
	return payload
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, skip := v.(undefined); skip {
			continue
		}
		out[k] = NormalizePayload(v)
	}
	return out
}
