// Package format renders amounts, counts and dates the way the dashboard
// shows them (US English).
package format

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const DateLayout = "Jan 2, 2006"

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats an amount in US dollars with two decimals, e.g.
// "$1,234.50" or "-$3.00".
func Currency(amount float64) string {
	sign := ""
	if amount < 0 && math.Round(amount*100) != 0 {
		sign = "-"
	}
	return sign + "$" + printer.Sprintf("%v", number.Decimal(math.Abs(amount),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Number formats n with thousands separators and at most three decimals.
func Number(n float64) string {
	return printer.Sprintf("%v", number.Decimal(n, number.MaxFractionDigits(3)))
}

func Int(n int) string {
	return printer.Sprintf("%v", number.Decimal(n))
}

func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// DateString formats an API timestamp. Values that are not timestamps are
// returned unchanged.
func DateString(s string) string {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date(t)
		}
	}
	return s
}
