package market

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// DateError reports a date cell that could not be parsed. It aborts a load.
type DateError struct {
	Line  int
	Value string
}

func (e *DateError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: unable to parse date %q", e.Line, e.Value)
	}
	return fmt.Sprintf("unable to parse date %q", e.Value)
}

// ParseDate parses s with the first matching layout. The calendar day is the one
// written in s, regardless of any zone offset.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, &DateError{Value: s}
}

// maxDigits bounds the integer digits of a value that still fits a float64.
const maxDigits = 309

// ParseNumber never fails: anything that is not a finite float64-sized number
// is reported as missing.
func ParseNumber(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return Missing()
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Missing()
	}
	if d.IsZero() {
		return Value(decimal.Zero)
	}

	// Converting a huge exponent builds a huge big.Rat, so reject by size first.
	exp := int(d.Exponent())
	if exp+d.NumDigits() > maxDigits || exp < -2*maxDigits {
		return Missing()
	}
	if f, _ := d.Float64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return Missing()
	}

	return Value(d)
}
