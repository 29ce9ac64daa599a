package market

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)

	tbl := []string{
		"2022-01-03",
		" 2022-01-03 ",
		"2022-01-03 16:00:00",
		"2022-01-03T16:00:00",
		"2022-01-03T23:30:00-05:00",
		"2022/01/03",
		"01/03/2022",
	}

	for i, in := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			d, err := ParseDate(in)
			require.NoError(t, err)
			assert.Equal(t, want, d)
		})
	}
}

func TestParseDate_Error(t *testing.T) {
	for _, in := range []string{"", "N/A", "2022-13-01", "yesterday"} {
		_, err := ParseDate(in)
		require.Error(t, err)

		var de *DateError
		assert.True(t, errors.As(err, &de))
	}
}

func TestParseNumber(t *testing.T) {
	tbl := []struct {
		in    string
		valid bool
		out   decimal.Decimal
	}{
		{in: "421.07", valid: true, out: decimal.RequireFromString("421.07")},
		{in: " 12 ", valid: true, out: decimal.NewFromInt(12)},
		{in: "-0.5", valid: true, out: decimal.RequireFromString("-0.5")},
		{in: "1e3", valid: true, out: decimal.NewFromInt(1000)},
		{in: "", valid: false},
		{in: "N/A", valid: false},
		{in: "nan", valid: false},
		{in: "1,234", valid: false},
		{in: "0e500", valid: true, out: decimal.Zero},
		{in: "1e300", valid: true, out: decimal.New(1, 300)},
		{in: "1e400", valid: false},
		{in: "-1e400", valid: false},
		{in: "2e308", valid: false},
		{in: "1e10000000", valid: false},
		{in: "1e-10000000", valid: false},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			n := ParseNumber(c.in)
			assert.Equal(t, c.valid, n.Valid)
			if c.valid {
				assert.True(t, c.out.Equal(n.Decimal))
			}
		})
	}
}
