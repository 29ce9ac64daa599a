package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one trading day. Fields with Valid == false are missing in the source.
type Record struct {
	Date     time.Time
	Year     int
	Open     decimal.NullDecimal
	High     decimal.NullDecimal
	Low      decimal.NullDecimal
	Close    decimal.NullDecimal
	AdjClose decimal.NullDecimal
	Volume   decimal.NullDecimal
}

// Dataset is kept in source order.
type Dataset []Record

// NewRecord truncates date to its calendar day and derives Year from it.
func NewRecord(date time.Time, open, high, low, close, adjClose, volume decimal.NullDecimal) Record {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return Record{
		Date:     day,
		Year:     day.Year(),
		Open:     open,
		High:     high,
		Low:      low,
		Close:    close,
		AdjClose: adjClose,
		Volume:   volume,
	}
}

func Value(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func Missing() decimal.NullDecimal {
	return decimal.NullDecimal{}
}
