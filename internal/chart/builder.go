package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/gamma-omg/stock-dashboard/internal/config"
	"github.com/gamma-omg/stock-dashboard/internal/market"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

const (
	PricePanel  = "price"
	VolumePanel = "volume"
)

type Builder struct {
	cfg config.Chart
}

func NewBuilder(cfg config.Chart) *Builder {
	return &Builder{cfg: cfg}
}

// Build maps a filtered dataset to chart series, one point per record in
// dataset order. label is shown in the subtitle.
func (b *Builder) Build(ds market.Dataset, label string) Chart {
	price := make([]PricePoint, len(ds))
	volume := make([]VolumePoint, len(ds))

	for i, r := range ds {
		date := r.Date.Format(time.DateOnly)
		price[i] = PricePoint{
			Date:  date,
			Open:  toNull(r.Open),
			High:  toNull(r.High),
			Low:   toNull(r.Low),
			Close: toNull(r.Close),
		}
		volume[i] = VolumePoint{
			Date:   date,
			Volume: toNull(r.Volume),
			Color:  b.direction(r),
		}
	}

	return Chart{
		Title:    b.cfg.Title,
		Subtitle: fmt.Sprintf("%s — Candlestick with Trading Volume", label),
		Label:    label,
		Price:    price,
		Volume:   volume,
		Layout: Layout{
			Panels: []Panel{
				{Name: PricePanel, YAxisLabel: "Price", HeightRatio: 0.7},
				{Name: VolumePanel, YAxisLabel: "Volume", HeightRatio: 0.3},
			},
			SharedXAxis:     true,
			VerticalSpacing: 0.03,
			Height:          b.cfg.Height,
			RangeSlider:     false,
		},
		Style: Style{
			TitleFont:       "Montserrat, Arial Black, Helvetica Neue, Arial",
			TitleSize:       28,
			TitleColor:      b.cfg.TitleColor,
			SubtitleColor:   b.cfg.SubtitleColor,
			IncreasingColor: b.cfg.IncreasingColor,
			DecreasingColor: b.cfg.DecreasingColor,
			UnknownColor:    "gray",
		},
	}
}

func (b *Builder) direction(r market.Record) Direction {
	if !r.Open.Valid || !r.Close.Valid {
		if b.cfg.FlagMissing {
			return Unknown
		}
		return Decrease
	}

	return DirectionOf(r.Open.Decimal, r.Close.Decimal)
}

// DirectionOf treats an unchanged close as an increase.
func DirectionOf(open, close decimal.Decimal) Direction {
	if close.GreaterThanOrEqual(open) {
		return Increase
	}
	return Decrease
}

func toNull(d decimal.NullDecimal) null.Float {
	if !d.Valid {
		return null.Float{}
	}

	f, _ := d.Decimal.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return null.Float{}
	}
	return null.FloatFrom(f)
}
