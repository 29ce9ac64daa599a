package chart

import (
	"fmt"
	"image/color"
	"io"
	"strings"
	"time"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// RenderPNG draws ch as a width x height PNG image. Days with a missing price
// are left out of the candle panel and days with a missing volume out of the
// volume panel.
func RenderPNG(w io.Writer, ch Chart, width, height int) error {
	if len(ch.Layout.Panels) != 2 {
		return fmt.Errorf("expected 2 chart panels, got %d", len(ch.Layout.Panels))
	}

	candles, err := candlesFrom(ch)
	if err != nil {
		return err
	}
	bars, err := barsFrom(ch)
	if err != nil {
		return err
	}

	top := plot.New()
	top.Title.Text = ch.Title + "\n" + ch.Subtitle
	top.Title.TextStyle.Color = parseColor(ch.Style.TitleColor)
	top.Title.TextStyle.Font.Size = vg.Points(float64(ch.Style.TitleSize) * 0.6)
	top.Y.Label.Text = ch.Layout.Panels[0].YAxisLabel
	top.X.Tick.Marker = plot.ConstantTicks{}
	if len(candles.data) > 0 {
		top.Add(candles)
	}

	bottom := plot.New()
	bottom.Y.Label.Text = ch.Layout.Panels[1].YAxisLabel
	bottom.X.Tick.Marker = plot.TimeTicks{Format: time.DateOnly}
	if len(bars.data) > 0 {
		bottom.Add(bars)
	}

	if len(candles.data) == 0 {
		top.Y.Min, top.Y.Max = 0, 1
	}
	if len(bars.data) == 0 {
		bottom.Y.Min, bottom.Y.Max = 0, 1
	}
	if len(candles.data) == 0 && len(bars.data) == 0 {
		top.X.Min, top.X.Max = 0, day
		bottom.X.Min, bottom.X.Max = 0, day
	}

	return writeStacked(w, ch.Layout, []*plot.Plot{top, bottom}, width, height)
}

func candlesFrom(ch Chart) (*candlesticks, error) {
	cs := &candlesticks{
		up:   parseColor(ch.Style.IncreasingColor),
		down: parseColor(ch.Style.DecreasingColor),
	}

	for _, p := range ch.Price {
		if !p.Open.Valid || !p.High.Valid || !p.Low.Valid || !p.Close.Valid {
			continue
		}

		x, err := unixDay(p.Date)
		if err != nil {
			return nil, err
		}
		cs.data = append(cs.data, candle{x: x, o: p.Open.Float64, h: p.High.Float64, l: p.Low.Float64, c: p.Close.Float64})
	}

	return cs, nil
}

func barsFrom(ch Chart) (*volumeBars, error) {
	vb := &volumeBars{}
	for _, p := range ch.Volume {
		if !p.Volume.Valid {
			continue
		}

		x, err := unixDay(p.Date)
		if err != nil {
			return nil, err
		}
		vb.data = append(vb.data, bar{x: x, v: p.Volume.Float64, clr: parseColor(ch.Style.Color(p.Color))})
	}

	return vb, nil
}

func unixDay(date string) (float64, error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return 0, fmt.Errorf("invalid chart date %q: %w", date, err)
	}
	return float64(t.Unix()), nil
}

// parseColor accepts #rrggbb or a CSS colour name. Anything else is gray.
func parseColor(s string) color.Color {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{R: r, G: g, B: b, A: 0xff}
		}
	}

	if c, ok := colornames.Map[s]; ok {
		return c
	}

	return colornames.Gray
}
