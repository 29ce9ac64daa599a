package chart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const day = 24 * 60 * 60

type candle struct {
	x          float64
	o, h, l, c float64
}

// candlesticks draws one wick and body per trading day.
type candlesticks struct {
	data []candle
	up   color.Color
	down color.Color
}

func (cs *candlesticks) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	half := halfWidth(len(cs.data), func(i int) float64 { return cs.data[i].x })

	for _, d := range cs.data {
		clr := cs.down
		if d.c >= d.o {
			clr = cs.up
		}
		line := draw.LineStyle{Color: clr, Width: vg.Points(1)}

		x := trX(d.x)
		c.StrokeLine2(line, x, trY(d.l), x, trY(d.h))

		left, right := trX(d.x-half), trX(d.x+half)
		lo, hi := trY(math.Min(d.o, d.c)), trY(math.Max(d.o, d.c))
		if lo == hi {
			c.StrokeLine2(line, left, lo, right, lo)
			continue
		}
		c.FillPolygon(clr, []vg.Point{{X: left, Y: lo}, {X: right, Y: lo}, {X: right, Y: hi}, {X: left, Y: hi}})
	}
}

func (cs *candlesticks) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	half := halfWidth(len(cs.data), func(i int) float64 { return cs.data[i].x })
	for _, d := range cs.data {
		xmin = math.Min(xmin, d.x-half)
		xmax = math.Max(xmax, d.x+half)
		ymin = math.Min(ymin, math.Min(d.l, math.Min(d.o, d.c)))
		ymax = math.Max(ymax, math.Max(d.h, math.Max(d.o, d.c)))
	}
	return
}

type bar struct {
	x   float64
	v   float64
	clr color.Color
}

// volumeBars draws bars from zero, each in its own colour.
type volumeBars struct {
	data []bar
}

func (vb *volumeBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	half := halfWidth(len(vb.data), func(i int) float64 { return vb.data[i].x })

	for _, d := range vb.data {
		left, right := trX(d.x-half), trX(d.x+half)
		base, top := trY(0), trY(d.v)
		if base == top {
			continue
		}
		c.FillPolygon(d.clr, []vg.Point{{X: left, Y: base}, {X: right, Y: base}, {X: right, Y: top}, {X: left, Y: top}})
	}
}

func (vb *volumeBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	ymin, ymax = 0, 0
	half := halfWidth(len(vb.data), func(i int) float64 { return vb.data[i].x })
	for _, d := range vb.data {
		xmin = math.Min(xmin, d.x-half)
		xmax = math.Max(xmax, d.x+half)
		ymin = math.Min(ymin, d.v)
		ymax = math.Max(ymax, d.v)
	}
	return
}

// halfWidth is 40% of the smallest gap between points, at most 0.4 days.
func halfWidth(n int, x func(i int) float64) float64 {
	gap := float64(day)
	for i := 1; i < n; i++ {
		if d := math.Abs(x(i) - x(i-1)); d > 0 && d < gap {
			gap = d
		}
	}
	return gap * 0.4
}
