package chart

import (
	"fmt"
	"io"

	"github.com/pplcc/plotext"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// writeStacked draws plots top to bottom as the rows of layout, all on one X
// range, and encodes the result as PNG.
func writeStacked(w io.Writer, layout Layout, plots []*plot.Plot, width, height int) error {
	if len(plots) != len(layout.Panels) {
		return fmt.Errorf("%d plots for %d panels", len(plots), len(layout.Panels))
	}

	xs := make([]*plot.Axis, len(plots))
	rows := make([][]*plot.Plot, len(plots))
	ratios := make([]float64, len(plots))
	for i, p := range plots {
		xs[i] = &p.X
		rows[i] = []*plot.Plot{p}
		ratios[i] = layout.Panels[i].HeightRatio
	}
	if layout.SharedXAxis {
		plotext.UniteAxisRanges(xs)
	}

	h := vg.Points(float64(height))
	img := vgimg.New(vg.Points(float64(width)), h)
	tbl := plotext.Table{
		RowHeights: ratios,
		ColWidths:  []float64{1},
		PadY:       vg.Length(layout.VerticalSpacing) * h,
	}

	for i, row := range tbl.Align(rows, draw.New(img)) {
		plots[i].Draw(row[0])
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart image: %w", err)
	}
	return nil
}
