package chart

import "github.com/guregu/null/v6"

type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
	Unknown  Direction = "unknown"
)

type PricePoint struct {
	Date  string     `json:"date"`
	Open  null.Float `json:"open"`
	High  null.Float `json:"high"`
	Low   null.Float `json:"low"`
	Close null.Float `json:"close"`
}

type VolumePoint struct {
	Date   string     `json:"date"`
	Volume null.Float `json:"volume"`
	Color  Direction  `json:"color"`
}

type Panel struct {
	Name        string  `json:"name"`
	YAxisLabel  string  `json:"y_axis_label"`
	HeightRatio float64 `json:"height_ratio"`
}

type Layout struct {
	Panels          []Panel `json:"panels"`
	SharedXAxis     bool    `json:"shared_x_axis"`
	VerticalSpacing float64 `json:"vertical_spacing"`
	Height          int     `json:"height"`
	RangeSlider     bool    `json:"range_slider"`
}

type Style struct {
	TitleFont       string `json:"title_font"`
	TitleSize       int    `json:"title_size"`
	TitleColor      string `json:"title_color"`
	SubtitleColor   string `json:"subtitle_color"`
	IncreasingColor string `json:"increasing_color"`
	DecreasingColor string `json:"decreasing_color"`
	UnknownColor    string `json:"unknown_color"`
}

// Chart is the renderer-neutral description of the two-panel price/volume chart.
type Chart struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Label    string        `json:"label"`
	Price    []PricePoint  `json:"price"`
	Volume   []VolumePoint `json:"volume"`
	Layout   Layout        `json:"layout"`
	Style    Style         `json:"style"`
}

// Color resolves a direction to the configured colour name. Anything that is
// not an increase or a decrease gets the unknown colour.
func (s Style) Color(d Direction) string {
	switch d {
	case Increase:
		return s.IncreasingColor
	case Decrease:
		return s.DecreasingColor
	default:
		return s.UnknownColor
	}
}
