package theme

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"adoptionchart/internal/charts"
)

// Palette is the set of colors a chart is drawn with
type Palette struct {
	Dark                bool
	TextColor           drawing.Color
	GridColor           drawing.Color
	CompletedBorder     drawing.Color
	CompletedBackground drawing.Color
	TotalBorder         drawing.Color
	TotalBackground     drawing.Color
	// Backdrop is the page color behind the chart, used by hosts that
	// need an opaque background (e.g. a standalone PNG viewer).
	Backdrop drawing.Color
}

var lightPalette = Palette{
	Dark:                false,
	TextColor:           drawing.Color{R: 0x33, G: 0x33, B: 0x33, A: 255},
	GridColor:           drawing.Color{R: 0, G: 0, B: 0, A: 26},
	CompletedBorder:     drawing.Color{R: 75, G: 192, B: 192, A: 255},
	CompletedBackground: drawing.Color{R: 75, G: 192, B: 192, A: 204},
	TotalBorder:         drawing.Color{R: 255, G: 99, B: 132, A: 255},
	TotalBackground:     drawing.Color{R: 255, G: 99, B: 132, A: 204},
	Backdrop:            drawing.Color{R: 255, G: 255, B: 255, A: 255},
}

var darkPalette = Palette{
	Dark:                true,
	TextColor:           drawing.Color{R: 0xe0, G: 0xe0, B: 0xe0, A: 255},
	GridColor:           drawing.Color{R: 255, G: 255, B: 255, A: 26},
	CompletedBorder:     drawing.Color{R: 94, G: 234, B: 212, A: 255},
	CompletedBackground: drawing.Color{R: 94, G: 234, B: 212, A: 204},
	TotalBorder:         drawing.Color{R: 251, G: 113, B: 133, A: 255},
	TotalBackground:     drawing.Color{R: 251, G: 113, B: 133, A: 204},
	Backdrop:            drawing.Color{R: 0x1e, G: 0x1e, B: 0x1e, A: 255},
}

// ResolvePalette returns the palette for the given mode. It is a pure
// function of isDark.
func ResolvePalette(isDark bool) Palette {
	if isDark {
		return darkPalette
	}
	return lightPalette
}

// Style maps p onto chart styling. The completed series comes first, then
// the total series, matching the order the renderer builds them in.
func (p Palette) Style() charts.Style {
	axis := charts.AxisStyle{
		Tick:  p.TextColor,
		Grid:  p.GridColor,
		Title: p.TextColor,
	}
	return charts.Style{
		Series: []charts.SeriesStyle{
			{Border: p.CompletedBorder, Background: p.CompletedBackground},
			{Border: p.TotalBorder, Background: p.TotalBackground},
		},
		XAxis:       axis,
		YAxis:       axis,
		LegendColor: p.TextColor,
		TitleColor:  p.TextColor,
	}
}

// Name returns "dark" or "light"
func (p Palette) Name() string {
	if p.Dark {
		return "dark"
	}
	return "light"
}
