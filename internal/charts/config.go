package charts

import (
	"fmt"
	"strconv"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"adoptionchart/internal/models"
)

// TimeUnit is the granularity of x-axis ticks
type TimeUnit string

const (
	UnitDay   TimeUnit = "day"
	UnitMonth TimeUnit = "month"
	UnitYear  TimeUnit = "year"
)

// DefaultLogFloor replaces non-positive values on a logarithmic axis
const DefaultLogFloor = 0.1

// Config is everything a backend needs to draw one chart
type Config struct {
	SurfaceID  string
	Title      string
	XAxisTitle string
	YAxisTitle string
	Series     []SeriesConfig

	TimeUnit TimeUnit
	LogY     bool
	// LogFloor is the value drawn in place of zero or negative values when
	// LogY is set. The series data itself is left untouched.
	LogFloor float64

	ShowLegend bool
	// FontFamily is the CSS font stack for the HTML backend
	FontFamily string
	// Font is the raster equivalent of FontFamily for PNG/SVG. Nil uses the
	// go-chart default.
	Font *truetype.Font
	Width      int
	Height     int

	Style Style
}

// SeriesConfig is one plotted line
type SeriesConfig struct {
	Name        string
	Points      []models.Point
	PointRadius float64
}

// Style holds every color the theme controls. Series is index-aligned with
// Config.Series.
type Style struct {
	Series      []SeriesStyle
	XAxis       AxisStyle
	YAxis       AxisStyle
	LegendColor drawing.Color
	TitleColor  drawing.Color
}

// SeriesStyle colors one line and its points
type SeriesStyle struct {
	Border     drawing.Color
	Background drawing.Color
}

// AxisStyle colors one axis
type AxisStyle struct {
	Tick  drawing.Color
	Grid  drawing.Color
	Title drawing.Color
}

// clone returns a copy that shares no slices with s
func (s Style) clone() Style {
	out := s
	out.Series = append([]SeriesStyle(nil), s.Series...)
	return out
}

// clone returns a copy of c whose Style can be mutated independently
func (c Config) clone() Config {
	out := c
	out.Series = append([]SeriesConfig(nil), c.Series...)
	out.Style = c.Style.clone()
	return out
}

// SeriesStyleAt returns the style for series i, or a zero style if the
// palette has fewer entries than the chart has series.
func (s Style) SeriesStyleAt(i int) SeriesStyle {
	if i < len(s.Series) {
		return s.Series[i]
	}
	return SeriesStyle{}
}

func (c Config) logFloor() float64 {
	if c.LogFloor > 0 {
		return c.LogFloor
	}
	return DefaultLogFloor
}

func (c Config) size() (int, int) {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = 960
	}
	if h <= 0 {
		h = 480
	}
	return w, h
}

// Validate checks the parts of a config every backend relies on
func (c Config) Validate() error {
	if len(c.Series) == 0 {
		return fmt.Errorf("chart needs at least one series")
	}
	for i, s := range c.Series {
		if s.Name == "" {
			return fmt.Errorf("series %d has no name", i)
		}
	}
	return nil
}

// CSS formats a color for HTML/JS consumers, e.g. "rgba(75, 192, 192, 0.8)"
func CSS(c drawing.Color) string {
	alpha := strconv.FormatFloat(float64(c.A)/255.0, 'f', 2, 64)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, alpha)
}

// Hex formats c as #rrggbb, dropping alpha
func Hex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
