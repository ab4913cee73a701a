package charts

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const noDataMessage = "No historical data"

// GoChartBackend renders static images with go-chart
type GoChartBackend struct {
	name        string
	provider    chart.RendererProvider
	contentType string
	ext         string
}

// NewPNGBackend renders charts as PNG
func NewPNGBackend() *GoChartBackend {
	return &GoChartBackend{name: "png", provider: chart.PNG, contentType: "image/png", ext: "png"}
}

// NewSVGBackend renders charts as SVG
func NewSVGBackend() *GoChartBackend {
	return &GoChartBackend{name: "svg", provider: chart.SVG, contentType: "image/svg+xml", ext: "svg"}
}

func (b *GoChartBackend) Name() string        { return b.name }
func (b *GoChartBackend) ContentType() string { return b.contentType }
func (b *GoChartBackend) Extension() string   { return b.ext }

// Render draws cfg to w
func (b *GoChartBackend) Render(cfg Config, w io.Writer) error {
	graph := b.baseChart(cfg)

	if !hasData(cfg) {
		b.placeholder(&graph, cfg)
		return graph.Render(b.provider, w)
	}

	minT, maxT := timeBounds(cfg)
	graph.XAxis.Ticks = timeTicks(minT, maxT, cfg.TimeUnit)
	if !maxT.After(minT) {
		pad := step(minT, cfg.TimeUnit, 1).Sub(minT)
		graph.XAxis.Range = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(minT.Add(-pad)),
			Max: chart.TimeToFloat64(maxT.Add(pad)),
		}
	}

	if cfg.LogY {
		ticks, lo, hi := decadeTicks(valueBounds(cfg))
		graph.YAxis.Ticks = ticks
		graph.YAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
	}

	for i, s := range cfg.Series {
		graph.Series = append(graph.Series, timeSeries(cfg, i, s))
	}

	if cfg.ShowLegend {
		graph.Elements = []chart.Renderable{
			chart.Legend(&graph, chart.Style{
				FontColor:   cfg.Style.LegendColor,
				FillColor:   drawing.ColorTransparent,
				StrokeColor: cfg.Style.YAxis.Grid,
			}),
		}
	}

	if err := graph.Render(b.provider, w); err != nil {
		return fmt.Errorf("render %q: %w", cfg.Title, err)
	}
	return nil
}

func (b *GoChartBackend) baseChart(cfg Config) chart.Chart {
	width, height := cfg.size()
	st := cfg.Style

	return chart.Chart{
		Title: cfg.Title,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: st.TitleColor,
		},
		Font:   cfg.Font,
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: drawing.ColorTransparent,
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  30,
				Bottom: 20,
			},
		},
		Canvas: chart.Style{
			FillColor: drawing.ColorTransparent,
		},
		XAxis: chart.XAxis{
			Name: cfg.XAxisTitle,
			NameStyle: chart.Style{
				FontSize:  12,
				FontColor: st.XAxis.Title,
			},
			Style: chart.Style{
				FontSize:    10,
				FontColor:   st.XAxis.Tick,
				StrokeColor: st.XAxis.Grid,
			},
			GridMajorStyle: chart.Style{
				StrokeColor: st.XAxis.Grid,
				StrokeWidth: 1,
			},
			ValueFormatter: chart.TimeValueFormatterWithFormat(tickFormat(cfg.TimeUnit)),
		},
		YAxis: chart.YAxis{
			Name: cfg.YAxisTitle,
			NameStyle: chart.Style{
				FontSize:  12,
				FontColor: st.YAxis.Title,
			},
			Style: chart.Style{
				FontSize:    10,
				FontColor:   st.YAxis.Tick,
				StrokeColor: st.YAxis.Grid,
			},
			GridMajorStyle: chart.Style{
				StrokeColor: st.YAxis.Grid,
				StrokeWidth: 1,
			},
		},
	}
}

// placeholder turns graph into an empty frame with a centered message.
// go-chart refuses to render without a series, so an invisible one is added.
func (b *GoChartBackend) placeholder(graph *chart.Chart, cfg Config) {
	graph.XAxis.Style.Hidden = true
	graph.YAxis.Style.Hidden = true
	graph.Series = []chart.Series{
		chart.ContinuousSeries{
			Style: chart.Style{
				StrokeColor: drawing.ColorTransparent,
				StrokeWidth: 0,
			},
			XValues: []float64{0, 1},
			YValues: []float64{0, 1},
		},
	}

	color := cfg.Style.LegendColor
	graph.Elements = []chart.Renderable{
		func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
			r.SetFontColor(color)
			r.SetFontSize(12.0)
			tb := r.MeasureText(noDataMessage)
			x := (cb.Width() - tb.Width()) / 2
			y := (cb.Height() + tb.Height()) / 2
			r.Text(noDataMessage, x, y)
		},
	}
}

func timeSeries(cfg Config, i int, s SeriesConfig) chart.TimeSeries {
	st := cfg.Style.SeriesStyleAt(i)
	xs := make([]time.Time, len(s.Points))
	ys := make([]float64, len(s.Points))
	for j, p := range s.Points {
		xs[j] = p.Time
		if cfg.LogY {
			ys[j] = math.Log10(clampLog(p.Y, cfg.logFloor()))
		} else {
			ys[j] = p.Y
		}
	}

	radius := s.PointRadius
	if radius <= 0 {
		radius = 3
	}

	return chart.TimeSeries{
		Name: s.Name,
		Style: chart.Style{
			StrokeColor: st.Border,
			StrokeWidth: 2,
			DotColor:    st.Background,
			DotWidth:    radius,
		},
		XValues: xs,
		YValues: ys,
	}
}

func hasData(cfg Config) bool {
	for _, s := range cfg.Series {
		if len(s.Points) > 0 {
			return true
		}
	}
	return false
}

func timeBounds(cfg Config) (time.Time, time.Time) {
	var minT, maxT time.Time
	first := true
	for _, s := range cfg.Series {
		for _, p := range s.Points {
			if first || p.Time.Before(minT) {
				minT = p.Time
			}
			if first || p.Time.After(maxT) {
				maxT = p.Time
			}
			first = false
		}
	}
	return minT, maxT
}

// valueBounds returns the smallest and largest plotted values after the log
// floor is applied.
func valueBounds(cfg Config) (float64, float64) {
	floor := cfg.logFloor()
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, s := range cfg.Series {
		for _, p := range s.Points {
			v := clampLog(p.Y, floor)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
	}
	if math.IsInf(minV, 1) {
		return floor, 1
	}
	return minV, maxV
}
