package charts

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// EChartsBackend renders an interactive HTML page with go-echarts
type EChartsBackend struct {
	assetsHost string
}

// NewEChartsBackend creates an HTML backend. An empty assetsHost keeps the
// go-echarts default CDN.
func NewEChartsBackend(assetsHost string) *EChartsBackend {
	return &EChartsBackend{assetsHost: assetsHost}
}

func (b *EChartsBackend) Name() string        { return "html" }
func (b *EChartsBackend) ContentType() string { return "text/html; charset=utf-8" }
func (b *EChartsBackend) Extension() string   { return "html" }

// Render writes a standalone HTML page containing the chart
func (b *EChartsBackend) Render(cfg Config, w io.Writer) error {
	line := b.lineChart(cfg)
	if err := line.Render(w); err != nil {
		return fmt.Errorf("render %q: %w", cfg.Title, err)
	}
	return nil
}

func (b *EChartsBackend) lineChart(cfg Config) *charts.Line {
	width, height := cfg.size()
	st := cfg.Style

	yType := "value"
	if cfg.LogY {
		yType = "log"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       cfg.Title,
			ChartID:         cfg.SurfaceID,
			Width:           strconv.Itoa(width) + "px",
			Height:          strconv.Itoa(height) + "px",
			BackgroundColor: "transparent",
			AssetsHost:      b.assetsHost,
			Theme:           types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      cfg.Title,
			Left:       "center",
			TitleStyle: &opts.TextStyle{Color: CSS(st.TitleColor), FontFamily: cfg.FontFamily},
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(cfg.ShowLegend),
			Top:       "8%",
			Left:      "center",
			TextStyle: &opts.TextStyle{Color: CSS(st.LegendColor), FontFamily: cfg.FontFamily},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
			Name: cfg.XAxisTitle,
			AxisLabel: &opts.AxisLabel{
				Color:     CSS(st.XAxis.Tick),
				Formatter: types.FuncStr(echartsTimeFormat(cfg.TimeUnit)),
			},
			AxisLine: &opts.AxisLine{LineStyle: &opts.LineStyle{Color: CSS(st.XAxis.Grid)}},
			SplitLine: &opts.SplitLine{
				Show:      opts.Bool(true),
				LineStyle: &opts.LineStyle{Color: CSS(st.XAxis.Grid)},
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      yType,
			Name:      cfg.YAxisTitle,
			AxisLabel: &opts.AxisLabel{Color: CSS(st.YAxis.Tick)},
			AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: CSS(st.YAxis.Grid)}},
			SplitLine: &opts.SplitLine{
				Show:      opts.Bool(true),
				LineStyle: &opts.LineStyle{Color: CSS(st.YAxis.Grid)},
			},
		}),
		charts.WithGridOpts(opts.Grid{
			Top:          "18%",
			Bottom:       "10%",
			Left:         "5%",
			Right:        "5%",
			ContainLabel: opts.Bool(true),
		}),
	)

	for i, s := range cfg.Series {
		ss := st.SeriesStyleAt(i)
		radius := s.PointRadius
		if radius <= 0 {
			radius = 3
		}
		line.AddSeries(s.Name, lineData(cfg, s),
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol: opts.Bool(true),
				SymbolSize: int(radius * 2),
			}),
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: CSS(ss.Border),
				Width: 2,
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color:       CSS(ss.Background),
				BorderColor: CSS(ss.Border),
			}),
		)
	}
	return line
}

func lineData(cfg Config, s SeriesConfig) []opts.LineData {
	items := make([]opts.LineData, 0, len(s.Points))
	for _, p := range s.Points {
		y := p.Y
		if cfg.LogY {
			y = clampLog(y, cfg.logFloor())
		}
		items = append(items, opts.LineData{
			Name:  p.X,
			Value: []interface{}{p.Time.UnixMilli(), y},
		})
	}
	return items
}
