package charts

import (
	"math"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	maxTimeTicks = 12
	// absorbs float error so exact powers of ten land on their own decade
	logEpsilon = 1e-9
)

// clampLog maps v onto a logarithmic axis, replacing non-positive values
// with floor.
func clampLog(v, floor float64) float64 {
	if !(v > 0) {
		return floor
	}
	return v
}

// decadeTicks returns one tick per power of ten covering [min, max] in log10
// space, labeled in linear units.
func decadeTicks(min, max float64) (chart.Ticks, float64, float64) {
	lo := math.Floor(math.Log10(min) + logEpsilon)
	hi := math.Ceil(math.Log10(max) - logEpsilon)
	if hi <= lo {
		hi = lo + 1
	}

	ticks := make(chart.Ticks, 0, int(hi-lo)+1)
	for k := lo; k <= hi; k++ {
		ticks = append(ticks, chart.Tick{Value: k, Label: decadeLabel(int(k))})
	}
	return ticks, lo, hi
}

func decadeLabel(k int) string {
	if k >= 0 {
		return strconv.FormatFloat(math.Pow10(k), 'f', 0, 64)
	}
	return strconv.FormatFloat(math.Pow10(k), 'f', -k, 64)
}

// timeTicks places ticks on unit boundaries between min and max, thinning
// them so no more than maxTimeTicks are produced.
func timeTicks(min, max time.Time, unit TimeUnit) chart.Ticks {
	format := tickFormat(unit)
	if !max.After(min) {
		return chart.Ticks{{Value: chart.TimeToFloat64(min), Label: min.Format(format)}}
	}

	var starts []time.Time
	for t := truncate(min, unit); !t.After(max); t = step(t, unit, 1) {
		if !t.Before(min) {
			starts = append(starts, t)
		}
	}
	if len(starts) == 0 {
		return chart.Ticks{{Value: chart.TimeToFloat64(min), Label: min.Format(format)}}
	}

	stride := (len(starts) + maxTimeTicks - 1) / maxTimeTicks
	ticks := make(chart.Ticks, 0, maxTimeTicks)
	for i := 0; i < len(starts); i += stride {
		ticks = append(ticks, chart.Tick{
			Value: chart.TimeToFloat64(starts[i]),
			Label: starts[i].Format(format),
		})
	}
	return ticks
}

func truncate(t time.Time, unit TimeUnit) time.Time {
	switch unit {
	case UnitDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case UnitYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
}

func step(t time.Time, unit TimeUnit, n int) time.Time {
	switch unit {
	case UnitDay:
		return t.AddDate(0, 0, n)
	case UnitYear:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, n, 0)
	}
}

func tickFormat(unit TimeUnit) string {
	switch unit {
	case UnitDay:
		return "Jan 2, 2006"
	case UnitYear:
		return "2006"
	default:
		return "Jan 2006"
	}
}

// echartsTimeFormat is the label template for an ECharts time axis
func echartsTimeFormat(unit TimeUnit) string {
	switch unit {
	case UnitDay:
		return "{MMM} {d}, {yyyy}"
	case UnitYear:
		return "{yyyy}"
	default:
		return "{MMM} {yyyy}"
	}
}
