package theme

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"adoptionchart/internal/charts"
	"adoptionchart/internal/models"
)

type nopBackend struct{}

func (nopBackend) Name() string        { return "nop" }
func (nopBackend) ContentType() string { return "text/plain" }
func (nopBackend) Extension() string   { return "txt" }

func (nopBackend) Render(cfg charts.Config, w io.Writer) error {
	_, err := io.WriteString(w, cfg.Title)
	return err
}

type countingSurface struct {
	mu    sync.Mutex
	draws int
}

func (s *countingSurface) ID() string { return "chart" }

func (s *countingSurface) Draw(context.Context, charts.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws++
	return nil
}

func newHandle(t *testing.T, lib charts.Library, s charts.Surface) *charts.Handle {
	t.Helper()
	h, err := lib.Create(context.Background(), s, charts.Config{
		Title:  "test",
		Series: []charts.SeriesConfig{{Name: models.CompletedSeriesName}, {Name: models.TotalSeriesName}},
		Style:  ResolvePalette(false).Style(),
	})
	require.NoError(t, err)
	return h
}

func TestResolvePaletteLight(t *testing.T) {
	p := ResolvePalette(false)
	assert.Equal(t, drawing.Color{R: 0x33, G: 0x33, B: 0x33, A: 255}, p.TextColor)
	assert.Equal(t, drawing.Color{R: 0, G: 0, B: 0, A: 26}, p.GridColor)
	assert.Equal(t, drawing.Color{R: 75, G: 192, B: 192, A: 255}, p.CompletedBorder)
	assert.Equal(t, drawing.Color{R: 75, G: 192, B: 192, A: 204}, p.CompletedBackground)
	assert.Equal(t, drawing.Color{R: 255, G: 99, B: 132, A: 255}, p.TotalBorder)
	assert.Equal(t, drawing.Color{R: 255, G: 99, B: 132, A: 204}, p.TotalBackground)
	assert.Equal(t, "light", p.Name())
}

func TestResolvePaletteDarkDiffers(t *testing.T) {
	light, dark := ResolvePalette(false), ResolvePalette(true)
	assert.NotEqual(t, light.TextColor, dark.TextColor)
	assert.NotEqual(t, light.GridColor, dark.GridColor)
	assert.Equal(t, "dark", dark.Name())
}

func TestResolvePaletteIsPure(t *testing.T) {
	for _, dark := range []bool{false, true} {
		assert.Equal(t, ResolvePalette(dark), ResolvePalette(dark))
	}
}

func TestPaletteStyle(t *testing.T) {
	p := ResolvePalette(true)
	st := p.Style()
	require.Len(t, st.Series, 2)
	assert.Equal(t, p.CompletedBorder, st.Series[0].Border)
	assert.Equal(t, p.TotalBackground, st.Series[1].Background)
	assert.Equal(t, p.TextColor, st.XAxis.Tick)
	assert.Equal(t, p.GridColor, st.YAxis.Grid)
	assert.Equal(t, p.TextColor, st.LegendColor)
}

func TestSourceNotifiesOnChange(t *testing.T) {
	src := NewSource(false)
	var got []bool
	cancel := src.Subscribe(func(dark bool) { got = append(got, dark) })

	src.Set(false)
	src.Set(true)
	src.Set(true)
	assert.False(t, src.Toggle())

	assert.Equal(t, []bool{true, false}, got)

	cancel()
	cancel()
	src.Set(true)
	assert.Len(t, got, 2)
}

func TestSourceListenerMayReadState(t *testing.T) {
	src := NewSource(false)
	var seen bool
	src.Subscribe(func(bool) { seen = src.IsDark() })

	src.Set(true)
	assert.True(t, seen)
}

func TestApplyRedrawsOnce(t *testing.T) {
	lib := charts.NewLibrary(nopBackend{})
	surface := &countingSurface{}
	h := newHandle(t, lib, surface)
	adapter := NewAdapter(lib)

	adapter.Apply(context.Background(), h, ResolvePalette(true))

	assert.Equal(t, 1, h.Redraws())
	assert.Equal(t, 2, surface.draws)
	st := h.Config().Style
	assert.Equal(t, ResolvePalette(true).TextColor, st.XAxis.Tick)
	assert.Equal(t, ResolvePalette(true).TextColor, st.YAxis.Title)
	assert.Equal(t, ResolvePalette(true).GridColor, st.XAxis.Grid)
	assert.Equal(t, ResolvePalette(true).TextColor, st.LegendColor)
}

func TestApplyNilOrDisposedIsNoop(t *testing.T) {
	lib := charts.NewLibrary(nopBackend{})
	adapter := NewAdapter(lib)
	adapter.Apply(context.Background(), nil, ResolvePalette(true))

	surface := &countingSurface{}
	h := newHandle(t, lib, surface)
	lib.Dispose(h)

	adapter.Apply(context.Background(), h, ResolvePalette(true))
	assert.Equal(t, 0, h.Redraws())
	assert.Equal(t, 1, surface.draws)
}

func TestWatch(t *testing.T) {
	lib := charts.NewLibrary(nopBackend{})
	h := newHandle(t, lib, &countingSurface{})
	src := NewSource(false)
	adapter := NewAdapter(lib)

	stop := adapter.Watch(src, func() []*charts.Handle { return []*charts.Handle{h, nil} })
	src.Set(true)
	assert.Equal(t, 1, h.Redraws())
	assert.Equal(t, ResolvePalette(true).TextColor, h.Config().Style.TitleColor)

	stop()
	src.Set(false)
	assert.Equal(t, 1, h.Redraws())
}
