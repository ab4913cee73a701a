package charts

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"adoptionchart/internal/models"
)

type fakeBackend struct {
	mu      sync.Mutex
	renders []Config
	err     error
}

func (b *fakeBackend) Name() string        { return "fake" }
func (b *fakeBackend) ContentType() string { return "text/plain" }
func (b *fakeBackend) Extension() string   { return "txt" }

func (b *fakeBackend) Render(cfg Config, w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.renders = append(b.renders, cfg)
	_, err := io.WriteString(w, cfg.Title)
	return err
}

func (b *fakeBackend) last() Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renders[len(b.renders)-1]
}

type fakeSurface struct {
	id      string
	frames  []Frame
	cleared []string
	err     error
}

func (s *fakeSurface) ID() string { return s.id }

func (s *fakeSurface) Draw(_ context.Context, f Frame) error {
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, f)
	return nil
}

func (s *fakeSurface) Clear(chartID string) { s.cleared = append(s.cleared, chartID) }

type recordingObserver struct {
	draws int
	errs  int
}

func (o *recordingObserver) ObserveDraw(_ string, _ time.Duration, err error) {
	o.draws++
	if err != nil {
		o.errs++
	}
}

func sampleConfig() Config {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return Config{
		Title:      "Adoption",
		XAxisTitle: "Commit Date",
		YAxisTitle: "Number of Projects",
		TimeUnit:   UnitMonth,
		LogY:       true,
		ShowLegend: true,
		Series: []SeriesConfig{
			{Name: models.CompletedSeriesName, PointRadius: 3, Points: []models.Point{
				{X: "2024-01-01", Time: t0, Y: 2},
				{X: "2024-02-01", Time: t1, Y: 4},
			}},
			{Name: models.TotalSeriesName, PointRadius: 3, Points: []models.Point{
				{X: "2024-01-01", Time: t0, Y: 5},
				{X: "2024-02-01", Time: t1, Y: 5},
			}},
		},
		Style: Style{
			Series: []SeriesStyle{
				{Border: drawing.Color{R: 75, G: 192, B: 192, A: 255}, Background: drawing.Color{R: 75, G: 192, B: 192, A: 204}},
				{Border: drawing.Color{R: 255, G: 99, B: 132, A: 255}, Background: drawing.Color{R: 255, G: 99, B: 132, A: 204}},
			},
		},
	}
}

func TestCreateDrawsOnce(t *testing.T) {
	backend := &fakeBackend{}
	obs := &recordingObserver{}
	lib := NewLibrary(backend, WithObserver(obs))
	surface := &fakeSurface{id: "chart"}

	h, err := lib.Create(context.Background(), surface, sampleConfig())
	require.NoError(t, err)

	assert.True(t, h.Live())
	assert.NotEmpty(t, h.ID())
	assert.Equal(t, "chart", h.SurfaceID())
	assert.Equal(t, 0, h.Redraws())
	require.Len(t, surface.frames, 1)
	assert.Equal(t, "text/plain", surface.frames[0].ContentType)
	assert.Equal(t, "Adoption", string(surface.frames[0].Data))
	assert.Equal(t, "chart", backend.last().SurfaceID)
	assert.Equal(t, 1, obs.draws)
}

func TestCreateRejectsBadInput(t *testing.T) {
	lib := NewLibrary(&fakeBackend{})

	_, err := lib.Create(context.Background(), nil, sampleConfig())
	assert.Error(t, err)

	_, err = lib.Create(context.Background(), &fakeSurface{id: "x"}, Config{Title: "empty"})
	assert.Error(t, err)
}

func TestCreateSurfacesBackendError(t *testing.T) {
	boom := errors.New("boom")
	obs := &recordingObserver{}
	lib := NewLibrary(&fakeBackend{err: boom}, WithObserver(obs))

	h, err := lib.Create(context.Background(), &fakeSurface{id: "x"}, sampleConfig())
	assert.Nil(t, h)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, obs.errs)
}

func TestRestyleThenRedraw(t *testing.T) {
	backend := &fakeBackend{}
	lib := NewLibrary(backend)
	surface := &fakeSurface{id: "chart"}
	h, err := lib.Create(context.Background(), surface, sampleConfig())
	require.NoError(t, err)

	white := drawing.Color{R: 255, G: 255, B: 255, A: 255}
	require.NoError(t, lib.Restyle(h, Style{TitleColor: white}))
	assert.Len(t, surface.frames, 1, "restyle alone must not draw")

	require.NoError(t, lib.Redraw(context.Background(), h))
	assert.Equal(t, 1, h.Redraws())
	require.Len(t, surface.frames, 2)
	assert.True(t, surface.frames[0].Initial)
	assert.False(t, surface.frames[1].Initial)
	assert.Equal(t, h.ID(), surface.frames[1].ChartID)
	assert.Equal(t, white, backend.last().Style.TitleColor)
	assert.Equal(t, white, h.Config().Style.TitleColor)
}

func TestConfigCopyIsIsolated(t *testing.T) {
	lib := NewLibrary(&fakeBackend{})
	cfg := sampleConfig()
	h, err := lib.Create(context.Background(), &fakeSurface{id: "chart"}, cfg)
	require.NoError(t, err)

	cfg.Style.Series[0].Border = drawing.ColorBlack
	got := h.Config()
	got.Style.Series[1].Border = drawing.ColorBlack

	assert.Equal(t, uint8(75), h.Config().Style.Series[0].Border.R)
	assert.Equal(t, uint8(255), h.Config().Style.Series[1].Border.R)
}

func TestDispose(t *testing.T) {
	lib := NewLibrary(&fakeBackend{})
	surface := &fakeSurface{id: "chart"}
	h, err := lib.Create(context.Background(), surface, sampleConfig())
	require.NoError(t, err)

	lib.Dispose(h)
	lib.Dispose(h)
	lib.Dispose(nil)

	assert.False(t, h.Live())
	assert.Equal(t, []string{h.ID()}, surface.cleared)
	assert.ErrorIs(t, lib.Restyle(h, Style{}), ErrDisposed)
	assert.ErrorIs(t, lib.Redraw(context.Background(), h), ErrDisposed)
	assert.ErrorIs(t, lib.Redraw(context.Background(), nil), ErrDisposed)
}

func TestNilHandleIsNotLive(t *testing.T) {
	var h *Handle
	assert.False(t, h.Live())
}

func TestCSS(t *testing.T) {
	assert.Equal(t, "rgba(75, 192, 192, 0.80)", CSS(drawing.Color{R: 75, G: 192, B: 192, A: 204}))
	assert.Equal(t, "rgba(255, 99, 132, 1.00)", CSS(drawing.Color{R: 255, G: 99, B: 132, A: 255}))
}

func TestPNGBackend(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPNGBackend().Render(sampleConfig(), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestSVGBackendWithZeroValues(t *testing.T) {
	cfg := sampleConfig()
	cfg.Series[0].Points[0].Y = 0

	var buf bytes.Buffer
	require.NoError(t, NewSVGBackend().Render(cfg, &buf))
	assert.Contains(t, buf.String(), "<svg")
	assert.Equal(t, float64(0), cfg.Series[0].Points[0].Y, "series data is not mutated")
}

func TestGoChartPlaceholder(t *testing.T) {
	cfg := sampleConfig()
	for i := range cfg.Series {
		cfg.Series[i].Points = nil
	}

	var buf bytes.Buffer
	require.NoError(t, NewSVGBackend().Render(cfg, &buf))
	assert.Contains(t, buf.String(), noDataMessage)
}

func TestEChartsBackend(t *testing.T) {
	cfg := sampleConfig()
	cfg.SurfaceID = "project-cumulative-chart"
	cfg.ShowLegend = true
	cfg.FontFamily = "Arial, sans-serif"

	var buf bytes.Buffer
	require.NoError(t, NewEChartsBackend("").Render(cfg, &buf))
	html := buf.String()
	assert.Contains(t, html, `"fontFamily":"Arial, sans-serif"`)
	assert.Contains(t, html, "project-cumulative-chart")
	assert.Contains(t, html, models.CompletedSeriesName)
	assert.Contains(t, html, models.TotalSeriesName)
	assert.Contains(t, html, `"log"`)
	assert.Contains(t, html, "rgba(75, 192, 192, 1.00)")
}

func TestParseFontRejectsGarbage(t *testing.T) {
	_, err := ParseFont([]byte("not a font"))
	assert.Error(t, err)

	f, err := LoadFont("")
	assert.NoError(t, err)
	assert.Nil(t, f)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#4bc0c0", Hex(drawing.Color{R: 75, G: 192, B: 192, A: 204}))
	assert.Equal(t, "#1e1e1e", Hex(drawing.Color{R: 0x1e, G: 0x1e, B: 0x1e, A: 255}))
}
