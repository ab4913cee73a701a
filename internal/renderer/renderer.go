package renderer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"

	"adoptionchart/internal/charts"
	"adoptionchart/internal/config"
	"adoptionchart/internal/fetchers"
	"adoptionchart/internal/logger"
	"adoptionchart/internal/metrics"
	"adoptionchart/internal/models"
	"adoptionchart/internal/surface"
	"adoptionchart/internal/theme"
)

// ErrorPrefix starts every message shown in place of a failed chart
const ErrorPrefix = "Could not load historical data. Error: "

// ErrSuperseded is returned by a render that lost to a newer render on the
// same surface. Its result is discarded.
var ErrSuperseded = errors.New("render superseded by a newer render")

// Fetcher loads the dataset
type Fetcher interface {
	Fetch(ctx context.Context) ([]models.DataPoint, error)
}

// Options are the presentation settings applied to every chart
type Options struct {
	Title       string
	XAxisTitle  string
	YAxisTitle  string
	ShowLegend  bool
	FontFamily  string
	Font        *truetype.Font
	Width       int
	Height      int
	LogFloor    float64
	PointRadius float64
	TimeUnit    charts.TimeUnit
}

// OptionsFromConfig converts loaded chart options. font may be nil.
func OptionsFromConfig(o config.ChartOptions, font *truetype.Font) Options {
	return Options{
		Title:       o.Title,
		XAxisTitle:  o.XAxisTitle,
		YAxisTitle:  o.YAxisTitle,
		ShowLegend:  o.ShowLegend,
		FontFamily:  o.FontFamily,
		Font:        font,
		Width:       o.Width,
		Height:      o.Height,
		LogFloor:    o.LogFloor,
		PointRadius: o.PointRadius,
		TimeUnit:    charts.UnitMonth,
	}
}

// Deps are the collaborators a Renderer draws with
type Deps struct {
	Fetcher Fetcher
	Library charts.Library
	Doc     *surface.Document
	// Errors defaults to the document's container errors
	Errors surface.ErrorSurface
	// Theme picks the palette a new chart starts with; nil means light
	Theme   *theme.Source
	Metrics *metrics.Recorder
}

// Result is delivered by RenderAsync
type Result struct {
	Handle *charts.Handle
	Err    error
}

type token struct {
	id     string
	cancel context.CancelFunc
}

// Renderer fetches the dataset and installs one live chart per surface
type Renderer struct {
	fetcher Fetcher
	lib     charts.Library
	doc     *surface.Document
	errs    surface.ErrorSurface
	theme   *theme.Source
	metrics *metrics.Recorder
	opts    Options
	log     *logger.Logger

	mu       sync.Mutex
	live     map[string]*charts.Handle
	inflight map[string]*token
}

// New creates a renderer
func New(deps Deps, opts Options) *Renderer {
	errs := deps.Errors
	if errs == nil {
		errs = surface.NewContainerErrors(deps.Doc)
	}
	if opts.TimeUnit == "" {
		opts.TimeUnit = charts.UnitMonth
	}
	return &Renderer{
		fetcher:  deps.Fetcher,
		lib:      deps.Library,
		doc:      deps.Doc,
		errs:     errs,
		theme:    deps.Theme,
		metrics:  deps.Metrics,
		opts:     opts,
		log:      logger.Component("renderer"),
		live:     make(map[string]*charts.Handle),
		inflight: make(map[string]*token),
	}
}

// Render fetches the dataset once and draws the chart on surfaceID,
// replacing any chart already there. On fetch, parse or draw failure the
// prior chart is disposed, the surface's container shows the error and the
// error is returned. If ctx is cancelled first, ctx.Err() is returned and
// the surface keeps what it had.
func (r *Renderer) Render(ctx context.Context, surfaceID string) (*charts.Handle, error) {
	start := time.Now()

	canvas, err := r.doc.Lookup(surfaceID)
	if err != nil {
		r.log.Error("chart surface missing", err, logger.Fields{"surface": surfaceID})
		r.metrics.ObserveRender(metrics.OutcomeNoSurface, time.Since(start))
		return nil, err
	}

	rctx, tok := r.begin(ctx, surfaceID)
	defer r.end(surfaceID, tok)

	log := r.log.With(logger.Fields{"surface": surfaceID, "render": tok.id})

	rows, err := r.fetcher.Fetch(rctx)
	r.metrics.ObserveFetch(fetchResult(err))
	if err != nil {
		return nil, r.fail(ctx, log, surfaceID, tok, err, start)
	}

	if err := rctx.Err(); err != nil {
		return nil, r.fail(ctx, log, surfaceID, tok, err, start)
	}

	completed, total := models.Project(rows)
	cfg := r.chartConfig(completed, total, r.palette())

	// the prior chart keeps its frame until the new one has drawn
	h, err := r.lib.Create(rctx, canvas, cfg)
	if err != nil {
		return nil, r.fail(ctx, log, surfaceID, tok, err, start)
	}

	r.mu.Lock()
	if r.inflight[surfaceID] != tok {
		r.mu.Unlock()
		r.lib.Dispose(h)
		log.Debug("discarding superseded render")
		r.metrics.ObserveRender(metrics.OutcomeSuperseded, time.Since(start))
		return nil, ErrSuperseded
	}
	prev := r.live[surfaceID]
	r.live[surfaceID] = h
	r.mu.Unlock()
	r.lib.Dispose(prev)

	r.metrics.ObserveRender(metrics.OutcomeRendered, time.Since(start))
	log.Info("chart rendered", logger.Fields{
		"chart":       h.ID(),
		"rows":        len(rows),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return h, nil
}

// RenderAsync runs Render in the background. The channel receives exactly
// one Result and is then closed.
func (r *Renderer) RenderAsync(ctx context.Context, surfaceID string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		h, err := r.Render(ctx, surfaceID)
		out <- Result{Handle: h, Err: err}
	}()
	return out
}

// Handle returns the live chart on surfaceID, or nil
func (r *Renderer) Handle(surfaceID string) *charts.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live[surfaceID]
}

// Handles returns every live chart ordered by surface id
func (r *Renderer) Handles() []*charts.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.live))
	for id := range r.live {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*charts.Handle, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.live[id])
	}
	return out
}

// Close cancels in-flight renders and disposes every live chart
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, tok := range r.inflight {
		tok.cancel()
		delete(r.inflight, id)
	}
	for id, h := range r.live {
		r.lib.Dispose(h)
		delete(r.live, id)
	}
}

// begin registers a new render for surfaceID, cancelling the previous one
func (r *Renderer) begin(ctx context.Context, surfaceID string) (context.Context, *token) {
	rctx, cancel := context.WithCancel(ctx)
	tok := &token{id: uuid.NewString(), cancel: cancel}

	r.mu.Lock()
	if prev := r.inflight[surfaceID]; prev != nil {
		prev.cancel()
	}
	r.inflight[surfaceID] = tok
	r.mu.Unlock()

	return rctx, tok
}

func (r *Renderer) end(surfaceID string, tok *token) {
	r.mu.Lock()
	if r.inflight[surfaceID] == tok {
		delete(r.inflight, surfaceID)
	}
	r.mu.Unlock()
	tok.cancel()
}

// fail disposes the live chart and shows err in its place. A render that
// lost to a newer one, or whose caller gave up, leaves the surface alone.
func (r *Renderer) fail(ctx context.Context, log *logger.Logger, surfaceID string, tok *token, err error, start time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inflight[surfaceID] != tok {
		r.metrics.ObserveRender(metrics.OutcomeSuperseded, time.Since(start))
		return ErrSuperseded
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Debug("render abandoned by caller", logger.Fields{"error": err.Error()})
		r.metrics.ObserveRender(metrics.OutcomeCancelled, time.Since(start))
		return ctxErr
	}

	log.Error("error loading or rendering historical data", err)
	if prev := r.live[surfaceID]; prev != nil {
		r.lib.Dispose(prev)
		delete(r.live, surfaceID)
	}
	if showErr := r.errs.ShowError(context.WithoutCancel(ctx), surfaceID, ErrorPrefix+err.Error()); showErr != nil {
		log.Error("failed to show error on surface", showErr)
	}
	r.metrics.ObserveRender(metrics.OutcomeFailed, time.Since(start))
	return err
}

func (r *Renderer) palette() theme.Palette {
	if r.theme == nil {
		return theme.ResolvePalette(false)
	}
	return theme.ResolvePalette(r.theme.IsDark())
}

func (r *Renderer) chartConfig(completed, total models.Series, p theme.Palette) charts.Config {
	return charts.Config{
		Title:      r.opts.Title,
		XAxisTitle: r.opts.XAxisTitle,
		YAxisTitle: r.opts.YAxisTitle,
		Series: []charts.SeriesConfig{
			{Name: completed.Name, Points: completed.Points, PointRadius: r.opts.PointRadius},
			{Name: total.Name, Points: total.Points, PointRadius: r.opts.PointRadius},
		},
		TimeUnit:   r.opts.TimeUnit,
		LogY:       true,
		LogFloor:   r.opts.LogFloor,
		ShowLegend: r.opts.ShowLegend,
		FontFamily: r.opts.FontFamily,
		Font:       r.opts.Font,
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		Style:      p.Style(),
	}
}

func fetchResult(err error) string {
	if err == nil {
		return "ok"
	}
	var fe *fetchers.FetchError
	var pe *fetchers.ParseError
	switch {
	case errors.As(err, &pe):
		return "parse"
	case errors.As(err, &fe) && fe.StatusCode != 0:
		return "status"
	default:
		return "transport"
	}
}
