package server

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"adoptionchart/internal/charts"
	"adoptionchart/internal/config"
	"adoptionchart/internal/logger"
	"adoptionchart/internal/metrics"
	"adoptionchart/internal/storage"
	"adoptionchart/internal/surface"
	"adoptionchart/internal/theme"
)

// ChartRenderer is the part of the renderer the HTTP layer drives
type ChartRenderer interface {
	Render(ctx context.Context, surfaceID string) (*charts.Handle, error)
}

// Deps are the collaborators the server routes to
type Deps struct {
	Config   *config.Config
	Options  config.ChartOptions
	Renderer ChartRenderer
	Doc      *surface.Document
	Theme    *theme.Source
	// Storage may be nil when publishing is disabled
	Storage storage.Client
	Metrics *metrics.Recorder
}

// Server serves the host page, the dataset and chart frames
type Server struct {
	cfg      *config.Config
	opts     config.ChartOptions
	renderer ChartRenderer
	doc      *surface.Document
	theme    *theme.Source
	storage  storage.Client
	metrics  *metrics.Recorder
	intro    template.HTML
	limiter  *ipLimiter
	started  time.Time
	log      *logger.Logger
}

// New creates a server. The intro markdown is converted once up front.
func New(deps Deps) (*Server, error) {
	intro, err := renderMarkdown(newMarkdown(), deps.Options.IntroMarkdown)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:      deps.Config,
		opts:     deps.Options,
		renderer: deps.Renderer,
		doc:      deps.Doc,
		theme:    deps.Theme,
		storage:  deps.Storage,
		metrics:  deps.Metrics,
		intro:    intro,
		limiter:  newIPLimiter(deps.Config.RenderRate, deps.Config.RenderBurst),
		started:  time.Now(),
		log:      logger.Component("server"),
	}, nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/", s.instrument("index", s.HandleIndex))
	r.Method(http.MethodGet, "/health", s.instrument("health", s.HandleHealth))
	r.Method(http.MethodGet, "/canvas/{id}", s.instrument("canvas", s.HandleCanvas))
	r.Method(http.MethodPost, "/render", s.instrument("render", s.limiter.limit(s.HandleRender)))
	r.Method(http.MethodGet, "/theme", s.instrument("theme", s.HandleGetTheme))
	r.Method(http.MethodPost, "/theme", s.instrument("theme", s.limiter.limit(s.HandleSetTheme)))
	r.Method(http.MethodGet, "/charts", s.instrument("charts", s.HandleListCharts))
	r.Method(http.MethodGet, "/charts/*", s.instrument("charts", s.HandleChartFile))
	r.Method(http.MethodGet, "/data/*", s.instrument("data",
		http.StripPrefix("/data/", http.FileServer(http.Dir(s.cfg.DataDir))).ServeHTTP))
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	return r
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}

func (s *Server) instrument(name string, fn http.HandlerFunc) http.Handler {
	return s.metrics.Instrument(name, fn)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request", logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		})
	})
}
