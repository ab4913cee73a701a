package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adoptionchart/internal/charts"
	"adoptionchart/internal/config"
	"adoptionchart/internal/fetchers"
	"adoptionchart/internal/logger"
	"adoptionchart/internal/metrics"
	"adoptionchart/internal/renderer"
	"adoptionchart/internal/server"
	"adoptionchart/internal/storage"
	"adoptionchart/internal/surface"
	"adoptionchart/internal/theme"
)

// App wires the chart service together
type App struct {
	cfg      *config.Config
	renderer *renderer.Renderer
	server   *server.Server
	stop     []func()
}

// NewApp builds every component from cfg
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	opts, err := config.LoadChartOptions(cfg.ChartOptionsFile)
	if err != nil {
		return nil, err
	}

	fontPath := opts.FontPath
	if fontPath == "" {
		fontPath = cfg.FontPath
	}
	font, err := charts.LoadFont(fontPath)
	if err != nil {
		return nil, err
	}

	rec := metrics.New()

	store, err := storage.NewClient(ctx, storage.Mode(cfg.StorageMode), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	var docOpts []surface.Option
	if store != nil {
		docOpts = append(docOpts, surface.WithPublisher(surface.NewStoragePublisher(store)))
	}
	doc := surface.NewDocument([]string{cfg.SurfaceID}, docOpts...)

	backend, err := newBackend(cfg.ChartBackend)
	if err != nil {
		return nil, err
	}
	lib := charts.NewLibrary(backend, charts.WithObserver(rec))

	source := theme.NewSource(cfg.DarkTheme)
	rend := renderer.New(renderer.Deps{
		Fetcher: fetchers.NewStatsFetcher(cfg.BaseURL, fetchers.Options{
			Timeout: cfg.FetchTimeout,
			Retries: cfg.FetchRetries,
		}),
		Library: lib,
		Doc:     doc,
		Theme:   source,
		Metrics: rec,
	}, renderer.OptionsFromConfig(opts, font))

	srv, err := server.New(server.Deps{
		Config:   cfg,
		Options:  opts,
		Renderer: rend,
		Doc:      doc,
		Theme:    source,
		Storage:  store,
		Metrics:  rec,
	})
	if err != nil {
		rend.Close()
		return nil, err
	}

	stopWatch := theme.NewAdapter(lib).Watch(source, rend.Handles)
	stopCount := source.Subscribe(func(dark bool) {
		rec.ObserveThemeChange(theme.ResolvePalette(dark).Name())
	})

	return &App{
		cfg:      cfg,
		renderer: rend,
		server:   srv,
		stop:     []func(){stopWatch, stopCount},
	}, nil
}

// Close stops theme watching, disposes charts and releases storage
func (a *App) Close() error {
	for _, stop := range a.stop {
		stop()
	}
	a.renderer.Close()
	return a.server.Close()
}

func newBackend(name string) (charts.Backend, error) {
	switch name {
	case "png":
		return charts.NewPNGBackend(), nil
	case "svg":
		return charts.NewSVGBackend(), nil
	case "html":
		return charts.NewEChartsBackend(""), nil
	default:
		return nil, fmt.Errorf("unknown chart backend %q", name)
	}
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	logger.Info("Starting adoption chart service", logger.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"backend":     cfg.ChartBackend,
		"storage":     cfg.StorageMode,
		"version":     config.GetVersion(),
	})

	app, err := NewApp(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to create application", err)
	}
	defer app.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.server.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// listen before the first render so it can fetch from this server
	ln, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		logger.Fatal("Failed to listen", err, logger.Fields{"addr": httpServer.Addr})
	}

	go func() {
		logger.Info("Server listening", logger.Fields{"addr": httpServer.Addr})
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", err)
		}
	}()

	renderCtx, cancelRender := context.WithCancel(ctx)
	defer cancelRender()
	if cfg.RenderOnStart {
		go func() {
			res := <-app.renderer.RenderAsync(renderCtx, cfg.SurfaceID)
			if res.Err != nil {
				logger.Warn("Initial render failed", logger.Fields{"error": res.Err.Error()})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	cancelRender()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	logger.Info("Server stopped")
}
