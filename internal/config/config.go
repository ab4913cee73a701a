package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the adoption chart service
type Config struct {
	// Server configuration
	Port    string `env:"PORT,default=8981"`
	BaseURL string `env:"BASE_URL,default=http://localhost:8981"`
	DataDir string `env:"DATA_DIR,default=./static/data"`

	// Chart configuration
	SurfaceID        string `env:"SURFACE_ID,default=project-cumulative-chart"`
	ChartBackend     string `env:"CHART_BACKEND,default=png"`
	DarkTheme        bool   `env:"DARK_THEME,default=false"`
	RenderOnStart    bool   `env:"RENDER_ON_START,default=true"`
	ChartOptionsFile string `env:"CHART_OPTIONS_FILE"`
	FontPath         string `env:"FONT_PATH"`

	// Per-client budget for POST /render and POST /theme. Zero disables it.
	RenderRate  float64 `env:"RENDER_RATE,default=2"`
	RenderBurst int     `env:"RENDER_BURST,default=5"`

	// Fetch configuration. Zero means no client timeout and no retries.
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT,default=0s"`
	FetchRetries int           `env:"FETCH_RETRIES,default=0"`

	// Frame publishing (optional for local testing)
	StorageMode    string `env:"STORAGE_MODE,default=local"`
	LocalChartsDir string `env:"LOCAL_CHARTS_DIR,default=./charts"`
	GCSBucket      string `env:"GCS_BUCKET"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express as tags
func (c *Config) Validate() error {
	switch c.ChartBackend {
	case "png", "svg", "html":
	default:
		return fmt.Errorf("invalid CHART_BACKEND %q: want png, svg or html", c.ChartBackend)
	}
	switch c.StorageMode {
	case "local", "gcs", "none":
	default:
		return fmt.Errorf("invalid STORAGE_MODE %q: want local, gcs or none", c.StorageMode)
	}
	if c.StorageMode == "gcs" && c.GCSBucket == "" {
		return fmt.Errorf("GCS_BUCKET is required when STORAGE_MODE=gcs")
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("FETCH_RETRIES must not be negative")
	}
	if c.RenderRate < 0 || c.RenderBurst < 0 {
		return fmt.Errorf("RENDER_RATE and RENDER_BURST must not be negative")
	}
	if c.SurfaceID == "" {
		return fmt.Errorf("SURFACE_ID must not be empty")
	}
	return nil
}
