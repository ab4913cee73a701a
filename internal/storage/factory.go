package storage

import (
	"context"
	"fmt"

	"adoptionchart/internal/config"
)

// Mode selects where published frames go
type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCS   Mode = "gcs"
	ModeNone  Mode = "none"
)

// NewClient creates a storage client for mode. ModeNone returns a nil client
// and no error; callers skip publishing in that case.
func NewClient(ctx context.Context, mode Mode, cfg *config.Config) (Client, error) {
	switch mode {
	case ModeLocal:
		localClient, err := NewLocalStorageClient(cfg.LocalChartsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case ModeGCS:
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	case ModeNone, "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", mode)
	}
}
