package storage

import (
	"context"
	"path/filepath"
	"testing"

	"adoptionchart/internal/config"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "charts")

	client, err := NewClient(ctx, ModeLocal, &config.Config{LocalChartsDir: dir})
	if err != nil {
		t.Fatalf("NewClient(local) error = %v", err)
	}
	if _, ok := client.(*LocalStorageClient); !ok {
		t.Errorf("NewClient(local) returned %T, want *LocalStorageClient", client)
	}

	none, err := NewClient(ctx, ModeNone, &config.Config{})
	if err != nil || none != nil {
		t.Errorf("NewClient(none) = (%v, %v), want (nil, nil)", none, err)
	}

	if _, err := NewClient(ctx, Mode("s3"), &config.Config{}); err == nil {
		t.Error("NewClient(s3) should fail")
	}

	if _, err := NewClient(ctx, ModeGCS, &config.Config{}); err == nil {
		t.Error("NewClient(gcs) without a bucket should fail")
	}
}
