package surface

import (
	"context"
	"mime"

	"adoptionchart/internal/charts"
	"adoptionchart/internal/logger"
	"adoptionchart/internal/storage"
)

// StoragePublisher mirrors frames to a storage client under
// charts/<surface>.<ext>
type StoragePublisher struct {
	client storage.Client
	log    *logger.Logger
}

// NewStoragePublisher creates a publisher writing to client
func NewStoragePublisher(client storage.Client) *StoragePublisher {
	return &StoragePublisher{
		client: client,
		log:    logger.Component("publisher"),
	}
}

// Publish stores f. Storage failures are logged and not returned, so a
// broken bucket never blanks the chart on the page.
func (p *StoragePublisher) Publish(ctx context.Context, surfaceID string, f charts.Frame) error {
	path := storage.ChartObjectPath(surfaceID, extensionFor(f.ContentType))
	if err := p.client.StoreFile(ctx, path, f.Data); err != nil {
		p.log.Error("failed to publish frame", err, logger.Fields{
			"surface": surfaceID,
			"path":    path,
		})
		return nil
	}
	p.log.Debug("published frame", logger.Fields{
		"surface": surfaceID,
		"path":    path,
		"bytes":   len(f.Data),
	})
	return nil
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	switch mediaType {
	case "image/png":
		return "png"
	case "image/svg+xml":
		return "svg"
	case "text/html":
		return "html"
	case "text/plain":
		return "txt"
	default:
		return "bin"
	}
}
