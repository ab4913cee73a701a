package storage

import (
	"path"
	"strings"
)

// ChartsDir is the folder published frames are stored under
const ChartsDir = "charts"

// ChartObjectPath returns where the latest frame of a surface is published,
// e.g. charts/project-cumulative-chart.png
func ChartObjectPath(surfaceID, ext string) string {
	return path.Join(ChartsDir, surfaceID+"."+strings.TrimPrefix(ext, "."))
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css"
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// cleanObjectPath normalizes a slash separated path and reports whether it
// stays inside the storage root.
func cleanObjectPath(p string) (string, bool) {
	clean := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", false
	}
	return clean, true
}
