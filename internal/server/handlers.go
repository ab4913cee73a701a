package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"adoptionchart/internal/charts"
	"adoptionchart/internal/config"
	"adoptionchart/internal/logger"
	"adoptionchart/internal/renderer"
	"adoptionchart/internal/storage"
	"adoptionchart/internal/surface"
	"adoptionchart/internal/theme"
)

// HandleIndex serves the host page with the chart surface or its error
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	dark := s.theme.IsDark()
	p := theme.ResolvePalette(dark)
	data := pageData{
		Title:      s.opts.Title,
		Intro:      s.intro,
		Dark:       dark,
		SurfaceID:  s.cfg.SurfaceID,
		Embed:      "img",
		AppVer:     config.GetVersion(),
		Backdrop:   charts.Hex(p.Backdrop),
		TextColor:  charts.Hex(p.TextColor),
		FontFamily: s.opts.FontFamily,
	}
	if data.FontFamily == "" {
		data.FontFamily = "sans-serif"
	}
	if s.cfg.ChartBackend == "html" {
		data.Embed = "iframe"
	}
	if c, err := s.doc.Lookup(s.cfg.SurfaceID); err == nil {
		snap := c.Snapshot()
		data.Version = snap.Version
		data.Error = snap.Error
		data.HasFrame = snap.HasFrame
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.log.Error("failed to render page", err)
	}
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"config":  "ok",
		"storage": "disabled",
	}
	if s.storage != nil {
		checks["storage"] = "ok"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"version":        config.GetVersion(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"checks":         checks,
	})
}

// HandleCanvas serves the latest frame of a surface
func (s *Server) HandleCanvas(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := s.doc.Lookup(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	snap := c.Snapshot()
	switch {
	case snap.Error != "":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(snap.Error))
	case !snap.HasFrame:
		http.Error(w, "no frame drawn yet", http.StatusNotFound)
	default:
		w.Header().Set("Content-Type", snap.Frame.ContentType)
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(snap.Frame.Data)
	}
}

// HandleRender renders the requested surface and reports the outcome
func (s *Server) HandleRender(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("surface")
	if id == "" {
		id = s.cfg.SurfaceID
	}

	start := time.Now()
	h, err := s.renderer.Render(r.Context(), id)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, surface.ErrSurfaceNotFound):
			status = http.StatusNotFound
		case errors.Is(err, renderer.ErrSuperseded):
			status = http.StatusConflict
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			status = http.StatusServiceUnavailable
		}
		s.log.Warn("render request failed", logger.Fields{
			"surface": id,
			"status":  status,
			"error":   err.Error(),
		})
		writeJSON(w, status, map[string]interface{}{
			"status":  "error",
			"surface": id,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"surface":     id,
		"chart_id":    h.ID(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

type themeState struct {
	Dark *bool `json:"dark"`
}

// HandleGetTheme reports the current theme
func (s *Server) HandleGetTheme(w http.ResponseWriter, r *http.Request) {
	s.writeTheme(w)
}

// HandleSetTheme switches the theme; live charts are restyled by subscribers
func (s *Server) HandleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeState
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil || req.Dark == nil {
		http.Error(w, `body must be {"dark": true|false}`, http.StatusBadRequest)
		return
	}
	s.theme.Set(*req.Dark)
	s.writeTheme(w)
}

func (s *Server) writeTheme(w http.ResponseWriter) {
	dark := s.theme.IsDark()
	palette := "light"
	if dark {
		palette = "dark"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dark":    dark,
		"palette": palette,
	})
}

// HandleListCharts lists published frames
func (s *Server) HandleListCharts(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		http.Error(w, "storage not configured", http.StatusNotFound)
		return
	}
	files, err := s.storage.ListDir(r.Context(), storage.ChartsDir)
	if err != nil {
		s.log.Error("failed to list charts", err)
		http.Error(w, "failed to list charts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"charts":    files,
		"count":     len(files),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleChartFile serves a published frame from storage
func (s *Server) HandleChartFile(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		http.Error(w, "storage not configured", http.StatusNotFound)
		return
	}
	name := chi.URLParam(r, "*")
	if name == "" || strings.Contains(name, "..") {
		http.Error(w, "invalid file path", http.StatusBadRequest)
		return
	}

	filePath := storage.ChartsDir + "/" + name
	data, err := s.storage.GetFile(r.Context(), filePath)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("failed to get chart file", err, logger.Fields{"path": filePath})
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
