package theme

import (
	"context"
	"errors"

	"adoptionchart/internal/charts"
	"adoptionchart/internal/logger"
)

// Adapter restyles live charts when the palette changes
type Adapter struct {
	lib charts.Library
	log *logger.Logger
}

// NewAdapter creates an adapter that restyles charts owned by lib
func NewAdapter(lib charts.Library) *Adapter {
	return &Adapter{
		lib: lib,
		log: logger.Component("theme"),
	}
}

// Apply pushes p onto h and redraws it exactly once. A nil or disposed
// handle is a silent no-op; draw failures are logged, never returned.
func (a *Adapter) Apply(ctx context.Context, h *charts.Handle, p Palette) {
	if !h.Live() {
		return
	}

	err := a.lib.Restyle(h, p.Style())
	if err == nil {
		err = a.lib.Redraw(ctx, h)
	}
	if errors.Is(err, charts.ErrDisposed) {
		return
	}
	if err != nil {
		a.log.Error("failed to apply palette", err, logger.Fields{
			"chart":   h.ID(),
			"palette": p.Name(),
		})
		return
	}

	a.log.Debug("applied palette", logger.Fields{
		"chart":   h.ID(),
		"surface": h.SurfaceID(),
		"palette": p.Name(),
	})
}

// Watch applies the new palette to every handle returned by handles each
// time src changes mode. The returned function stops watching.
func (a *Adapter) Watch(src *Source, handles func() []*charts.Handle) (stop func()) {
	return src.Subscribe(func(dark bool) {
		p := ResolvePalette(dark)
		for _, h := range handles() {
			a.Apply(context.Background(), h, p)
		}
	})
}
