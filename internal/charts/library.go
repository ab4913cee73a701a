package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrDisposed is returned when a disposed handle is restyled or redrawn
var ErrDisposed = errors.New("chart handle disposed")

// ErrReplaced is returned by a surface asked to redraw a chart that no
// longer owns it. It matches ErrDisposed.
var ErrReplaced = fmt.Errorf("chart replaced on its surface: %w", ErrDisposed)

// Frame is one rendered image of a chart
type Frame struct {
	ContentType string
	Data        []byte
	// ChartID is the handle that drew the frame
	ChartID string
	// Initial marks the frame drawn by Create. It makes ChartID the owner
	// of the surface.
	Initial bool
}

// Surface is the drawing target a chart is bound to
type Surface interface {
	ID() string
	Draw(ctx context.Context, f Frame) error
}

// Clearer is implemented by surfaces that can drop their current frame.
// Clear is a no-op unless chartID owns the surface.
type Clearer interface {
	Clear(chartID string)
}

// Backend turns a Config into bytes of one output format
type Backend interface {
	Name() string
	ContentType() string
	Extension() string
	Render(cfg Config, w io.Writer) error
}

// Library creates and manages live charts bound to surfaces
type Library interface {
	Create(ctx context.Context, s Surface, cfg Config) (*Handle, error)
	Restyle(h *Handle, style Style) error
	Redraw(ctx context.Context, h *Handle) error
	Dispose(h *Handle)
}

// DrawObserver receives timing for every draw a library performs
type DrawObserver interface {
	ObserveDraw(backend string, d time.Duration, err error)
}

// Handle is a live chart bound to one surface
type Handle struct {
	id      string
	surface Surface
	created time.Time

	mu       sync.Mutex
	cfg      Config
	disposed bool
	redraws  int
}

// ID returns the unique id assigned at creation
func (h *Handle) ID() string {
	return h.id
}

// SurfaceID returns the id of the surface the chart draws into
func (h *Handle) SurfaceID() string {
	return h.surface.ID()
}

// CreatedAt returns when the chart was first drawn
func (h *Handle) CreatedAt() time.Time {
	return h.created
}

// Config returns a copy of the current configuration
func (h *Handle) Config() Config {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg.clone()
}

// Live reports whether the handle is usable. A nil handle is not live.
func (h *Handle) Live() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.disposed
}

// Redraws returns how many times Redraw has completed for this handle. The
// initial draw done by Create is not counted.
func (h *Handle) Redraws() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.redraws
}

// BackendLibrary is a Library that draws frames with a single Backend
type BackendLibrary struct {
	backend  Backend
	observer DrawObserver
}

// LibraryOption configures a BackendLibrary
type LibraryOption func(*BackendLibrary)

// WithObserver reports draw timing to o
func WithObserver(o DrawObserver) LibraryOption {
	return func(l *BackendLibrary) {
		l.observer = o
	}
}

// NewLibrary creates a library drawing with backend
func NewLibrary(backend Backend, opts ...LibraryOption) *BackendLibrary {
	l := &BackendLibrary{backend: backend}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Backend returns the backend frames are rendered with
func (l *BackendLibrary) Backend() Backend {
	return l.backend
}

// Create binds a new chart to s and draws it once
func (l *BackendLibrary) Create(ctx context.Context, s Surface, cfg Config) (*Handle, error) {
	if s == nil {
		return nil, fmt.Errorf("create chart: nil surface")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("create chart: %w", err)
	}

	cfg = cfg.clone()
	cfg.SurfaceID = s.ID()

	h := &Handle{
		id:      uuid.NewString(),
		surface: s,
		created: time.Now(),
		cfg:     cfg,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := l.draw(ctx, h, true); err != nil {
		return nil, fmt.Errorf("create chart: %w", err)
	}
	return h, nil
}

// Restyle replaces the style of a live chart without redrawing it
func (l *BackendLibrary) Restyle(h *Handle, style Style) error {
	if h == nil {
		return ErrDisposed
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return ErrDisposed
	}
	h.cfg.Style = style.clone()
	return nil
}

// Redraw renders the chart's current config onto its surface
func (l *BackendLibrary) Redraw(ctx context.Context, h *Handle) error {
	if h == nil {
		return ErrDisposed
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return ErrDisposed
	}
	if err := l.draw(ctx, h, false); err != nil {
		return err
	}
	h.redraws++
	return nil
}

// Dispose releases the chart. It is safe to call more than once.
func (l *BackendLibrary) Dispose(h *Handle) {
	if h == nil {
		return
	}
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.disposed = true
	h.mu.Unlock()

	if c, ok := h.surface.(Clearer); ok {
		c.Clear(h.id)
	}
}

// draw must be called with h.mu held
func (l *BackendLibrary) draw(ctx context.Context, h *Handle, initial bool) (err error) {
	start := time.Now()
	defer func() {
		if l.observer != nil {
			l.observer.ObserveDraw(l.backend.Name(), time.Since(start), err)
		}
	}()

	var buf bytes.Buffer
	if err := l.backend.Render(h.cfg, &buf); err != nil {
		return fmt.Errorf("%s render: %w", l.backend.Name(), err)
	}
	return h.surface.Draw(ctx, Frame{
		ContentType: l.backend.ContentType(),
		Data:        buf.Bytes(),
		ChartID:     h.id,
		Initial:     initial,
	})
}
