package surface

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"adoptionchart/internal/charts"
)

// DefaultSurfaceID is the id of the page's only chart surface
const DefaultSurfaceID = "project-cumulative-chart"

// ErrSurfaceNotFound means no canvas is registered under the requested id
var ErrSurfaceNotFound = errors.New("surface not found")

// DomError reports a missing surface
type DomError struct {
	SurfaceID string
}

func (e *DomError) Error() string {
	return fmt.Sprintf("surface %q: %v", e.SurfaceID, ErrSurfaceNotFound)
}

func (e *DomError) Unwrap() error {
	return ErrSurfaceNotFound
}

// Publisher receives every frame drawn on any canvas of a document
type Publisher interface {
	Publish(ctx context.Context, surfaceID string, f charts.Frame) error
}

// Document is the set of named canvases a host page exposes
type Document struct {
	mu        sync.RWMutex
	canvases  map[string]*Canvas
	publisher Publisher
}

// Option configures a Document
type Option func(*Document)

// WithPublisher mirrors every drawn frame to p
func WithPublisher(p Publisher) Option {
	return func(d *Document) {
		d.publisher = p
	}
}

// NewDocument creates a document with a canvas for each id
func NewDocument(ids []string, opts ...Option) *Document {
	d := &Document{canvases: make(map[string]*Canvas)}
	for _, opt := range opts {
		opt(d)
	}
	for _, id := range ids {
		d.Add(id)
	}
	return d
}

// Add registers a canvas under id, returning the existing one if present
func (d *Document) Add(id string) *Canvas {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.canvases[id]; ok {
		return c
	}
	c := &Canvas{id: id, publisher: d.publisher}
	d.canvases[id] = c
	return c
}

// Remove unregisters the canvas under id
func (d *Document) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.canvases, id)
}

// Lookup returns the canvas registered under id or a *DomError
func (d *Document) Lookup(id string) (*Canvas, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.canvases[id]
	if !ok {
		return nil, &DomError{SurfaceID: id}
	}
	return c, nil
}

// IDs returns the registered canvas ids in sorted order
func (d *Document) IDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.canvases))
	for id := range d.canvases {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot is a point-in-time view of a canvas
type Snapshot struct {
	SurfaceID string
	Frame     charts.Frame
	HasFrame  bool
	Version   int
	Error     string
	UpdatedAt time.Time
}

// Canvas is a drawing target whose container can show an error message in
// place of the chart.
type Canvas struct {
	id        string
	publisher Publisher

	mu        sync.RWMutex
	owner     string
	frame     charts.Frame
	hasFrame  bool
	version   int
	errText   string
	updatedAt time.Time
}

// ID returns the canvas id
func (c *Canvas) ID() string {
	return c.id
}

// Draw installs f as the current frame and clears any error message. An
// initial frame makes its chart the owner; any other frame is refused with
// charts.ErrReplaced unless its chart owns the canvas.
func (c *Canvas) Draw(ctx context.Context, f charts.Frame) error {
	c.mu.Lock()
	// checked under the lock so a cancelled render never lands after a newer one
	if err := ctx.Err(); err != nil {
		c.mu.Unlock()
		return err
	}
	if !f.Initial && f.ChartID != c.owner {
		c.mu.Unlock()
		return charts.ErrReplaced
	}
	c.owner = f.ChartID
	c.frame = charts.Frame{ContentType: f.ContentType, Data: append([]byte(nil), f.Data...), ChartID: f.ChartID}
	c.hasFrame = true
	c.version++
	c.errText = ""
	c.updatedAt = time.Now()
	c.mu.Unlock()

	if c.publisher != nil {
		return c.publisher.Publish(ctx, c.id, f)
	}
	return nil
}

// Clear drops the current frame if chartID owns the canvas
func (c *Canvas) Clear(chartID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if chartID != c.owner {
		return
	}
	c.owner = ""
	c.frame = charts.Frame{}
	c.hasFrame = false
	c.updatedAt = time.Now()
}

// ShowError replaces the container's content with message. The canvas is
// left without an owner.
func (c *Canvas) ShowError(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owner = ""
	c.frame = charts.Frame{}
	c.hasFrame = false
	c.errText = message
	c.version++
	c.updatedAt = time.Now()
}

// Snapshot returns the current state of the canvas
func (c *Canvas) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		SurfaceID: c.id,
		Frame:     c.frame,
		HasFrame:  c.hasFrame,
		Version:   c.version,
		Error:     c.errText,
		UpdatedAt: c.updatedAt,
	}
}
