package surface

import "context"

// ErrorSurface shows a human readable failure in place of a chart
type ErrorSurface interface {
	ShowError(ctx context.Context, surfaceID, message string) error
}

// ContainerErrors writes messages into the container of a document canvas
type ContainerErrors struct {
	doc *Document
}

// NewContainerErrors creates an ErrorSurface backed by doc
func NewContainerErrors(doc *Document) *ContainerErrors {
	return &ContainerErrors{doc: doc}
}

// ShowError replaces the container content of surfaceID with message
func (e *ContainerErrors) ShowError(_ context.Context, surfaceID, message string) error {
	c, err := e.doc.Lookup(surfaceID)
	if err != nil {
		return err
	}
	c.ShowError(message)
	return nil
}
