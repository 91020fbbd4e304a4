package raster

import (
	"context"
	"fmt"

	"docpipe/internal/entity"
)

// Rasterizer is the external PDF-to-image collaborator: document bytes in,
// ordered page images out. Failure is the pipeline's single hard-failure
// point; no partial-page processing is possible.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte) ([]entity.PageImage, error)
}

// RasterizationError wraps any failure to render a document into page images.
type RasterizationError struct {
	Detail string
	Cause  error
}

func (e *RasterizationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rasterization failed: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("rasterization failed: %s", e.Detail)
}

func (e *RasterizationError) Unwrap() error {
	return e.Cause
}
