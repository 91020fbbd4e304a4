package ocr

import (
	"context"
	"fmt"

	"docpipe/internal/entity"
)

// Recognition is one engine's output for one page image. Confidence is in
// [0,1] and calibrated per engine; scores from different engines must not be
// compared directly.
type Recognition struct {
	Text       string
	Confidence float32
}

// Engine is the black-box OCR capability: page image in, text + confidence
// out. Implementations must be safe for concurrent use across pages.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img entity.PageImage) (Recognition, error)
}

// EngineError is a recoverable execution failure of a single engine; the text
// extraction stage responds by falling back to the next engine in priority
// order.
type EngineError struct {
	Engine string
	Cause  error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("ocr engine %s: %v", e.Engine, e.Cause)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}
