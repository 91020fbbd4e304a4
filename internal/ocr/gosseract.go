package ocr

import (
	"context"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"docpipe/internal/entity"
)

// GosseractEngine recognizes text through the tesseract C API (gosseract).
// A fresh client is created per call so the engine is safe across pages.
type GosseractEngine struct {
	clientFactory func() *gosseract.Client
	languages     []string
	logger        *slog.Logger
}

func NewGosseractEngine(languages []string, logger *slog.Logger) *GosseractEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &GosseractEngine{
		clientFactory: gosseract.NewClient,
		languages:     languages,
		logger:        logger,
	}
}

func (e *GosseractEngine) Name() string { return "gosseract" }

func (e *GosseractEngine) Recognize(ctx context.Context, img entity.PageImage) (Recognition, error) {
	select {
	case <-ctx.Done():
		return Recognition{}, &EngineError{Engine: e.Name(), Cause: ctx.Err()}
	default:
	}

	c := e.clientFactory()
	defer func() {
		if err := c.Close(); err != nil {
			e.logger.Warn("gosseract close failed", "error", err)
		}
	}()

	if err := c.SetLanguage(e.languages...); err != nil {
		return Recognition{}, &EngineError{Engine: e.Name(), Cause: err}
	}
	if err := c.SetImageFromBytes(img.Data); err != nil {
		return Recognition{}, &EngineError{Engine: e.Name(), Cause: err}
	}

	text, err := c.Text()
	if err != nil {
		return Recognition{}, &EngineError{Engine: e.Name(), Cause: err}
	}
	text = strings.TrimSpace(text)

	// gosseract's plain Text() carries no native score; fall back to the
	// content heuristic calibrated for this engine
	return Recognition{Text: text, Confidence: heuristicConfidence(text)}, nil
}
