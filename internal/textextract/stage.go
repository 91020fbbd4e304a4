package textextract

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"docpipe/constants"
	"docpipe/internal/entity"
	"docpipe/internal/ocr"
)

// EngineConfig pairs an engine with its own acceptance threshold. Thresholds
// are configured per engine because raw confidence scores are not comparable
// across engines.
type EngineConfig struct {
	Engine    ocr.Engine
	Threshold float32
}

// Outcome is the stage result for one page: the best text obtained plus a
// quality status. Err is non-nil only when Status is StageFailed.
type Outcome struct {
	Result entity.TextExtractionResult
	Status constants.StageStatus
	Err    error
}

// Stage produces the best available text for a page image, tolerating
// individual engine failures by falling back through the priority list.
type Stage struct {
	engines     []EngineConfig
	callTimeout time.Duration
	logger      *slog.Logger
}

func NewStage(engines []EngineConfig, callTimeout time.Duration, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stage{engines: engines, callTimeout: callTimeout, logger: logger}
}

// Run invokes engines in priority order and accepts the first result whose
// confidence clears that engine's threshold; no later engine is invoked.
// If no engine clears its threshold the highest-confidence result is kept and
// tagged degraded: low-confidence text is a quality hint for downstream
// consumers, not a hard gate. The stage fails only when every engine raised an
// execution error.
func (s *Stage) Run(ctx context.Context, img entity.PageImage) Outcome {
	if len(s.engines) == 0 {
		return Outcome{Status: constants.StageFailed, Err: errors.New("no ocr engines configured")}
	}

	var best *entity.TextExtractionResult
	var errs []error

	for _, ec := range s.engines {
		rec, err := s.recognize(ctx, ec.Engine, img)
		if err != nil {
			s.logger.Warn("textextract.engine.error",
				"engine", ec.Engine.Name(), "page", img.Number, "error", err)
			errs = append(errs, err)
			if ctx.Err() != nil {
				// document run cancelled; stop trying engines
				break
			}
			continue
		}

		res := entity.TextExtractionResult{
			Text:       rec.Text,
			Confidence: rec.Confidence,
			Engine:     ec.Engine.Name(),
		}
		if rec.Confidence >= ec.Threshold {
			s.logger.Debug("textextract.engine.accepted",
				"engine", ec.Engine.Name(), "page", img.Number, "confidence", rec.Confidence)
			return Outcome{Result: res, Status: constants.StageOK}
		}

		s.logger.Debug("textextract.engine.low_confidence",
			"engine", ec.Engine.Name(), "page", img.Number,
			"confidence", rec.Confidence, "threshold", ec.Threshold)
		if best == nil || rec.Confidence > best.Confidence {
			best = &res
		}
	}

	if best != nil {
		return Outcome{Result: *best, Status: constants.StageDegraded}
	}
	return Outcome{Status: constants.StageFailed, Err: errors.Join(errs...)}
}

func (s *Stage) recognize(ctx context.Context, eng ocr.Engine, img entity.PageImage) (ocr.Recognition, error) {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}
	return eng.Recognize(ctx, img)
}
