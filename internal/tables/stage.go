package tables

import (
	"context"
	"log/slog"
	"time"

	"docpipe/constants"
	"docpipe/internal/entity"
)

// DefaultIrregularTolerance is the padded-cell ratio above which a table is
// marked irregular.
const DefaultIrregularTolerance = 0.2

// Stage wraps detector geometry into rectangular TableResults. Short rows are
// padded with empty cells to the widest row; when the padding ratio exceeds
// the tolerance the table is marked irregular so downstream consumers know the
// shape is synthetic, not source-faithful.
type Stage struct {
	detector    Detector
	tolerance   float64
	callTimeout time.Duration
	logger      *slog.Logger
}

func NewStage(detector Detector, tolerance float64, callTimeout time.Duration, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = slog.Default()
	}
	if tolerance <= 0 {
		tolerance = DefaultIrregularTolerance
	}
	return &Stage{detector: detector, tolerance: tolerance, callTimeout: callTimeout, logger: logger}
}

func (s *Stage) Run(ctx context.Context, img entity.PageImage) ([]entity.TableResult, constants.StageStatus, error) {
	callCtx := ctx
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	raw, err := s.detector.DetectTables(callCtx, img)
	if err != nil {
		s.logger.Warn("tables.detector.error", "page", img.Number, "error", err)
		return nil, constants.StageFailed, err
	}

	results := make([]entity.TableResult, 0, len(raw))
	for _, t := range raw {
		if len(t) == 0 {
			continue
		}
		results = append(results, s.rectangularize(t))
	}

	s.logger.Debug("tables.extracted", "page", img.Number, "tables", len(results))
	return results, constants.StageOK, nil
}

func (s *Stage) rectangularize(t RawTable) entity.TableResult {
	width := 0
	for _, row := range t {
		if len(row) > width {
			width = len(row)
		}
	}

	padded := 0
	rows := make([][]string, len(t))
	for i, row := range t {
		out := make([]string, width)
		copy(out, row)
		padded += width - len(row)
		rows[i] = out
	}

	total := len(t) * width
	irregular := total > 0 && float64(padded)/float64(total) > s.tolerance
	return entity.TableResult{Rows: rows, Irregular: irregular}
}
