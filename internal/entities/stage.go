package entities

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"docpipe/constants"
	"docpipe/internal/entity"
)

type dedupKey struct {
	typ   constants.EntityType
	value string
}

// Stage runs the span tagger once over the full text and turns raw spans into
// deduplicated, normalized entities.
type Stage struct {
	tagger      SpanTagger
	callTimeout time.Duration
	logger      *slog.Logger
}

func NewStage(tagger SpanTagger, callTimeout time.Duration, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stage{tagger: tagger, callTimeout: callTimeout, logger: logger}
}

// Run extracts entities from text. Two spans with different offsets but the
// same (type, normalized value) are the same logical entity; only the
// first-seen offset is retained. Spans whose normalization fails are kept with
// the raw span as their value and flagged raw rather than dropped: the policy
// favors completeness over strictness.
func (s *Stage) Run(ctx context.Context, text string) ([]entity.Entity, constants.StageStatus, error) {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	spans, err := s.tagger.Tag(ctx, text)
	if err != nil {
		s.logger.Warn("entities.tagger.error", "error", err)
		return nil, constants.StageFailed, err
	}

	seen := make(map[dedupKey]struct{}, len(spans))
	result := make([]entity.Entity, 0, len(spans))

	for _, sp := range spans {
		trimmed, start, end := trimSpan(sp.Text, sp.Start)
		if trimmed == "" {
			continue
		}

		value, ok := normalize(sp.Type, trimmed)
		status := constants.NormOK
		if !ok {
			value = trimmed
			status = constants.NormRaw
		}

		key := dedupKey{typ: sp.Type, value: value}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		result = append(result, entity.Entity{
			Type:          sp.Type,
			Text:          trimmed,
			Start:         start,
			End:           end,
			Value:         value,
			Normalization: status,
		})
	}

	s.logger.Debug("entities.extracted", "spans", len(spans), "entities", len(result))
	return result, constants.StageOK, nil
}

// trimSpan trims surrounding whitespace and keeps the offsets pointing at the
// trimmed range within the source text.
func trimSpan(text string, start int) (string, int, int) {
	trimmedLeft := strings.TrimLeft(text, " \t\r\n")
	start += len(text) - len(trimmedLeft)
	trimmed := strings.TrimRight(trimmedLeft, " \t\r\n")
	return trimmed, start, start + len(trimmed)
}
