package entities

import (
	"context"

	"docpipe/constants"
)

// Span is one raw hit from a tagger: a typed range within the source text.
type Span struct {
	Type  constants.EntityType
	Text  string
	Start int
	End   int
}

// SpanTagger is the black-box NER capability: full text in, typed spans out.
// Implementations must be deterministic for identical input.
type SpanTagger interface {
	Tag(ctx context.Context, text string) ([]Span, error)
}
