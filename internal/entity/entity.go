package entity

import "docpipe/constants"

// Entity is one deduplicated, normalized span from the document text.
//
// Start/End are byte offsets into the concatenated document text; Page is the
// page the span is attributed to. Value is the canonical form (dates as
// YYYY-MM-DD, amounts as "CODE 123.45"); when normalization fails the raw span
// is kept as Value and Normalization is set to NormRaw.
type Entity struct {
	Type          constants.EntityType `json:"type"`
	Text          string               `json:"text"` // raw matched span, whitespace-trimmed
	Start         int                  `json:"start"`
	End           int                  `json:"end"`
	Page          int                  `json:"page"`
	Value         string               `json:"value"`
	Normalization constants.NormStatus `json:"normalization"`
}
