package entity

import "docpipe/constants"

// ClassificationResult carries exactly one label per document. Unknown means
// no label cleared the acceptance threshold; the confidence is still the
// argmax score so manual-review routing can use it.
type ClassificationResult struct {
	Label      constants.DocType `json:"label"`
	Confidence float32           `json:"confidence"`
}
