package entity

import (
	"time"

	"github.com/google/uuid"

	"docpipe/constants"
)

// PageStatus is the per-page slice of the status record. A page is never
// silently dropped: even a page whose text extraction failed outright is
// listed here with StageFailed.
type PageStatus struct {
	Page   int                   `json:"page"`
	Text   constants.StageStatus `json:"text"`
	Tables constants.StageStatus `json:"tables"`
}

// StatusRecord is the per-stage observability record carried on every
// DocumentResult, used for retry and manual-review decisions.
type StatusRecord struct {
	Rasterize constants.StageStatus `json:"rasterize"`
	Pages     []PageStatus          `json:"pages"`
	Classify  constants.StageStatus `json:"classify"`
	Entities  constants.StageStatus `json:"entities"`
}

// PageResult is the per-page view of the final aggregate.
type PageResult struct {
	Number int                  `json:"number"`
	Text   TextExtractionResult `json:"text"`
	Tables []TableResult        `json:"tables,omitempty"`
}

// FieldExtraction is the typed-field supplement produced for recognized
// document types (currently invoices): mapped fields, per-field confidence,
// their aggregate, and the routing decision derived from it.
type FieldExtraction struct {
	Fields          map[string]string  `json:"fields"`
	FieldConfidence map[string]float32 `json:"field_confidence"`
	Confidence      float32            `json:"confidence"`
	Valid           bool               `json:"valid"`
	Route           constants.Route    `json:"route"`
}

// DocumentResult is the final aggregate returned to the caller. The caller
// always receives one, even for a fully failed document; Statuses explains
// what degraded or failed.
type DocumentResult struct {
	DocumentID     uuid.UUID            `json:"document_id"`
	Status         constants.DocState   `json:"status"` // DocCompleted or DocFailed
	Pages          []PageResult         `json:"pages"`
	Classification ClassificationResult `json:"classification"`
	Entities       []Entity             `json:"entities"`
	Fields         *FieldExtraction     `json:"fields,omitempty"`
	Statuses       StatusRecord         `json:"statuses"`
	ProcessedAt    time.Time            `json:"processed_at"`
}
