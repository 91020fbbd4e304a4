package entity

import (
	"github.com/google/uuid"
)

// PageImage is a rendered page. Data is the encoded image (PNG unless the
// rasterizer says otherwise); downstream stages borrow it read-only.
type PageImage struct {
	Number int // 1-based page number
	Data   []byte
}

// Page is owned by exactly one Document. Order is significant and preserved
// through every stage.
type Page struct {
	Number int
	Image  PageImage
	Text   TextExtractionResult
	Tables []TableResult
}

// Document is created on ingest and mutated only by the stage currently
// processing it; once a DocumentResult is produced it is immutable.
type Document struct {
	ID    uuid.UUID
	Pages []Page
}

func NewDocument() *Document {
	return &Document{ID: uuid.New()}
}
