package entity

// TextExtractionResult holds the recognized text for one page.
//
// Confidence is in [0,1] and only meaningful relative to the engine that
// produced it; raw scores from different engines are not comparable.
type TextExtractionResult struct {
	Text       string  `json:"text"`
	Confidence float32 `json:"confidence"`
	Engine     string  `json:"engine"` // identity of the OCR engine that produced the text
}
