package tables

import (
	"context"

	"docpipe/internal/entity"
)

// RawTable is detector geometry output: rows of cell text, possibly ragged.
type RawTable [][]string

// Detector is the black-box table-detection capability: page image in, raw
// cell grids out (possibly none).
type Detector interface {
	DetectTables(ctx context.Context, img entity.PageImage) ([]RawTable, error)
}
