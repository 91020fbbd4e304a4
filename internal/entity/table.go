package entity

// TableResult is a rectangular table: every row has the same cell count.
// Irregular marks tables whose shape is synthetic because short rows needed
// more padding than the configured tolerance allows.
type TableResult struct {
	Rows      [][]string `json:"rows"`
	Irregular bool       `json:"irregular"`
}

// Width returns the (uniform) cell count per row, 0 for an empty table.
func (t TableResult) Width() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}
