package tables

import (
	"strconv"
	"strings"
	"testing"
)

// wordRow builds a level-5 TSV row with the geometry columns that matter to
// the detector: block, par, line, left, width, text.
func wordRow(block, par, line, left, width int, text string) string {
	cols := []string{"5", "1",
		strconv.Itoa(block), strconv.Itoa(par), strconv.Itoa(line), "1",
		strconv.Itoa(left), "0", strconv.Itoa(width), "20", "95", text}
	return strings.Join(cols, "\t")
}

func tsvDoc(rows ...string) string {
	return "header\n" + strings.Join(rows, "\n") + "\n"
}

func TestGridsFromWordsDetectsAlignedRows(t *testing.T) {
	d := NewTSVDetector(TSVConfig{ColGapPx: 48}, nil)
	words := parseWords(tsvDoc(
		// two lines, each with two cells separated by a 100px gap
		wordRow(1, 1, 1, 0, 50, "item"),
		wordRow(1, 1, 1, 200, 50, "price"),
		wordRow(1, 1, 2, 0, 50, "widget"),
		wordRow(1, 1, 2, 200, 50, "9.99"),
	))

	grids := d.gridsFromWords(words)
	if len(grids) != 1 {
		t.Fatalf("got %d tables, want 1", len(grids))
	}
	want := RawTable{{"item", "price"}, {"widget", "9.99"}}
	if len(grids[0]) != 2 {
		t.Fatalf("got %d rows, want 2", len(grids[0]))
	}
	for i, row := range grids[0] {
		if len(row) != 2 || row[0] != want[i][0] || row[1] != want[i][1] {
			t.Errorf("row %d = %v, want %v", i, row, want[i])
		}
	}
}

func TestGridsFromWordsJoinsWordsWithinCell(t *testing.T) {
	d := NewTSVDetector(TSVConfig{ColGapPx: 48}, nil)
	words := parseWords(tsvDoc(
		// "unit price" are close together, then a wide gap to "total"
		wordRow(1, 1, 1, 0, 40, "unit"),
		wordRow(1, 1, 1, 45, 50, "price"),
		wordRow(1, 1, 1, 300, 50, "total"),
		wordRow(1, 1, 2, 0, 40, "2.00"),
		wordRow(1, 1, 2, 300, 50, "4.00"),
	))

	grids := d.gridsFromWords(words)
	if len(grids) != 1 {
		t.Fatalf("got %d tables, want 1", len(grids))
	}
	if grids[0][0][0] != "unit price" {
		t.Errorf("adjacent words must join into one cell, got %q", grids[0][0][0])
	}
}

func TestGridsFromWordsIgnoresProse(t *testing.T) {
	d := NewTSVDetector(TSVConfig{ColGapPx: 48}, nil)
	words := parseWords(tsvDoc(
		// single-cell lines: running prose, no table
		wordRow(1, 1, 1, 0, 40, "This"),
		wordRow(1, 1, 1, 45, 40, "is"),
		wordRow(1, 1, 1, 90, 40, "prose"),
		wordRow(1, 1, 2, 0, 40, "more"),
		wordRow(1, 1, 2, 45, 40, "prose"),
	))

	if grids := d.gridsFromWords(words); len(grids) != 0 {
		t.Errorf("prose must yield no tables, got %d", len(grids))
	}
}

func TestGridsFromWordsSingleRowBelowMin(t *testing.T) {
	d := NewTSVDetector(TSVConfig{ColGapPx: 48}, nil)
	words := parseWords(tsvDoc(
		wordRow(1, 1, 1, 0, 50, "only"),
		wordRow(1, 1, 1, 200, 50, "row"),
	))

	if grids := d.gridsFromWords(words); len(grids) != 0 {
		t.Errorf("one aligned row is below the minimum, got %d tables", len(grids))
	}
}

func TestGridsFromWordsProseSplitsTables(t *testing.T) {
	d := NewTSVDetector(TSVConfig{ColGapPx: 48}, nil)
	words := parseWords(tsvDoc(
		wordRow(1, 1, 1, 0, 50, "a"),
		wordRow(1, 1, 1, 200, 50, "b"),
		wordRow(1, 1, 2, 0, 50, "c"),
		wordRow(1, 1, 2, 200, 50, "d"),
		wordRow(1, 1, 3, 0, 50, "interruption"),
		wordRow(1, 1, 4, 0, 50, "e"),
		wordRow(1, 1, 4, 200, 50, "f"),
		wordRow(1, 1, 5, 0, 50, "g"),
		wordRow(1, 1, 5, 200, 50, "h"),
	))

	grids := d.gridsFromWords(words)
	if len(grids) != 2 {
		t.Fatalf("prose between aligned runs must split tables: got %d, want 2", len(grids))
	}
}

func TestParseWordsSkipsNonWordRows(t *testing.T) {
	out := tsvDoc(
		strings.Join([]string{"4", "1", "1", "1", "1", "0", "0", "0", "10", "20", "-1", ""}, "\t"),
		wordRow(1, 1, 1, 0, 50, "word"),
	)
	words := parseWords(out)
	if len(words) != 1 {
		t.Fatalf("got %d words, want 1", len(words))
	}
	if words[0].text != "word" {
		t.Errorf("text = %q", words[0].text)
	}
}
