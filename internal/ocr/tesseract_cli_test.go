package ocr

import (
	"strings"
	"testing"
)

func tsvRow(level, block, par, line, word, conf, text string) string {
	// level page block par line word left top width height conf text
	return strings.Join([]string{level, "1", block, par, line, word, "0", "0", "10", "10", conf, text}, "\t")
}

func TestParseTSVWordsAndLines(t *testing.T) {
	out := strings.Join([]string{
		"level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext",
		tsvRow("1", "1", "0", "0", "0", "-1", ""),  // page row, ignored
		tsvRow("4", "1", "1", "1", "0", "-1", ""),  // line row, ignored
		tsvRow("5", "1", "1", "1", "1", "96", "Invoice"),
		tsvRow("5", "1", "1", "1", "2", "90", "Total"),
		tsvRow("5", "1", "1", "2", "1", "80", "Due"),
		"",
	}, "\n")

	text, conf := parseTSV(out)
	if text != "Invoice Total\nDue" {
		t.Errorf("text = %q, want words joined within a line, newline across lines", text)
	}
	want := float32((96.0 + 90.0 + 80.0) / 3.0 / 100.0)
	if conf != want {
		t.Errorf("confidence = %v, want %v", conf, want)
	}
}

func TestParseTSVSkipsNegativeConfAndBlanks(t *testing.T) {
	out := strings.Join([]string{
		"header",
		tsvRow("5", "1", "1", "1", "1", "-1", "ghost"), // conf -1 excluded from the mean
		tsvRow("5", "1", "1", "1", "2", "100", "real"),
		tsvRow("5", "1", "1", "1", "3", "50", "  "), // blank word dropped entirely
	}, "\n")

	text, conf := parseTSV(out)
	if text != "ghost real" {
		t.Errorf("text = %q", text)
	}
	if conf != 1.0 {
		t.Errorf("confidence = %v, want 1.0 (only the conf>=0 word counts)", conf)
	}
}

func TestParseTSVEmpty(t *testing.T) {
	text, conf := parseTSV("header only\n")
	if text != "" || conf != 0 {
		t.Errorf("empty tsv: text=%q conf=%v", text, conf)
	}
}

func TestHeuristicConfidence(t *testing.T) {
	low := heuristicConfidence("zx")
	rich := heuristicConfidence("Invoice dated 01/02/2024 for USD $1,234.56 covering consulting services rendered during the period including planning delivery review and documentation work")
	if low >= rich {
		t.Errorf("document-like text must score higher: low=%v rich=%v", low, rich)
	}
	if low != 0.2 {
		t.Errorf("base score = %v, want 0.2", low)
	}
	if rich > 1.0 {
		t.Errorf("score must be capped at 1.0, got %v", rich)
	}
}
