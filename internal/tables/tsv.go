package tables

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"docpipe/internal/common"
	"docpipe/internal/entity"
)

type TSVConfig struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Language  string // default "eng"
	ColGapPx  int    // min horizontal gap between cells, default 48
	MinRows   int    // min aligned rows to call it a table, default 2
	MinCols   int    // min columns, default 2
}

// TSVDetector derives table grids from tesseract's word-geometry TSV output:
// words on one text line form a row, and wide horizontal gaps split the row
// into cells. Consecutive multi-cell lines within a block become one table.
type TSVDetector struct {
	cfg    TSVConfig
	runner common.Runner
	logger *slog.Logger
}

func NewTSVDetector(cfg TSVConfig, logger *slog.Logger) *TSVDetector {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.ColGapPx <= 0 {
		cfg.ColGapPx = 48
	}
	if cfg.MinRows <= 0 {
		cfg.MinRows = 2
	}
	if cfg.MinCols <= 0 {
		cfg.MinCols = 2
	}
	return &TSVDetector{cfg: cfg, runner: common.ExecRunner{}, logger: logger}
}

type tsvWord struct {
	block, par, line int
	left, width      int
	text             string
}

func (d *TSVDetector) DetectTables(ctx context.Context, img entity.PageImage) ([]RawTable, error) {
	tmp, err := os.CreateTemp("", "dp-tables-*.png")
	if err != nil {
		return nil, err
	}
	path := tmp.Name()
	defer func() {
		if err := os.Remove(path); err != nil {
			d.logger.Warn("failed to remove temp image", "path", path, "error", err)
		}
	}()
	if _, err := tmp.Write(img.Data); err != nil {
		_ = tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	out, errb, err := d.runner.Run(ctx, d.cfg.Tesseract, path, "stdout", "-l", d.cfg.Language, "tsv")
	if err != nil {
		return nil, fmt.Errorf("tesseract tsv: %w (%s)", err, strings.TrimSpace(string(errb)))
	}

	return d.gridsFromWords(parseWords(string(out))), nil
}

func parseWords(out string) []tsvWord {
	var words []tsvWord
	for i, ln := range strings.Split(out, "\n") {
		if i == 0 || ln == "" {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}
		text := strings.TrimSpace(cols[11])
		if text == "" {
			continue
		}
		block, _ := strconv.Atoi(cols[2])
		par, _ := strconv.Atoi(cols[3])
		line, _ := strconv.Atoi(cols[4])
		left, _ := strconv.Atoi(cols[6])
		width, _ := strconv.Atoi(cols[8])
		words = append(words, tsvWord{block: block, par: par, line: line, left: left, width: width, text: text})
	}
	return words
}

// gridsFromWords groups words into lines, splits lines into cells at wide
// gaps, and emits one RawTable per run of consecutive multi-cell lines.
func (d *TSVDetector) gridsFromWords(words []tsvWord) []RawTable {
	type lineKey struct{ block, par, line int }
	lines := make(map[lineKey][]tsvWord)
	var keys []lineKey
	for _, w := range words {
		k := lineKey{w.block, w.par, w.line}
		if _, ok := lines[k]; !ok {
			keys = append(keys, k)
		}
		lines[k] = append(lines[k], w)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].block != keys[j].block {
			return keys[i].block < keys[j].block
		}
		if keys[i].par != keys[j].par {
			return keys[i].par < keys[j].par
		}
		return keys[i].line < keys[j].line
	})

	var tables []RawTable
	var current RawTable
	flush := func() {
		if len(current) >= d.cfg.MinRows {
			tables = append(tables, current)
		}
		current = nil
	}

	for _, k := range keys {
		row := d.splitCells(lines[k])
		if len(row) >= d.cfg.MinCols {
			current = append(current, row)
			continue
		}
		flush()
	}
	flush()
	return tables
}

func (d *TSVDetector) splitCells(ws []tsvWord) []string {
	sort.Slice(ws, func(i, j int) bool { return ws[i].left < ws[j].left })

	var cells []string
	var cell []string
	prevRight := -1
	for _, w := range ws {
		if prevRight >= 0 && w.left-prevRight > d.cfg.ColGapPx {
			cells = append(cells, strings.Join(cell, " "))
			cell = nil
		}
		cell = append(cell, w.text)
		if r := w.left + w.width; r > prevRight {
			prevRight = r
		}
	}
	if len(cell) > 0 {
		cells = append(cells, strings.Join(cell, " "))
	}
	return cells
}
