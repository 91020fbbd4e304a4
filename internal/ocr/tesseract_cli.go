package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"docpipe/internal/common"
	"docpipe/internal/entity"
)

type TesseractConfig struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Language    string // default "eng"
	TessdataDir string
	PSM         int // e.g., 6 is good for uniform block of text
	OEM         int // 1 = LSTM; leave 0 to use default
}

// TesseractCLIEngine shells out to the tesseract binary and derives its
// confidence from tesseract's own TSV word scores, so the score is native to
// this engine.
type TesseractCLIEngine struct {
	cfg    TesseractConfig
	runner common.Runner
	logger *slog.Logger
}

func NewTesseractCLIEngine(cfg TesseractConfig, logger *slog.Logger) *TesseractCLIEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &TesseractCLIEngine{cfg: cfg, runner: common.ExecRunner{}, logger: logger}
}

func (e *TesseractCLIEngine) Name() string { return "tesseract-cli" }

func (e *TesseractCLIEngine) Recognize(ctx context.Context, img entity.PageImage) (Recognition, error) {
	tmp, err := os.CreateTemp("", "dp-ocr-*.png")
	if err != nil {
		return Recognition{}, &EngineError{Engine: e.Name(), Cause: err}
	}
	path := tmp.Name()
	defer func() {
		if err := os.Remove(path); err != nil {
			e.logger.Warn("failed to remove temp image", "path", path, "error", err)
		}
	}()
	if _, err := tmp.Write(img.Data); err != nil {
		_ = tmp.Close()
		return Recognition{}, &EngineError{Engine: e.Name(), Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return Recognition{}, &EngineError{Engine: e.Name(), Cause: err}
	}

	// tesseract <file> stdout -l <lang> [--psm N] [--oem N] tsv
	args := []string{path, "stdout", "-l", e.cfg.Language}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return Recognition{}, &EngineError{Engine: e.Name(), Cause: fmt.Errorf("tesseract: %w (%s)", err, truncateErr(errb))}
	}

	text, conf := parseTSV(string(out))
	return Recognition{Text: text, Confidence: conf}, nil
}

// parseTSV rebuilds line-broken text from tesseract TSV output and returns the
// mean word confidence in 0..1. TSV columns: level page_num block_num par_num
// line_num word_num left top width height conf text.
func parseTSV(out string) (string, float32) {
	var b strings.Builder
	var sum, n float64
	lastLine := ""

	for i, ln := range strings.Split(out, "\n") {
		if i == 0 || ln == "" { // skip header
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		if cols[0] != "5" { // word-level rows only
			continue
		}
		confStr := cols[10]
		word := cols[11]
		if strings.TrimSpace(word) == "" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil && v >= 0 {
			sum += v
			n++
		}
		lineKey := cols[2] + ":" + cols[3] + ":" + cols[4] // block:par:line
		if b.Len() > 0 {
			if lineKey != lastLine {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(word)
		lastLine = lineKey
	}

	if n == 0 {
		return b.String(), 0
	}
	return b.String(), float32(sum / n / 100.0)
}

func truncateErr(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 256 {
		s = s[:256] + "..."
	}
	return s
}
