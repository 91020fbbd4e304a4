package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"docpipe/internal/common"
	"docpipe/internal/entity"
)

type Config struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // rasterization DPI, default 300
	MaxPages int    // 0 = no limit
}

// PdftoppmRasterizer renders PDFs to PNG page images via poppler's pdftoppm.
type PdftoppmRasterizer struct {
	cfg    Config
	runner common.Runner
	logger *slog.Logger
}

func NewPdftoppmRasterizer(cfg Config, logger *slog.Logger) *PdftoppmRasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &PdftoppmRasterizer{cfg: cfg, runner: common.ExecRunner{}, logger: logger}
}

func (r *PdftoppmRasterizer) Rasterize(ctx context.Context, pdf []byte) ([]entity.PageImage, error) {
	tmpDir, err := os.MkdirTemp("", "dp-raster-*")
	if err != nil {
		return nil, &RasterizationError{Detail: "temp dir", Cause: err}
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			r.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}()

	in := filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(in, pdf, 0o600); err != nil {
		return nil, &RasterizationError{Detail: "write input", Cause: err}
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", r.cfg.DPI), "-png", in, prefix)
	if err != nil {
		return nil, &RasterizationError{Detail: string(errb), Cause: err}
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...); pdftoppm
	// zero-pads page numbers so a lexical sort preserves page order
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if r.cfg.MaxPages > 0 && len(matches) > r.cfg.MaxPages {
		matches = matches[:r.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, &RasterizationError{Detail: "pdftoppm produced no images"}
	}

	pages := make([]entity.PageImage, 0, len(matches))
	for i, img := range matches {
		data, err := os.ReadFile(img)
		if err != nil {
			return nil, &RasterizationError{Detail: fmt.Sprintf("read page %d", i+1), Cause: err}
		}
		if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
			return nil, &RasterizationError{Detail: fmt.Sprintf("decode page %d", i+1), Cause: err}
		}
		pages = append(pages, entity.PageImage{Number: i + 1, Data: data})
	}

	r.logger.Debug("rasterized document", "pages", len(pages), "dpi", r.cfg.DPI)
	return pages, nil
}
