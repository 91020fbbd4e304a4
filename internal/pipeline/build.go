package pipeline

import (
	"fmt"
	"log/slog"

	"docpipe/constants"
	"docpipe/internal/classify"
	"docpipe/internal/common"
	"docpipe/internal/entities"
	"docpipe/internal/fields"
	"docpipe/internal/ocr"
	"docpipe/internal/raster"
	"docpipe/internal/tables"
	"docpipe/internal/textextract"
)

// Build wires a Processor from configuration, constructing the configured OCR
// engines in priority order and every stage around them.
func Build(cfg *common.Config, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	engines := make([]textextract.EngineConfig, 0, len(cfg.OCR.Engines))
	for _, ec := range cfg.OCR.Engines {
		var eng ocr.Engine
		switch ec.Name {
		case "gosseract":
			eng = ocr.NewGosseractEngine([]string{cfg.OCR.Language}, logger)
		case "tesseract-cli":
			eng = ocr.NewTesseractCLIEngine(ocr.TesseractConfig{
				Tesseract:   cfg.OCR.Tesseract,
				Language:    cfg.OCR.Language,
				TessdataDir: cfg.OCR.TessdataDir,
				PSM:         cfg.OCR.PSM,
				OEM:         cfg.OCR.OEM,
			}, logger)
		default:
			return nil, fmt.Errorf("unknown ocr engine: %q", ec.Name)
		}
		engines = append(engines, textextract.EngineConfig{Engine: eng, Threshold: ec.Threshold})
	}

	textStage := textextract.NewStage(engines, cfg.Pipeline.StageTimeout, logger)
	classifier := classify.NewClassifier(cfg.Classify.Threshold, logger)
	entStage := entities.NewStage(entities.NewRegexTagger(), cfg.Pipeline.StageTimeout, logger)

	var tblStage *tables.Stage
	if cfg.Tables.Enabled {
		det := tables.NewTSVDetector(tables.TSVConfig{
			Tesseract: cfg.OCR.Tesseract,
			Language:  cfg.OCR.Language,
			ColGapPx:  cfg.Tables.ColGapPx,
		}, logger)
		tblStage = tables.NewStage(det, cfg.Tables.IrregularTolerance, cfg.Pipeline.StageTimeout, logger)
	}

	criticalTypes := make(map[constants.DocType]bool, len(cfg.Routing.CriticalTypes))
	for _, label := range cfg.Routing.CriticalTypes {
		dt, ok := constants.Canonicalize(label)
		if !ok {
			return nil, fmt.Errorf("unknown critical document type: %q", label)
		}
		criticalTypes[dt] = true
	}

	fe, err := fields.NewExtractor(fields.RouteConfig{
		MinConfidence:    cfg.Routing.MinConfidence,
		CriticalMin:      cfg.Routing.CriticalMin,
		BusinessCritical: cfg.Routing.BusinessCritical,
		CriticalTypes:    criticalTypes,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build field extractor: %w", err)
	}

	rz := raster.NewPdftoppmRasterizer(raster.Config{
		Pdftoppm: cfg.Raster.Pdftoppm,
		DPI:      cfg.Raster.DPI,
		MaxPages: cfg.Raster.MaxPages,
	}, logger)

	return NewProcessor(logger, Config{
		PageWorkers:   cfg.Pipeline.PageWorkers,
		TablesEnabled: cfg.Tables.Enabled,
	}, rz, textStage, classifier, entStage, tblStage, fe), nil
}
