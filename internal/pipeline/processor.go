package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"docpipe/constants"
	"docpipe/internal/classify"
	"docpipe/internal/common"
	"docpipe/internal/entities"
	"docpipe/internal/entity"
	"docpipe/internal/fields"
	"docpipe/internal/raster"
	"docpipe/internal/tables"
	"docpipe/internal/textextract"
)

// Config holds orchestration knobs. Stage-level thresholds live on the stages
// themselves.
type Config struct {
	PageWorkers   int  // page-level parallelism per document, default 4
	TablesEnabled bool // whether the table stage runs at all
}

// Processor sequences the stages per page and per document and owns the
// failure policy: rasterization is the single hard-failure point, every later
// stage degrades instead of aborting.
type Processor struct {
	logger     *slog.Logger
	cfg        Config
	rasterizer raster.Rasterizer
	text       *textextract.Stage
	classifier *classify.Classifier
	entities   *entities.Stage
	tables     *tables.Stage
	fields     *fields.Extractor
}

func NewProcessor(
	logger *slog.Logger,
	cfg Config,
	rz raster.Rasterizer,
	text *textextract.Stage,
	cls *classify.Classifier,
	ents *entities.Stage,
	tbl *tables.Stage,
	flds *fields.Extractor,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageWorkers <= 0 {
		cfg.PageWorkers = 4
	}
	return &Processor{
		logger:     logger,
		cfg:        cfg,
		rasterizer: rz,
		text:       text,
		classifier: cls,
		entities:   ents,
		tables:     tbl,
		fields:     flds,
	}
}

// Process runs the full pipeline for one document. The caller always receives
// a DocumentResult, even a mostly-empty one for a fully failed document; the
// status record explains what degraded or failed. The returned error is
// non-nil only for the hard-failure cases: rasterization failure and
// document-run cancellation.
func (p *Processor) Process(ctx context.Context, pdf []byte) (*entity.DocumentResult, error) {
	doc := entity.NewDocument()
	state := constants.DocPending
	log := p.logger.With("document_id", doc.ID)
	if rid := common.RequestIDFromContext(ctx); rid != "" {
		log = log.With("request_id", rid)
	}

	res := &entity.DocumentResult{
		DocumentID: doc.ID,
		Statuses: entity.StatusRecord{
			Rasterize: constants.StageSkipped,
			Classify:  constants.StageSkipped,
			Entities:  constants.StageSkipped,
		},
	}

	// 1) Rasterize: the only stage whose failure aborts the document.
	images, err := p.rasterizer.Rasterize(ctx, pdf)
	if err != nil {
		log.Error("pipeline.rasterize.failed", "error", err)
		p.advance(&state, constants.DocFailed)
		res.Statuses.Rasterize = constants.StageFailed
		res.Status = state
		res.ProcessedAt = time.Now().UTC()
		return res, err
	}
	p.advance(&state, constants.DocRasterized)
	res.Statuses.Rasterize = constants.StageOK
	log.Info("pipeline.rasterize.ok", "pages", len(images))

	doc.Pages = make([]entity.Page, len(images))
	for i, img := range images {
		doc.Pages[i] = entity.Page{Number: img.Number, Image: img}
	}
	// pre-filled as skipped so pages a cancelled run never reached still
	// carry a valid status
	pageStatuses := make([]entity.PageStatus, len(doc.Pages))
	for i, page := range doc.Pages {
		pageStatuses[i] = entity.PageStatus{
			Page:   page.Number,
			Text:   constants.StageSkipped,
			Tables: constants.StageSkipped,
		}
	}

	// 2) Per-page text and table extraction. Pages are independent at these
	// stages; each goroutine owns exactly one Page. Stage failures are
	// recorded, never returned, so only cancellation stops the group.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.PageWorkers)
	for i := range doc.Pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page := &doc.Pages[i]
			st := &pageStatuses[i]

			out := p.text.Run(gctx, page.Image)
			page.Text = out.Result
			st.Text = out.Status
			if out.Status == constants.StageFailed {
				log.Warn("pipeline.ocr.failed", "page", page.Number, "error", out.Err)
			} else {
				log.Debug("pipeline.ocr.ok",
					"page", page.Number, "engine", out.Result.Engine,
					"confidence", out.Result.Confidence, "status", string(out.Status))
			}

			if p.cfg.TablesEnabled && p.tables != nil {
				tbls, tst, terr := p.tables.Run(gctx, page.Image)
				page.Tables = tbls
				st.Tables = tst
				if terr != nil {
					log.Warn("pipeline.tables.failed", "page", page.Number, "error", terr)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// document-level cancellation; other documents are unaffected
		log.Warn("pipeline.cancelled", "error", err)
		p.advance(&state, constants.DocFailed)
		res.Statuses.Pages = pageStatuses
		res.Status = state
		res.ProcessedAt = time.Now().UTC()
		return res, err
	}
	p.advance(&state, constants.DocTextExtracted)
	res.Statuses.Pages = pageStatuses

	// 3) Document-level aggregation over the page-order concatenation.
	// Failed pages contribute empty text and are excluded here, but stay in
	// the status record above.
	texts := make([]PageText, 0, len(doc.Pages))
	for i, page := range doc.Pages {
		if pageStatuses[i].Text == constants.StageFailed {
			continue
		}
		texts = append(texts, PageText{Page: page.Number, Text: page.Text.Text})
	}
	concat := Concat(texts)

	var cls entity.ClassificationResult
	var ents []entity.Entity
	var entStatus constants.StageStatus

	ag, agctx := errgroup.WithContext(ctx)
	ag.Go(func() error {
		cls = p.classifier.Classify(concat.Text)
		return nil
	})
	ag.Go(func() error {
		var err error
		ents, entStatus, err = p.entities.Run(agctx, concat.Text)
		if err != nil {
			log.Warn("pipeline.entities.failed", "error", err)
		}
		return nil
	})
	_ = ag.Wait()

	res.Classification = cls
	res.Statuses.Classify = constants.StageOK
	if concat.Text == "" {
		res.Statuses.Classify = constants.StageDegraded
	}
	res.Statuses.Entities = entStatus
	for i := range ents {
		ents[i].Page = concat.PageAt(ents[i].Start)
	}
	res.Entities = ents
	p.advance(&state, constants.DocAnalyzed)
	log.Info("pipeline.analyze.ok",
		"label", string(cls.Label), "confidence", cls.Confidence, "entities", len(ents))

	// 4) Typed-field supplement for recognized document types.
	if p.fields != nil {
		res.Fields = p.fields.Extract(cls.Label, concat.Text, ents)
	}

	p.advance(&state, constants.DocCompleted)
	res.Status = state
	res.Pages = make([]entity.PageResult, len(doc.Pages))
	for i, page := range doc.Pages {
		res.Pages[i] = entity.PageResult{Number: page.Number, Text: page.Text, Tables: page.Tables}
	}
	res.ProcessedAt = time.Now().UTC()
	return res, nil
}

// advance moves the document state machine, logging any illegal transition
// instead of panicking; the transition table is the source of truth.
func (p *Processor) advance(state *constants.DocState, next constants.DocState) {
	if !state.CanTransition(next) {
		p.logger.Error("pipeline.state.illegal_transition",
			"from", string(*state), "to", string(next))
		return
	}
	*state = next
}
