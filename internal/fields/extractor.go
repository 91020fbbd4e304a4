package fields

import (
	"log/slog"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"docpipe/constants"
	"docpipe/internal/entity"
)

const rawExcerptLimit = 500

// Extractor turns a classified document's text and entity set into typed
// fields with per-field confidence and a routing decision.
type Extractor struct {
	invoiceSchema *jsonschema.Schema
	cfg           RouteConfig
	logger        *slog.Logger
}

func NewExtractor(cfg RouteConfig, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.88
	}
	if cfg.CriticalMin <= 0 {
		cfg.CriticalMin = 0.95
	}
	sch, err := compileInvoiceSchema()
	if err != nil {
		return nil, err
	}
	return &Extractor{invoiceSchema: sch, cfg: cfg, logger: logger}, nil
}

// Extract maps fields for the given document type. Invoices get the full
// mapping/validation treatment; other types carry a raw excerpt so downstream
// consumers always have something to show.
func (e *Extractor) Extract(docType constants.DocType, text string, ents []entity.Entity) *entity.FieldExtraction {
	if docType == constants.Invoice {
		return e.extractInvoice(docType, text, ents)
	}
	return e.extractExcerpt(docType, text)
}

func (e *Extractor) extractInvoice(docType constants.DocType, text string, ents []entity.Entity) *entity.FieldExtraction {
	mapped := mapInvoiceFields(text, ents)
	conf, valid := scoreFields(mapped, invoiceRequired)
	enrich(mapped)

	if valid {
		if err := validateAgainstSchema(e.invoiceSchema, mapped); err != nil {
			e.logger.Warn("fields.schema.invalid", "error", err)
			valid = false
		}
	}

	agg := aggregateConfidence(conf)
	res := &entity.FieldExtraction{
		Fields:          mapped,
		FieldConfidence: conf,
		Confidence:      agg,
		Valid:           valid,
		Route:           routeDecision(e.cfg, docType, agg),
	}
	e.logger.Info("fields.invoice.extracted",
		"fields", len(mapped), "confidence", agg, "valid", valid, "route", string(res.Route))
	return res
}

func (e *Extractor) extractExcerpt(docType constants.DocType, text string) *entity.FieldExtraction {
	excerpt := truncateExcerpt(text, rawExcerptLimit)

	conf := float32(0.0)
	if excerpt != "" {
		conf = 0.6
	}
	fieldConf := map[string]float32{"raw_excerpt": conf}
	agg := aggregateConfidence(fieldConf)
	return &entity.FieldExtraction{
		Fields:          map[string]string{"raw_excerpt": excerpt},
		FieldConfidence: fieldConf,
		Confidence:      agg,
		Valid:           true,
		Route:           routeDecision(e.cfg, docType, agg),
	}
}

// truncateExcerpt cuts text at the limit without splitting a UTF-8 rune.
func truncateExcerpt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
