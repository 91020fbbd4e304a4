package classify

import (
	"log/slog"
	"strings"

	"docpipe/constants"
	"docpipe/internal/entity"
)

// hint lexicons per label; a label's score is the number of hints present in
// the text. Evaluation order is fixed so argmax ties break deterministically.
var (
	labelOrder = []constants.DocType{
		constants.Invoice,
		constants.Resume,
		constants.MedicalReport,
		constants.Contract,
	}

	lexicons = map[constants.DocType][]string{
		constants.Invoice: {
			"invoice", "amount due", "bill to", "subtotal", "total", "tax",
			"invoice number", "payment terms", "remit to",
		},
		constants.Resume: {
			"resume", "curriculum vitae", "work experience", "education",
			"skills", "references", "employment history", "objective",
		},
		constants.MedicalReport: {
			"patient", "diagnosis", "physician", "prescription", "symptoms",
			"medical history", "treatment", "lab results", "date of birth",
		},
		constants.Contract: {
			"agreement", "party", "contract", "effective date", "term",
			"hereinafter", "governing law", "witnesseth", "indemnify",
		},
	}
)

// Classifier maps extracted text to one of the fixed document-type labels.
// It is stateless and idempotent: identical text always yields identical
// output.
type Classifier struct {
	threshold float32
	logger    *slog.Logger
}

// NewClassifier builds a classifier that forces labels below threshold to
// Unknown. The confidence is still reported so callers can route borderline
// documents to manual review.
func NewClassifier(threshold float32, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{threshold: threshold, logger: logger}
}

// Classify scores text against every label and picks the argmax. Confidence
// is the winning label's share of all lexicon hits, a probability-like value
// in [0,1].
func (c *Classifier) Classify(text string) entity.ClassificationResult {
	t := strings.ToLower(text)

	var total int
	scores := make(map[constants.DocType]int, len(labelOrder))
	for _, label := range labelOrder {
		for _, hint := range lexicons[label] {
			if strings.Contains(t, hint) {
				scores[label]++
				total++
			}
		}
	}

	if total == 0 {
		return entity.ClassificationResult{Label: constants.Unknown, Confidence: 0}
	}

	best := labelOrder[0]
	for _, label := range labelOrder[1:] {
		if scores[label] > scores[best] {
			best = label
		}
	}

	conf := float32(scores[best]) / float32(total)
	label := best
	if conf < c.threshold {
		c.logger.Debug("classify.below_threshold",
			"argmax", string(best), "confidence", conf, "threshold", c.threshold)
		label = constants.Unknown
	}
	return entity.ClassificationResult{Label: label, Confidence: conf}
}
