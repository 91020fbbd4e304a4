package entities

import (
	"context"
	"regexp"
	"sort"

	"docpipe/constants"
)

var (
	reMoney = regexp.MustCompile(`(?:USD\s?)?\$\s?[0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?`)
	reDate  = regexp.MustCompile(`\b(?:\d{1,2}[/.-]){2}\d{2,4}\b|\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},\s*\d{4}`)
	reEmail = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.[A-Za-z]{2,}`)
	rePhone = regexp.MustCompile(`(?:\+?\d{1,3}[\s-]?)?(?:\(\d{3}\)|\d{3})[\s-]?\d{3}[\s-]?\d{4}`)
)

var patterns = []struct {
	typ constants.EntityType
	re  *regexp.Regexp
}{
	{constants.EntityMoney, reMoney},
	{constants.EntityDate, reDate},
	{constants.EntityEmail, reEmail},
	{constants.EntityPhone, rePhone},
}

// RegexTagger is a rule-based SpanTagger covering money, dates, emails and
// phone numbers. It stands in wherever a model-backed tagger is unavailable
// and doubles as the deterministic tagger for tests.
type RegexTagger struct{}

func NewRegexTagger() *RegexTagger { return &RegexTagger{} }

func (t *RegexTagger) Tag(_ context.Context, text string) ([]Span, error) {
	var spans []Span
	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			spans = append(spans, Span{
				Type:  p.typ,
				Text:  text[loc[0]:loc[1]],
				Start: loc[0],
				End:   loc[1],
			})
		}
	}
	// offset order so first-seen dedup is deterministic
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].Type < spans[j].Type
	})
	return spans, nil
}
