package pipeline

import (
	"sort"
	"strings"
)

// PageBoundary separates per-page texts in the document-level concatenation.
// The form feed keeps a clear page break marker in the combined text.
const PageBoundary = "\n\f\n"

// PageText is one page's contribution to the concatenation.
type PageText struct {
	Page int
	Text string
}

type pageSpan struct {
	page  int
	start int
	end   int
}

// ConcatText is the page-offset-indexed concatenation of per-page texts:
// the combined text plus an index that attributes any character offset back
// to the page it came from.
type ConcatText struct {
	Text  string
	spans []pageSpan
}

// Concat joins page texts in page order with the boundary marker and records
// each page's offset range. Callers pass only pages that produced text;
// failed pages are excluded from concatenation.
func Concat(texts []PageText) ConcatText {
	var b strings.Builder
	spans := make([]pageSpan, 0, len(texts))

	for i, pt := range texts {
		if i > 0 {
			b.WriteString(PageBoundary)
		}
		start := b.Len()
		b.WriteString(pt.Text)
		spans = append(spans, pageSpan{page: pt.Page, start: start, end: b.Len()})
	}
	return ConcatText{Text: b.String(), spans: spans}
}

// PageAt returns the page number owning the given byte offset, so entities
// found in the combined text remain attributable to a specific page.
// Returns 0 when the concatenation is empty.
func (c ConcatText) PageAt(offset int) int {
	if len(c.spans) == 0 {
		return 0
	}
	i := sort.Search(len(c.spans), func(i int) bool { return c.spans[i].end >= offset })
	if i == len(c.spans) {
		i--
	}
	return c.spans[i].page
}
