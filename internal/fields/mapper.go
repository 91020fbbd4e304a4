package fields

import (
	"regexp"
	"strconv"
	"strings"

	"docpipe/constants"
	"docpipe/internal/entity"
)

var (
	reCompany   = regexp.MustCompile(`(?i)(?:company|vendor|bill from)[:\s]+([A-Za-z0-9&.,'\-\s]{3,})`)
	reInvoiceNo = regexp.MustCompile(`(?i)invoice\s*(?:no|number|#)[:\s]*([A-Za-z0-9-]+)`)
)

// mapInvoiceFields pulls the invoice header fields from text and the
// document's entity set: header regexes for company and invoice number, the
// first date entity for the invoice date, and the largest money entity for the
// total.
func mapInvoiceFields(text string, ents []entity.Entity) map[string]string {
	fields := make(map[string]string, 4)

	if m := reCompany.FindStringSubmatch(text); m != nil {
		company := m[1]
		if i := strings.IndexByte(company, '\n'); i >= 0 {
			company = company[:i]
		}
		if company = strings.TrimSpace(company); company != "" {
			fields["company_name"] = company
		}
	}
	if m := reInvoiceNo.FindStringSubmatch(text); m != nil {
		fields["invoice_number"] = strings.TrimSpace(m[1])
	}

	for _, e := range ents {
		if e.Type == constants.EntityDate {
			fields["invoice_date"] = e.Value
			break
		}
	}
	if total, ok := maxMoney(ents); ok {
		fields["total_amount"] = total
	}
	return fields
}

// maxMoney picks the money entity with the largest numeric value; invoices
// list subtotals and taxes, and the grand total is the maximum.
func maxMoney(ents []entity.Entity) (string, bool) {
	best := ""
	bestVal := 0.0
	found := false
	for _, e := range ents {
		if e.Type != constants.EntityMoney {
			continue
		}
		v, ok := amountValue(e)
		if !ok {
			continue
		}
		if !found || v > bestVal {
			best, bestVal, found = e.Value, v, true
		}
	}
	return best, found
}

// amountValue parses the numeric part of a normalized "CODE amount" value;
// raw-flagged entities fall back to stripping non-numeric characters.
func amountValue(e entity.Entity) (float64, bool) {
	s := e.Value
	if e.Normalization == constants.NormOK {
		if i := strings.LastIndexByte(s, ' '); i >= 0 {
			s = s[i+1:]
		}
	} else {
		s = strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' {
				return r
			}
			return -1
		}, s)
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
