package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"

	"docpipe/constants"
)

// dateLayouts is the fixed set of accepted input formats. Canonical output is
// always YYYY-MM-DD.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"01-02-2006",
	"1-2-2006",
	"01.02.2006",
	"1.2.2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

var (
	reMonthDot  = regexp.MustCompile(`^([A-Za-z]+)\.`)
	reThousands = regexp.MustCompile(`,`)
	reNonDigit  = regexp.MustCompile(`\D`)
)

// symbol -> ISO 4217 code for the currencies the amount regexes recognize.
var currencySymbols = map[string]currency.Unit{
	"$": currency.USD,
	"£": currency.GBP,
	"€": currency.EUR,
}

// normalize canonicalizes a span value by type. ok=false means the value was
// unparseable; the caller keeps the raw span instead of dropping the entity.
func normalize(typ constants.EntityType, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	switch typ {
	case constants.EntityDate:
		return normalizeDate(raw)
	case constants.EntityMoney:
		return normalizeAmount(raw)
	case constants.EntityEmail:
		return strings.ToLower(raw), true
	case constants.EntityPhone:
		return normalizePhone(raw)
	default:
		return raw, true
	}
}

func normalizeDate(raw string) (string, bool) {
	// "Mar. 5, 2021" -> "Mar 5, 2021" so the abbreviated layout matches
	candidate := reMonthDot.ReplaceAllString(raw, "$1")
	candidate = strings.Join(strings.Fields(candidate), " ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// normalizeAmount strips currency markers and thousands separators and
// renders "CODE amount" with two decimals, e.g. "USD 1234.56".
func normalizeAmount(raw string) (string, bool) {
	unit := currency.USD
	s := raw

	for sym, u := range currencySymbols {
		if strings.Contains(s, sym) {
			unit = u
			s = strings.ReplaceAll(s, sym, "")
		}
	}
	// leading ISO code, e.g. "USD 100.00"
	fields := strings.Fields(s)
	if len(fields) > 1 {
		if u, err := currency.ParseISO(fields[0]); err == nil {
			unit = u
			fields = fields[1:]
		}
	}
	s = strings.TrimSpace(strings.Join(fields, ""))
	s = reThousands.ReplaceAllString(s, "")
	if s == "" {
		return "", false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s %.2f", unit.String(), v), true
}

func normalizePhone(raw string) (string, bool) {
	plus := strings.HasPrefix(strings.TrimSpace(raw), "+")
	digits := reNonDigit.ReplaceAllString(raw, "")
	if len(digits) < 10 {
		return "", false
	}
	if plus {
		return "+" + digits, true
	}
	return digits, true
}
