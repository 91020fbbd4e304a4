package constants

import (
	"strings"
)

// DocType is the closed set of document-type labels the classifier may emit.
type DocType string

const (
	Invoice       DocType = "Invoice"
	Resume        DocType = "Resume"
	MedicalReport DocType = "MedicalReport"
	Contract      DocType = "Contract"
	Unknown       DocType = "Unknown"
)

var allDocTypes = []DocType{
	Invoice,
	Resume,
	MedicalReport,
	Contract,
	Unknown,
}

// Canonicalize maps free-form labels onto the closed DocType set.
func Canonicalize(input string) (DocType, bool) {
	if input == "" {
		return Unknown, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]DocType{
		"bill":           Invoice,
		"receipt":        Invoice,
		"cv":             Resume,
		"curriculum":     Resume,
		"medical record": MedicalReport,
		"lab report":     MedicalReport,
		"agreement":      Contract,
		"lease":          Contract,
	}

	if dt, ok := synonyms[normalized]; ok {
		return dt, true
	}

	for _, dt := range allDocTypes {
		if normalized == strings.ToLower(string(dt)) {
			return dt, true
		}
	}

	return Unknown, false
}
