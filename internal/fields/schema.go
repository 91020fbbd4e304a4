package fields

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// invoiceRequired lists the fields an invoice must carry to be valid.
var invoiceRequired = []string{"company_name", "invoice_number", "invoice_date", "total_amount"}

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map; it is compiled once and used to validate mapped invoice fields.
func BuildInvoiceJSONSchema() map[string]any {
	props := map[string]any{
		"company_name":   map[string]any{"type": "string", "minLength": 1},
		"invoice_number": map[string]any{"type": "string", "pattern": `^[A-Za-z0-9-]+$`},
		"invoice_date":   map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"total_amount":   map[string]any{"type": "string", "minLength": 1},
		"vendor_id":      map[string]any{"type": "string"},
		"domain":         map[string]any{"type": "string"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             invoiceRequired,
	}
}

func compileInvoiceSchema() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(BuildInvoiceJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("invoice.schema.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return c.Compile("invoice.schema.json")
}

// validateAgainstSchema round-trips the fields through JSON and validates.
// Schema violations are advisory: the result keeps the fields but Valid flips
// so routing can send the document to review.
func validateAgainstSchema(sch *jsonschema.Schema, fields map[string]string) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return sch.Validate(v)
}
