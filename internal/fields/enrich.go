package fields

// vendorDB maps known vendors to master-data attributes. A real deployment
// would source this from a reference service.
var vendorDB = map[string]map[string]string{
	"myOnsite Healthcare LLC": {
		"vendor_id": "VEND-001",
		"domain":    "healthcare",
	},
}

// enrich merges master-data attributes for recognized vendors into the mapped
// fields. Existing keys are not overwritten.
func enrich(fields map[string]string) {
	company, ok := fields["company_name"]
	if !ok {
		return
	}
	for k, v := range vendorDB[company] {
		if _, exists := fields[k]; !exists {
			fields[k] = v
		}
	}
}
