package fields

import "strings"

// scoreFields assigns a per-field confidence and reports whether every
// required field is present. Dates and amounts score higher because their
// values went through type-specific normalization.
func scoreFields(fields map[string]string, required []string) (map[string]float32, bool) {
	conf := make(map[string]float32, len(required))
	valid := true

	for _, key := range required {
		val, present := fields[key]
		present = present && strings.TrimSpace(val) != ""
		switch {
		case !present:
			valid = false
			conf[key] = 0.0
		case strings.HasSuffix(key, "date"):
			conf[key] = 0.9
		case strings.HasSuffix(key, "amount"):
			conf[key] = 0.92
		default:
			conf[key] = 0.85
		}
	}
	return conf, valid
}

// aggregateConfidence is the mean of the per-field scores.
func aggregateConfidence(conf map[string]float32) float32 {
	if len(conf) == 0 {
		return 0.0
	}
	var sum float32
	for _, v := range conf {
		sum += v
	}
	return sum / float32(len(conf))
}
