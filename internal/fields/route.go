package fields

import "docpipe/constants"

// RouteConfig holds the aggregate-confidence thresholds for routing.
// BusinessCritical applies the stricter bar to every document; CriticalTypes
// applies it to specific document types only.
type RouteConfig struct {
	MinConfidence    float32 // default 0.88
	CriticalMin      float32 // default 0.95
	BusinessCritical bool
	CriticalTypes    map[constants.DocType]bool
}

// routeDecision sends low-confidence documents to human review; business
// critical pipelines and critical document types use the stricter threshold.
func routeDecision(cfg RouteConfig, docType constants.DocType, docConf float32) constants.Route {
	if (cfg.BusinessCritical || cfg.CriticalTypes[docType]) && docConf < cfg.CriticalMin {
		return constants.RouteHumanReview
	}
	if docConf < cfg.MinConfidence {
		return constants.RouteHumanReview
	}
	return constants.RouteAutoApprove
}
