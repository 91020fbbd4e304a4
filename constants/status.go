package constants

// StageStatus records how a single stage ended for one page or for the document.
type StageStatus string

// Stable values (serialized into DocumentResult status records).
const (
	StageOK       StageStatus = "ok"       // stage completed, output above quality bar
	StageDegraded StageStatus = "degraded" // stage completed, output below quality bar
	StageFailed   StageStatus = "failed"   // stage raised execution errors only
	StageSkipped  StageStatus = "skipped"  // stage disabled or unreachable
)

// DocState is the orchestrator's per-document state machine.
type DocState string

const (
	DocPending       DocState = "PENDING"
	DocRasterized    DocState = "RASTERIZED"
	DocTextExtracted DocState = "TEXT_EXTRACTED"
	DocAnalyzed      DocState = "ANALYZED" // classified + entities extracted
	DocCompleted     DocState = "COMPLETED"
	DocFailed        DocState = "FAILED"
)

// transitions lists the legal moves. Failed is reachable from Pending and
// Rasterized only; later stages degrade instead of aborting.
var transitions = map[DocState][]DocState{
	DocPending:       {DocRasterized, DocFailed},
	DocRasterized:    {DocTextExtracted, DocFailed},
	DocTextExtracted: {DocAnalyzed},
	DocAnalyzed:      {DocCompleted},
}

// CanTransition reports whether moving from s to next is legal.
func (s DocState) CanTransition(next DocState) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s DocState) Terminal() bool {
	return len(transitions[s]) == 0
}

// Route is the downstream routing decision for a processed document.
type Route string

const (
	RouteAutoApprove Route = "auto_approve"
	RouteHumanReview Route = "human_review"
)
