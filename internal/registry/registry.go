// Package registry holds the static visibility rules between domains and
// their leaf capabilities. The tables are fixed at build time; a Registry
// value is constructed once at startup and passed by reference so no
// process-wide mutable state hides behind package globals.
package registry

// Domain names. Each has exactly one coordinator.
const (
	DomainTracking      = "TRACKING_EXECUTION"
	DomainCommunication = "COMMUNICATION_COLLABORATION"
	DomainLearning      = "LEARNING_IMPROVEMENT"
)

// Capability names.
const (
	CapActionItemExtraction = "action_item_extraction"
	CapActionItemValidation = "action_item_validation"
	CapActionItemTracking   = "action_item_tracking"
	CapRiskExtraction       = "risk_extraction"
	CapRiskTracking         = "risk_tracking"
	CapIssueExtraction      = "issue_extraction"
	CapIssueTracking        = "issue_tracking"
	CapDecisionExtraction   = "decision_extraction"
	CapDecisionTracking     = "decision_tracking"

	CapQnA             = "qna"
	CapReport          = "report_generation"
	CapDelivery        = "message_delivery"
	CapMeeting         = "meeting_attendance"
	CapInstructionLearning = "instruction_led_learning"

	// Cross-cutting: reachable directly by the planner, visible to every
	// domain.
	CapKnowledgeRetrieval = "knowledge_retrieval"
	CapEvaluation         = "evaluation"
)

// Registry answers capability visibility questions for coordinators and
// the planner. Pure lookups over static tables; no failure modes.
type Registry struct {
	byDomain     map[string][]string
	crossCutting []string
}

// New builds the registry with the fixed visibility tables.
func New() *Registry {
	return &Registry{
		byDomain: map[string][]string{
			DomainTracking: {
				CapActionItemExtraction,
				CapActionItemValidation,
				CapActionItemTracking,
				CapRiskExtraction,
				CapRiskTracking,
				CapIssueExtraction,
				CapIssueTracking,
				CapDecisionExtraction,
				CapDecisionTracking,
			},
			DomainCommunication: {
				CapQnA,
				CapReport,
				CapDelivery,
				CapMeeting,
			},
			DomainLearning: {
				CapInstructionLearning,
			},
		},
		crossCutting: []string{
			CapKnowledgeRetrieval,
			CapEvaluation,
		},
	}
}

// Visible returns the ordered capability set a domain coordinator may
// invoke: its domain-specific capabilities followed by the cross-cutting
// set. Unknown domains see only the cross-cutting capabilities.
func (r *Registry) Visible(domain string) []string {
	own := r.byDomain[domain]
	out := make([]string, 0, len(own)+len(r.crossCutting))
	out = append(out, own...)
	out = append(out, r.crossCutting...)
	return out
}

// CrossCutting returns the fixed cross-cutting capability set.
func (r *Registry) CrossCutting() []string {
	out := make([]string, len(r.crossCutting))
	copy(out, r.crossCutting)
	return out
}

// IsCrossCutting reports whether a capability is reachable directly by
// the planner without going through a domain coordinator.
func (r *Registry) IsCrossCutting(name string) bool {
	for _, c := range r.crossCutting {
		if c == name {
			return true
		}
	}
	return false
}

// Domains returns the known domain names in a fixed order.
func (r *Registry) Domains() []string {
	return []string{DomainTracking, DomainCommunication, DomainLearning}
}

// HasDomain reports whether a domain name is registered.
func (r *Registry) HasDomain(domain string) bool {
	_, ok := r.byDomain[domain]
	return ok
}
