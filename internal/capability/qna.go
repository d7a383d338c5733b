package capability

import (
	"context"
	"fmt"
	"strings"

	"nion/internal/articulation"
	"nion/internal/registry"
	"nion/internal/types"
)

// QnA formulates a response to the sender. It tries the synthesizer
// first; when that declines it builds the deterministic three-section
// gap-aware template from the context map, or a one-line acknowledgment
// when the message carries no question.
type QnA struct {
	synth articulation.Synthesizer
}

// NewQnA builds the response-formulation capability. synth may be nil,
// which behaves like a synthesizer that always declines.
func NewQnA(synth articulation.Synthesizer) *QnA {
	if synth == nil {
		synth = articulation.Decline{}
	}
	return &QnA{synth: synth}
}

func (q *QnA) Name() string { return registry.CapQnA }

func (q *QnA) Execute(req Request) []string {
	if text, ok := q.synth.Attempt(context.Background(), req.Context, req.Content); ok {
		return []string{fmt.Sprintf("Response: %q", text)}
	}
	return q.template(req)
}

// template is the deterministic fallback: what is known, what is logged,
// what is needed.
func (q *QnA) template(req Request) []string {
	if !strings.Contains(req.Content, "?") {
		return []string{`Response: "Message acknowledged and processed."`}
	}

	lines := []string{
		`Response: "Regarding your question:`,
		"",
		"  WHAT I KNOW:",
	}

	if knowledge := req.Context[types.CtxKnowledge]; len(knowledge) > 0 {
		limit := len(knowledge)
		if limit > 4 {
			limit = 4
		}
		for _, item := range knowledge[:limit] {
			lines = append(lines, "  • "+item)
		}
	} else {
		lines = append(lines, "  • Limited project context available")
	}

	lines = append(lines, "", "  WHAT I'VE LOGGED:")
	if items := req.Context[types.CtxActionItems]; len(items) > 0 {
		lines = append(lines, fmt.Sprintf("  • %d action items logged", len(items)))
	}
	if risks := req.Context[types.CtxRisks]; len(risks) > 0 {
		lines = append(lines, fmt.Sprintf("  • %d risks flagged", len(risks)))
	}
	if decisions := req.Context[types.CtxDecisions]; len(decisions) > 0 {
		lines = append(lines, fmt.Sprintf("  • %d decisions pending", len(decisions)))
	}

	lines = append(lines,
		"",
		"  WHAT I NEED:",
		"  • Additional context from relevant stakeholders",
		"  • Clarification on specific requirements or constraints",
		"",
		`  I will provide a more complete answer once I have the above information."`,
	)
	return lines
}
