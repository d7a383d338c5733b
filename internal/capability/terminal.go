package capability

import (
	"fmt"
	"strings"

	"nion/internal/registry"
	"nion/internal/types"
)

// Evaluation is a fixed pre-delivery checklist culminating in an approval
// verdict. It does not actually validate the response yet; the output
// shape is a placeholder policy and tests pin it as such.
type Evaluation struct{}

func (Evaluation) Name() string { return registry.CapEvaluation }

func (Evaluation) Execute(Request) []string {
	return []string{
		"Relevance: PASS",
		"Accuracy: PASS",
		"Tone: PASS",
		"Gaps Acknowledged: PASS",
		"Result: APPROVED",
	}
}

// MessageDelivery reports the channel, recipient and cc list a response
// would be sent through. No real transport is attached in this design.
type MessageDelivery struct{}

func (MessageDelivery) Name() string { return registry.CapDelivery }

func (MessageDelivery) Execute(req Request) []string {
	source := firstOr(req.Context[types.CtxSource], "email")
	recipient := firstOr(req.Context[types.CtxSenderName], "Unknown")

	out := []string{
		fmt.Sprintf("Channel: %s", source),
		fmt.Sprintf("Recipient: %s", recipient),
	}
	if cc := req.Context[types.CtxCCList]; len(cc) > 0 {
		out = append(out, fmt.Sprintf("CC: %s", strings.Join(cc, ", ")))
	}
	return append(out, "Delivery Status: SENT")
}

// ReportGeneration emits the fixed status-summary report descriptor.
type ReportGeneration struct{}

func (ReportGeneration) Name() string { return registry.CapReport }

func (ReportGeneration) Execute(Request) []string {
	return []string{
		"Report Type: Status Summary",
		"Format: Structured text",
		"Sections: Overview, Action Items, Risks, Next Steps",
		"Status: Generated successfully",
	}
}

// MeetingAttendance processes a meeting transcript into minutes.
type MeetingAttendance struct{}

func (MeetingAttendance) Name() string { return registry.CapMeeting }

func (MeetingAttendance) Execute(Request) []string {
	return []string{
		"Meeting transcript processed",
		"Participants identified: 4",
		"Key topics extracted: 3",
		"Minutes generated successfully",
	}
}

// InstructionLearning records an instruction into the knowledge base.
type InstructionLearning struct{}

func (InstructionLearning) Name() string { return registry.CapInstructionLearning }

func (InstructionLearning) Execute(Request) []string {
	return []string{
		"Instruction processed and stored",
		"Knowledge base updated",
		"SOP created successfully",
	}
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 && values[0] != "" {
		return values[0]
	}
	return fallback
}
