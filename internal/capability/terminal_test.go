package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nion/internal/types"
)

func TestEvaluationChecklist(t *testing.T) {
	out := Evaluation{}.Execute(Request{Content: "anything"})
	assert.Equal(t, []string{
		"Relevance: PASS",
		"Accuracy: PASS",
		"Tone: PASS",
		"Gaps Acknowledged: PASS",
		"Result: APPROVED",
	}, out)
}

func TestMessageDelivery(t *testing.T) {
	out := MessageDelivery{}.Execute(Request{
		Content: "response body",
		Context: types.Context{
			types.CtxSource:     {"slack"},
			types.CtxSenderName: {"Priya Sharma"},
			types.CtxCCList:     {"Alex Kim", "David Park"},
		},
	})
	assert.Equal(t, []string{
		"Channel: slack",
		"Recipient: Priya Sharma",
		"CC: Alex Kim, David Park",
		"Delivery Status: SENT",
	}, out)
}

func TestMessageDeliveryDefaults(t *testing.T) {
	out := MessageDelivery{}.Execute(Request{Content: "response body"})
	assert.Equal(t, []string{
		"Channel: email",
		"Recipient: Unknown",
		"Delivery Status: SENT",
	}, out)
}

func TestFixedShapeCapabilities(t *testing.T) {
	assert.Len(t, ReportGeneration{}.Execute(Request{}), 4)
	assert.Len(t, MeetingAttendance{}.Execute(Request{}), 4)
	assert.Len(t, InstructionLearning{}.Execute(Request{}), 3)
}
