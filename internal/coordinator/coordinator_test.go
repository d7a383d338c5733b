package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"nion/internal/capability"
	"nion/internal/registry"
	"nion/internal/types"
)

func newTestSet(t *testing.T) (*Set, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	return NewSet(registry.New(), capability.NewQnA(nil), zap.New(core)), logs
}

func dispatch(t *testing.T, set *Set, domain, purpose string) *types.Task {
	t.Helper()
	c, ok := set.For(domain)
	require.True(t, ok)
	task := &types.Task{ID: "TASK-001", Target: types.DomainTarget(domain), Purpose: purpose, Status: types.TaskPending}
	c.Coordinate(task, "Please review and fix the login bug", "PRJ-ALPHA", types.Context{})
	return task
}

func TestTrackingRoutes(t *testing.T) {
	set, _ := newTestSet(t)
	tests := []struct {
		purpose string
		wantCap string
	}{
		{"Extract action items from request", registry.CapActionItemExtraction},
		{"Extract risks from escalation", registry.CapRiskExtraction},
		{"Extract issues from meeting", registry.CapIssueExtraction},
		{"Extract decision needed", registry.CapDecisionExtraction},
	}
	for _, tt := range tests {
		t.Run(tt.purpose, func(t *testing.T) {
			task := dispatch(t, set, registry.DomainTracking, tt.purpose)
			require.Len(t, task.Subtasks, 1)
			assert.Equal(t, tt.wantCap, task.Subtasks[0].Target.Name)
			assert.Equal(t, types.TaskCompleted, task.Status)
			assert.Equal(t, types.TaskCompleted, task.Subtasks[0].Status)
			assert.NotEmpty(t, task.Subtasks[0].Output)
		})
	}
}

func TestCommunicationRouteOrdering(t *testing.T) {
	set, _ := newTestSet(t)
	tests := []struct {
		purpose string
		wantCap string
	}{
		// send/deliver wins over response even when both appear.
		{"Send response to sender", registry.CapDelivery},
		{"Formulate status response", registry.CapQnA},
		{"Generate meeting summary report", registry.CapReport},
		// meeting is checked before the generic response keywords.
		{"Process meeting transcript", registry.CapMeeting},
	}
	for _, tt := range tests {
		t.Run(tt.purpose, func(t *testing.T) {
			task := dispatch(t, set, registry.DomainCommunication, tt.purpose)
			require.Len(t, task.Subtasks, 1)
			assert.Equal(t, tt.wantCap, task.Subtasks[0].Target.Name)
		})
	}
}

func TestLearningRoute(t *testing.T) {
	set, _ := newTestSet(t)
	task := dispatch(t, set, registry.DomainLearning, "Learn from these instructions")
	require.Len(t, task.Subtasks, 1)
	assert.Equal(t, registry.CapInstructionLearning, task.Subtasks[0].Target.Name)
}

func TestUnmappedPurposeUsesDefaultWithDiagnostic(t *testing.T) {
	set, logs := newTestSet(t)

	task := dispatch(t, set, registry.DomainTracking, "Transmogrify the widgets")
	require.Len(t, task.Subtasks, 1)
	assert.Equal(t, registry.CapActionItemExtraction, task.Subtasks[0].Target.Name)
	assert.Equal(t, types.TaskCompleted, task.Status)
	assert.NotEmpty(t, task.Subtasks[0].Output)

	// The fallback records a diagnostic notice.
	entries := logs.FilterMessageSnippet("could not map task purpose").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Transmogrify the widgets", entries[0].ContextMap()["purpose"])
}

func TestSubtaskIDDerivation(t *testing.T) {
	set, _ := newTestSet(t)
	c, _ := set.For(registry.DomainTracking)

	task := &types.Task{ID: "TASK-007", Target: types.DomainTarget(registry.DomainTracking), Purpose: "Extract risks", Status: types.TaskPending}
	c.Coordinate(task, "deadline concerns", "", types.Context{})

	require.Len(t, task.Subtasks, 1)
	assert.Equal(t, "TASK-007-A", task.Subtasks[0].ID)
	assert.Equal(t, "TASK-007", task.ID)
}

func TestForUnknownDomain(t *testing.T) {
	set, _ := newTestSet(t)
	_, ok := set.For("PLATFORM")
	assert.False(t, ok)
}

func TestVisibleIsInformational(t *testing.T) {
	set, _ := newTestSet(t)
	c, _ := set.For(registry.DomainLearning)
	assert.Equal(t, []string{
		registry.CapInstructionLearning,
		registry.CapKnowledgeRetrieval,
		registry.CapEvaluation,
	}, c.Visible())
}
