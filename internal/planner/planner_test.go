package planner

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nion/internal/perception"
	"nion/internal/registry"
	"nion/internal/types"
)

// fixedClassifier always returns the same intent.
type fixedClassifier struct {
	intent types.Intent
}

func (f fixedClassifier) Classify(context.Context, *types.Message) types.Classification {
	return types.Classification{Intent: f.intent, Urgency: "medium", Reasoning: "fixed"}
}

func testMessage(content string) *types.Message {
	return &types.Message{
		ID:      "MSG-001",
		Source:  "email",
		Sender:  types.Sender{Name: "Priya Sharma", Role: "Product Manager"},
		Content: content,
	}
}

func planFor(t *testing.T, intent types.Intent) *types.Plan {
	t.Helper()
	p := New(fixedClassifier{intent: intent}, zap.NewNop())
	plan, err := p.Plan(context.Background(), testMessage("hello"))
	require.NoError(t, err)
	return plan
}

func taskIDs(plan *types.Plan) []string {
	ids := make([]string, len(plan.Tasks))
	for i, task := range plan.Tasks {
		ids[i] = task.ID
	}
	return ids
}

func TestCounterResetsPerCall(t *testing.T) {
	p := New(fixedClassifier{intent: types.IntentStatusQuery}, zap.NewNop())

	first, err := p.Plan(context.Background(), testMessage("What's our status?"))
	require.NoError(t, err)
	second, err := p.Plan(context.Background(), testMessage("What's our status now?"))
	require.NoError(t, err)

	want := []string{"TASK-001", "TASK-002", "TASK-003", "TASK-004"}
	assert.Empty(t, cmp.Diff(want, taskIDs(first)))
	assert.Empty(t, cmp.Diff(want, taskIDs(second)))
}

func TestDependenciesOnlyPointBackwards(t *testing.T) {
	intents := []types.Intent{
		types.IntentStatusQuery, types.IntentFeasibilityQuery, types.IntentDecisionRequest,
		types.IntentEscalation, types.IntentMeetingUpdate, types.IntentGeneral,
	}
	for _, intent := range intents {
		t.Run(string(intent), func(t *testing.T) {
			plan := planFor(t, intent)
			seen := map[string]bool{}
			for _, task := range plan.Tasks {
				for _, dep := range task.DependsOn {
					assert.True(t, seen[dep], "task %s references %s which is not earlier in the plan", task.ID, dep)
				}
				seen[task.ID] = true
			}
		})
	}
}

func TestStatusQueryShape(t *testing.T) {
	plan := planFor(t, types.IntentStatusQuery)
	require.Len(t, plan.Tasks, 4)

	knowledge, tracked, formulate, send := plan.Tasks[0], plan.Tasks[1], plan.Tasks[2], plan.Tasks[3]

	assert.Equal(t, types.CapabilityTarget(registry.CapKnowledgeRetrieval), knowledge.Target)
	assert.True(t, knowledge.CrossCutting)
	assert.Empty(t, knowledge.DependsOn)

	assert.Equal(t, types.DomainTarget(registry.DomainTracking), tracked.Target)
	assert.False(t, tracked.CrossCutting)

	assert.Equal(t, []string{knowledge.ID, tracked.ID}, formulate.DependsOn)
	assert.Equal(t, []string{formulate.ID}, send.DependsOn)
}

func TestFeasibilityQueryShape(t *testing.T) {
	plan := planFor(t, types.IntentFeasibilityQuery)
	require.Len(t, plan.Tasks, 7)

	formulate := plan.Tasks[4]
	assert.Equal(t, []string{"TASK-001", "TASK-002", "TASK-003", "TASK-004"}, formulate.DependsOn)

	evaluate := plan.Tasks[5]
	assert.Equal(t, types.CapabilityTarget(registry.CapEvaluation), evaluate.Target)
	assert.True(t, evaluate.CrossCutting)
	assert.Equal(t, []string{formulate.ID}, evaluate.DependsOn)

	send := plan.Tasks[6]
	assert.Equal(t, []string{evaluate.ID}, send.DependsOn)

	// First tier: three tracking extractions plus knowledge retrieval,
	// all independent.
	for _, task := range plan.Tasks[:4] {
		assert.Empty(t, task.DependsOn)
	}
}

func TestDecisionRequestShape(t *testing.T) {
	plan := planFor(t, types.IntentDecisionRequest)
	require.Len(t, plan.Tasks, 4)
	assert.Equal(t, []string{"TASK-001", "TASK-002"}, plan.Tasks[2].DependsOn)
	assert.Equal(t, []string{"TASK-003"}, plan.Tasks[3].DependsOn)
}

func TestEscalationShape(t *testing.T) {
	plan := planFor(t, types.IntentEscalation)
	require.Len(t, plan.Tasks, 5)
	assert.Equal(t, []string{"TASK-001", "TASK-002", "TASK-003"}, plan.Tasks[3].DependsOn)
	assert.Equal(t, []string{"TASK-004"}, plan.Tasks[4].DependsOn)
}

func TestMeetingUpdateShape(t *testing.T) {
	plan := planFor(t, types.IntentMeetingUpdate)
	require.Len(t, plan.Tasks, 5)

	summary := plan.Tasks[4]
	assert.Equal(t, []string{"TASK-001", "TASK-002", "TASK-003", "TASK-004"}, summary.DependsOn)
	assert.Equal(t, types.DomainTarget(registry.DomainCommunication), summary.Target)
}

func TestGeneralRequestShape(t *testing.T) {
	plan := planFor(t, types.IntentGeneral)
	require.Len(t, plan.Tasks, 3)
	assert.Equal(t, []string{"TASK-001", "TASK-002"}, plan.Tasks[2].DependsOn)
}

func TestUnknownIntentFallsBackToGeneral(t *testing.T) {
	plan := planFor(t, types.Intent("small_talk"))
	assert.Len(t, plan.Tasks, 3)
}

func TestPlanRejectsInvalidMessage(t *testing.T) {
	p := New(fixedClassifier{intent: types.IntentGeneral}, zap.NewNop())
	_, err := p.Plan(context.Background(), &types.Message{ID: "MSG-002"})
	assert.ErrorIs(t, err, types.ErrInvalidMessage)
}

func TestPlannerUsesRuleClassifier(t *testing.T) {
	p := New(perception.NewRuleClassifier(), zap.NewNop())

	plan, err := p.Plan(context.Background(), testMessage("Can we ship the login feature by Friday?"))
	require.NoError(t, err)
	assert.Len(t, plan.Tasks, 7)
}
