package report

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nion/internal/capability"
	"nion/internal/coordinator"
	"nion/internal/engine"
	"nion/internal/knowledge"
	"nion/internal/perception"
	"nion/internal/planner"
	"nion/internal/registry"
	"nion/internal/types"
)

func runStatusQuery(t *testing.T) *types.Result {
	t.Helper()
	logger := zap.NewNop()
	retrieval := capability.NewKnowledgeRetrieval(knowledge.NewMemoryStore(), rand.New(rand.NewSource(1)), logger)
	e := engine.New(
		planner.New(perception.NewRuleClassifier(), logger),
		coordinator.NewSet(registry.New(), capability.NewQnA(nil), logger),
		retrieval,
		logger,
	)
	result, err := e.ProcessMessage(context.Background(), &types.Message{
		ID:      "MSG-001",
		Source:  "email",
		Sender:  types.Sender{Name: "Priya Sharma", Role: "Product Manager"},
		Content: "What's our status?",
		Project: "PRJ-ALPHA",
	})
	require.NoError(t, err)
	return result
}

func TestRenderLayout(t *testing.T) {
	out := Render(runStatusQuery(t))

	assert.Contains(t, out, "NION ORCHESTRATION MAP")
	assert.Contains(t, out, "Message: MSG-001")
	assert.Contains(t, out, "From: Priya Sharma (Product Manager)")
	assert.Contains(t, out, "Project: PRJ-ALPHA")

	// Plan section shows targets and dependency lists.
	assert.Contains(t, out, "[TASK-001] → L3:knowledge_retrieval")
	assert.Contains(t, out, "[TASK-002] → L2:TRACKING_EXECUTION")
	assert.Contains(t, out, "Depends On: TASK-001, TASK-002")
	assert.Contains(t, out, "Depends On: TASK-003")

	// Execution section: cross-cutting tasks render inline, domain
	// tasks render their subtask.
	assert.Contains(t, out, "[TASK-001] L3:knowledge_retrieval (Cross-Cutting)")
	assert.Contains(t, out, "• Current Release Date: Dec 15, 2025")
	assert.Contains(t, out, "└─▶ [TASK-002-A] L3:action_item_extraction")
	assert.Contains(t, out, "    Status: COMPLETED")
}

func TestRenderIsDeterministic(t *testing.T) {
	result := runStatusQuery(t)
	assert.Equal(t, Render(result), Render(result))
}

func TestRenderNoProject(t *testing.T) {
	result := runStatusQuery(t)
	result.Message.Project = ""
	assert.Contains(t, Render(result), "Project: N/A")
}

func TestRenderLineOrder(t *testing.T) {
	out := Render(runStatusQuery(t))

	// The plan section precedes execution, and headers appear once each.
	planIdx := strings.Index(out, "L1 PLAN")
	execIdx := strings.Index(out, "L2/L3 EXECUTION")
	require.Greater(t, planIdx, 0)
	require.Greater(t, execIdx, planIdx)
	assert.Equal(t, 1, strings.Count(out, "L1 PLAN"))
	assert.Equal(t, 1, strings.Count(out, "L2/L3 EXECUTION"))
}
