package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nion/internal/types"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		events = append(events, ev)
	}
	require.NoError(t, scanner.Err())
	return events
}

func TestTrailRecordsResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.jsonl")
	trail, err := Open(path)
	require.NoError(t, err)
	trail.now = func() time.Time { return time.UnixMilli(1700000000000) }

	msg := &types.Message{ID: "MSG-001", Content: "status?"}
	trail.MessageReceived(msg)
	trail.Result(&types.Result{
		Message: msg,
		ExecutedTasks: []*types.Task{
			{ID: "TASK-001", Target: types.CapabilityTarget("knowledge_retrieval"), Status: types.TaskCompleted},
			{ID: "TASK-002", Target: types.DomainTarget("TRACKING_EXECUTION"), Status: types.TaskCompleted},
		},
	})
	require.NoError(t, trail.Close())

	events := readEvents(t, path)
	require.Len(t, events, 4)
	assert.Equal(t, EventMessageReceived, events[0].Type)
	assert.Equal(t, "MSG-001", events[0].MessageID)

	assert.Equal(t, EventTaskExecuted, events[1].Type)
	assert.Equal(t, "TASK-001", events[1].TaskID)
	assert.Equal(t, "L3:knowledge_retrieval", events[1].Target)
	assert.Equal(t, "COMPLETED", events[1].Status)
	assert.Equal(t, "L2:TRACKING_EXECUTION", events[2].Target)

	assert.Equal(t, EventMessageProcessed, events[3].Type)
	assert.Equal(t, 2, events[3].TaskCount)
	assert.Equal(t, int64(1700000000000), events[3].Timestamp)
}

func TestTrailRecordsFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	trail, err := Open(path)
	require.NoError(t, err)

	trail.Failure("MSG-002", assert.AnError)
	require.NoError(t, trail.Close())

	events := readEvents(t, path)
	require.Len(t, events, 1)
	assert.Equal(t, EventMessageFailed, events[0].Type)
	assert.Equal(t, assert.AnError.Error(), events[0].Error)
}

func TestTrailAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	for _, id := range []string{"MSG-001", "MSG-002"} {
		trail, err := Open(path)
		require.NoError(t, err)
		trail.MessageReceived(&types.Message{ID: id})
		require.NoError(t, trail.Close())
	}

	events := readEvents(t, path)
	require.Len(t, events, 2)
	assert.Equal(t, "MSG-001", events[0].MessageID)
	assert.Equal(t, "MSG-002", events[1].MessageID)
}
