// Package audit keeps an append-only JSONL trail of message processing.
// Each processed message contributes a received event, one event per
// executed task, and a final outcome event. The file is safe for
// concurrent writers within one process.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"nion/internal/types"
)

// EventType labels one audit record.
type EventType string

const (
	EventMessageReceived  EventType = "message_received"
	EventTaskExecuted     EventType = "task_executed"
	EventMessageProcessed EventType = "message_processed"
	EventMessageFailed    EventType = "message_failed"
)

// Event is one line of the audit trail.
type Event struct {
	Timestamp int64     `json:"ts"` // Unix milliseconds
	Type      EventType `json:"type"`
	MessageID string    `json:"message_id"`
	Intent    string    `json:"intent,omitempty"`
	TaskID    string    `json:"task_id,omitempty"`
	Target    string    `json:"target,omitempty"`
	Status    string    `json:"status,omitempty"`
	TaskCount int       `json:"task_count,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Trail writes audit events to a JSONL file.
type Trail struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	now  func() time.Time
}

// Open appends to the audit file at path, creating parent directories
// as needed.
func Open(path string) (*Trail, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &Trail{file: file, enc: json.NewEncoder(file), now: time.Now}, nil
}

// Close flushes and closes the underlying file.
func (t *Trail) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file.Close()
}

func (t *Trail) log(event Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	event.Timestamp = t.now().UnixMilli()
	// A failed write must not abort message processing.
	_ = t.enc.Encode(event)
}

// MessageReceived records the arrival of a message.
func (t *Trail) MessageReceived(msg *types.Message) {
	t.log(Event{Type: EventMessageReceived, MessageID: msg.ID})
}

// Result records the full outcome of one processed message: every task
// with its final status, then the summary event.
func (t *Trail) Result(result *types.Result) {
	for _, task := range result.ExecutedTasks {
		t.log(Event{
			Type:      EventTaskExecuted,
			MessageID: result.Message.ID,
			TaskID:    task.ID,
			Target:    task.Target.String(),
			Status:    string(task.Status),
		})
	}
	t.log(Event{
		Type:      EventMessageProcessed,
		MessageID: result.Message.ID,
		TaskCount: len(result.ExecutedTasks),
	})
}

// Failure records a message that could not be processed.
func (t *Trail) Failure(messageID string, err error) {
	t.log(Event{Type: EventMessageFailed, MessageID: messageID, Error: err.Error()})
}
