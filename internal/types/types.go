// Package types defines the shared data model for the orchestration
// pipeline: the inbound message, the planned task graph, and the result
// object that the report layer renders.
//
// Task state flows PENDING -> IN_PROGRESS -> COMPLETED | FAILED. The
// engine owns the working copy of every task during a run; coordinators
// and capabilities receive borrowed message content and return owned
// output slices that the engine attaches.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMessage is returned when an inbound message is missing
// required fields. Validation happens before planning begins.
var ErrInvalidMessage = errors.New("invalid input message")

// TaskStatus represents the lifecycle state of a task or subtask.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskFailed     TaskStatus = "FAILED"
)

// Intent labels produced by the classifier. The planner maps every label
// to a fixed plan shape; anything unrecognized plans as IntentGeneral.
type Intent string

const (
	IntentStatusQuery      Intent = "status_query"
	IntentFeasibilityQuery Intent = "feasibility_query"
	IntentDecisionRequest  Intent = "decision_request"
	IntentEscalation       Intent = "escalation"
	IntentMeetingUpdate    Intent = "meeting_update"
	IntentGeneral          Intent = "general_request"
)

// TargetKind discriminates the two routing modes for a task.
type TargetKind string

const (
	// TargetDomain routes the task through a domain coordinator.
	TargetDomain TargetKind = "domain"
	// TargetCapability routes the task directly to a cross-cutting
	// capability, bypassing coordinators.
	TargetCapability TargetKind = "capability"
)

// TaskTarget is a closed, tagged reference to either a domain or a
// capability. The engine switches on Kind exhaustively at dispatch.
type TaskTarget struct {
	Kind TargetKind `json:"kind"`
	Name string     `json:"name"`
}

// DomainTarget builds a coordinator-routed target.
func DomainTarget(domain string) TaskTarget {
	return TaskTarget{Kind: TargetDomain, Name: domain}
}

// CapabilityTarget builds a directly-routed capability target.
func CapabilityTarget(name string) TaskTarget {
	return TaskTarget{Kind: TargetCapability, Name: name}
}

// String renders the target in the L2:/L3: wire form the report uses.
func (t TaskTarget) String() string {
	switch t.Kind {
	case TargetDomain:
		return "L2:" + t.Name
	case TargetCapability:
		return "L3:" + t.Name
	default:
		return t.Name
	}
}

// Sender identifies who authored a message.
type Sender struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Message is a single inbound message. Immutable once received.
type Message struct {
	ID      string `json:"message_id"`
	Source  string `json:"source"`
	Sender  Sender `json:"sender"`
	Content string `json:"content"`
	Project string `json:"project,omitempty"`
}

// Validate checks the fields planning depends on. A message that fails
// here is rejected before any task is created.
func (m *Message) Validate() error {
	switch {
	case strings.TrimSpace(m.ID) == "":
		return fmt.Errorf("%w: missing message_id", ErrInvalidMessage)
	case strings.TrimSpace(m.Content) == "":
		return fmt.Errorf("%w: missing content", ErrInvalidMessage)
	case strings.TrimSpace(m.Sender.Name) == "":
		return fmt.Errorf("%w: missing sender name", ErrInvalidMessage)
	case strings.TrimSpace(m.Source) == "":
		return fmt.Errorf("%w: missing source", ErrInvalidMessage)
	}
	return nil
}

// Task is a planned unit of work. IDs are unique within one planning run
// (TASK-001, TASK-002, ...). DependsOn only ever names tasks that appear
// earlier in the same plan, so plans are acyclic by construction.
type Task struct {
	ID           string     `json:"task_id"`
	Target       TaskTarget `json:"target"`
	Purpose      string     `json:"purpose"`
	DependsOn    []string   `json:"depends_on,omitempty"`
	Status       TaskStatus `json:"status"`
	Output       []string   `json:"output,omitempty"`
	Subtasks     []*Task    `json:"subtasks,omitempty"`
	CrossCutting bool       `json:"is_cross_cutting,omitempty"`
}

// SubtaskSuffix is appended to a parent task id to form its subtask id.
// A coordinator attaches at most one subtask per dispatched task.
const SubtaskSuffix = "-A"

// NewSubtask creates the child task a coordinator records for the
// capability it ran. The parent's own id is never mutated.
func NewSubtask(parent *Task, capability, purpose string) *Task {
	return &Task{
		ID:      parent.ID + SubtaskSuffix,
		Target:  CapabilityTarget(capability),
		Purpose: purpose,
		Status:  TaskInProgress,
	}
}

// Plan is the ordered task graph generated for one message. Produced once
// per message and not mutated afterwards; the engine mutates the task
// instances as its working copy, not the plan's identity.
type Plan struct {
	Message *Message `json:"message"`
	Tasks   []*Task  `json:"tasks"`
}

// Result is what one full run produces: the message, its plan, and the
// task sequence in dispatch order carrying status and output.
type Result struct {
	Message       *Message `json:"message"`
	Plan          *Plan    `json:"l1_plan"`
	ExecutedTasks []*Task  `json:"executed_tasks"`
}

// Classification is the intent classifier's verdict for one message.
type Classification struct {
	Intent         Intent `json:"intent"`
	HasActionItems bool   `json:"has_action_items"`
	HasRisks       bool   `json:"has_risks"`
	HasIssues      bool   `json:"has_issues"`
	HasDecisions   bool   `json:"has_decisions"`
	Urgency        string `json:"urgency"` // low | medium | high
	Reasoning      string `json:"reasoning"`
}

// Context keys the engine files dependency outputs under when building
// the per-dispatch context map.
const (
	CtxActionItems = "action_items"
	CtxRisks       = "risks"
	CtxDecisions   = "decisions"
	CtxKnowledge   = "knowledge"
	CtxResponse    = "response"
	CtxSenderName  = "sender_name"
	CtxSource      = "source"
	CtxCCList      = "cc_list"
)

// Context is the ephemeral per-dispatch mapping from information category
// to the output lines of whichever completed dependency produced it.
// Built fresh for every dispatch; never persisted.
type Context map[string][]string
