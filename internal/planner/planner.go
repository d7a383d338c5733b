// Package planner synthesizes the ordered task sequence for a classified
// message. Every intent maps to a fixed, hand-specified DAG shape;
// anything unrecognized plans as a general request, so planning is total.
//
// Task ids restart at TASK-001 for every planning call, which keeps
// plans reproducible per message, and dependency edges only ever point
// backwards, so plans are acyclic by construction.
package planner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nion/internal/perception"
	"nion/internal/registry"
	"nion/internal/types"
)

// Planner builds plans from messages. Safe to reuse across sequential
// runs; the id counter is scoped to a single Plan call, not the planner.
type Planner struct {
	classifier perception.Classifier
	logger     *zap.Logger
}

// New creates a planner over the given intent classifier.
func New(classifier perception.Classifier, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{classifier: classifier, logger: logger}
}

// Plan classifies the message and lays out the task DAG for its intent.
func (p *Planner) Plan(ctx context.Context, msg *types.Message) (*types.Plan, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	verdict := p.classifier.Classify(ctx, msg)
	p.logger.Info("planned intent",
		zap.String("message", msg.ID),
		zap.String("intent", string(verdict.Intent)),
		zap.String("urgency", verdict.Urgency),
		zap.String("reasoning", verdict.Reasoning))

	b := &builder{}
	switch verdict.Intent {
	case types.IntentStatusQuery:
		planStatusQuery(b)
	case types.IntentFeasibilityQuery:
		planFeasibilityQuery(b)
	case types.IntentDecisionRequest:
		planDecisionRequest(b)
	case types.IntentEscalation:
		planEscalation(b)
	case types.IntentMeetingUpdate:
		planMeetingUpdate(b)
	default:
		planGeneralRequest(b)
	}

	return &types.Plan{Message: msg, Tasks: b.tasks}, nil
}

// builder assigns TASK-%03d ids in creation order within one plan call.
type builder struct {
	counter int
	tasks   []*types.Task
}

func (b *builder) add(target types.TaskTarget, purpose string, deps ...*types.Task) *types.Task {
	b.counter++
	t := &types.Task{
		ID:           fmt.Sprintf("TASK-%03d", b.counter),
		Target:       target,
		Purpose:      purpose,
		Status:       types.TaskPending,
		CrossCutting: target.Kind == types.TargetCapability,
	}
	for _, dep := range deps {
		t.DependsOn = append(t.DependsOn, dep.ID)
	}
	b.tasks = append(b.tasks, t)
	return t
}

func (b *builder) domain(domain, purpose string, deps ...*types.Task) *types.Task {
	return b.add(types.DomainTarget(domain), purpose, deps...)
}

func (b *builder) capability(name, purpose string, deps ...*types.Task) *types.Task {
	return b.add(types.CapabilityTarget(name), purpose, deps...)
}

// status query: retrieve knowledge and tracked items, formulate, send.
func planStatusQuery(b *builder) {
	knowledge := b.capability(registry.CapKnowledgeRetrieval, "Retrieve project context and current status")
	tracked := b.domain(registry.DomainTracking, "Retrieve tracked action items and status")
	formulate := b.domain(registry.DomainCommunication, "Formulate status response", knowledge, tracked)
	b.domain(registry.DomainCommunication, "Send response to sender", formulate)
}

// feasibility query: four independent gathering tasks feed a gap-aware
// response, which is evaluated before sending.
func planFeasibilityQuery(b *builder) {
	actions := b.domain(registry.DomainTracking, "Extract action items from request")
	risks := b.domain(registry.DomainTracking, "Extract risks from request")
	decision := b.domain(registry.DomainTracking, "Extract decision needed")
	knowledge := b.capability(registry.CapKnowledgeRetrieval, "Retrieve project context and timeline")
	formulate := b.domain(registry.DomainCommunication, "Formulate gap-aware response", actions, risks, decision, knowledge)
	evaluate := b.capability(registry.CapEvaluation, "Evaluate response before sending", formulate)
	b.domain(registry.DomainCommunication, "Send response to sender", evaluate)
}

// decision request: extract the decision, gather context, respond.
func planDecisionRequest(b *builder) {
	decision := b.domain(registry.DomainTracking, "Extract decision from request")
	knowledge := b.capability(registry.CapKnowledgeRetrieval, "Retrieve relevant context for decision")
	formulate := b.domain(registry.DomainCommunication, "Formulate decision framework response", decision, knowledge)
	b.domain(registry.DomainCommunication, "Send response to sender", formulate)
}

// escalation: extract issues and risks, gather context, respond urgently.
func planEscalation(b *builder) {
	issues := b.domain(registry.DomainTracking, "Extract issues from escalation")
	risks := b.domain(registry.DomainTracking, "Extract risks from escalation")
	knowledge := b.capability(registry.CapKnowledgeRetrieval, "Retrieve escalation context")
	formulate := b.domain(registry.DomainCommunication, "Formulate urgent response with action plan", issues, risks, knowledge)
	b.domain(registry.DomainCommunication, "Send urgent response to sender", formulate)
}

// meeting update: process the transcript, run the three extractions,
// then summarize everything.
func planMeetingUpdate(b *builder) {
	transcript := b.domain(registry.DomainCommunication, "Process meeting transcript")
	actions := b.domain(registry.DomainTracking, "Extract action items from meeting")
	issues := b.domain(registry.DomainTracking, "Extract issues from meeting")
	decisions := b.domain(registry.DomainTracking, "Extract decisions from meeting")
	b.domain(registry.DomainCommunication, "Generate meeting summary report", transcript, actions, issues, decisions)
}

// general request: log any action items, gather context, acknowledge.
func planGeneralRequest(b *builder) {
	actions := b.domain(registry.DomainTracking, "Extract action items from message")
	knowledge := b.capability(registry.CapKnowledgeRetrieval, "Retrieve project context")
	b.domain(registry.DomainCommunication, "Formulate acknowledgment response", actions, knowledge)
}
