// Package coordinator implements the domain tier. A coordinator receives
// a dispatched task, classifies its purpose text against an explicit
// ordered route list, runs the selected capability, and attaches exactly
// one completed subtask carrying the capability's output.
//
// Route order is a behavioral contract: more specific keywords are
// checked before generic ones, and tests pin the ordering. When nothing
// matches, the domain's designated default capability runs and a
// diagnostic is logged; purpose classification never fails a task.
package coordinator

import (
	"strings"

	"go.uber.org/zap"

	"nion/internal/capability"
	"nion/internal/registry"
	"nion/internal/types"
)

// route binds an ordered keyword predicate to a capability.
type route struct {
	keywords []string
	exec     capability.Executor
	purpose  string // purpose recorded on the subtask
}

func (r route) matches(purpose string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(purpose, kw) {
			return true
		}
	}
	return false
}

// Coordinator routes tasks for one domain.
type Coordinator struct {
	domain       string
	routes       []route
	defaultRoute route
	visible      []string
	logger       *zap.Logger
}

// Domain returns the coordinator's domain name.
func (c *Coordinator) Domain() string { return c.domain }

// Visible returns the capability names this coordinator may invoke.
// Informational: invocation authority is not enforced at runtime.
func (c *Coordinator) Visible() []string { return c.visible }

// Coordinate classifies the task's purpose, runs the selected capability
// and attaches the completed subtask. The task's own id is never touched.
func (c *Coordinator) Coordinate(task *types.Task, content, project string, tc types.Context) {
	task.Status = types.TaskInProgress

	purpose := strings.ToLower(task.Purpose)
	selected := c.defaultRoute
	matched := false
	for _, r := range c.routes {
		if r.matches(purpose) {
			selected = r
			matched = true
			break
		}
	}
	if !matched {
		c.logger.Warn("could not map task purpose to a capability, using domain default",
			zap.String("domain", c.domain),
			zap.String("task", task.ID),
			zap.String("purpose", task.Purpose),
			zap.String("default", c.defaultRoute.exec.Name()))
	}

	sub := types.NewSubtask(task, selected.exec.Name(), selected.purpose)
	sub.Output = selected.exec.Execute(capability.Request{
		Content: content,
		Project: project,
		Context: tc,
	})
	sub.Status = types.TaskCompleted

	task.Subtasks = append(task.Subtasks, sub)
	task.Status = types.TaskCompleted
}

// Set holds the coordinator for every registered domain.
type Set struct {
	byDomain map[string]*Coordinator
}

// NewSet builds the three domain coordinators. qna carries the response
// synthesizer, so it is constructed by the caller and shared here.
func NewSet(reg *registry.Registry, qna *capability.QnA, logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}

	tracking := &Coordinator{
		domain: registry.DomainTracking,
		routes: []route{
			{keywords: []string{"action item"}, exec: capability.ActionItemExtraction{}, purpose: "Extract action items"},
			{keywords: []string{"risk"}, exec: capability.RiskExtraction{}, purpose: "Extract risks"},
			{keywords: []string{"issue"}, exec: capability.IssueExtraction{}, purpose: "Extract issues"},
			{keywords: []string{"decision"}, exec: capability.DecisionExtraction{}, purpose: "Extract decisions"},
		},
		defaultRoute: route{exec: capability.ActionItemExtraction{}, purpose: "Fallback: attempt extraction"},
		visible:      reg.Visible(registry.DomainTracking),
		logger:       logger,
	}

	communication := &Coordinator{
		domain: registry.DomainCommunication,
		routes: []route{
			{keywords: []string{"send", "deliver"}, exec: capability.MessageDelivery{}, purpose: "Send message"},
			{keywords: []string{"report"}, exec: capability.ReportGeneration{}, purpose: "Generate report"},
			// The meeting check must precede the generic response check:
			// "Process meeting transcript" is not a response task.
			{keywords: []string{"meeting"}, exec: capability.MeetingAttendance{}, purpose: "Process meeting"},
			{keywords: []string{"response", "answer", "formulate"}, exec: qna, purpose: "Formulate response"},
		},
		defaultRoute: route{exec: qna, purpose: "Fallback: general acknowledgment"},
		visible:      reg.Visible(registry.DomainCommunication),
		logger:       logger,
	}

	learning := &Coordinator{
		domain: registry.DomainLearning,
		routes: []route{
			{keywords: []string{"learn", "instruction"}, exec: capability.InstructionLearning{}, purpose: "Learn from instructions"},
		},
		defaultRoute: route{exec: capability.InstructionLearning{}, purpose: "Fallback: record instruction"},
		visible:      reg.Visible(registry.DomainLearning),
		logger:       logger,
	}

	return &Set{byDomain: map[string]*Coordinator{
		tracking.domain:      tracking,
		communication.domain: communication,
		learning.domain:      learning,
	}}
}

// For returns the coordinator for a domain, with ok=false when the
// domain is unknown.
func (s *Set) For(domain string) (*Coordinator, bool) {
	c, ok := s.byDomain[domain]
	return c, ok
}
