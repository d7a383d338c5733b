package capability

import (
	"fmt"
	"strings"

	"nion/internal/registry"
)

// ActionItemExtraction scans for action verbs and logs one action item
// per matched keyword with owner/due-date placeholders.
type ActionItemExtraction struct{}

func (ActionItemExtraction) Name() string { return registry.CapActionItemExtraction }

var actionKeywords = []string{"add", "create", "implement", "evaluate", "fix", "update", "review", "test"}

func (ActionItemExtraction) Execute(req Request) []string {
	content := strings.ToLower(req.Content)

	var items []string
	counter := 1
	for _, kw := range actionKeywords {
		if strings.Contains(content, kw) {
			items = append(items, fmt.Sprintf(
				"AI-%03d: \"Extract from message: %s related task\"\n      Owner: ? | Due: ? | Flags: [MISSING_OWNER, MISSING_DUE_DATE]",
				counter, kw))
			counter++
		}
	}

	if len(items) == 0 {
		items = append(items,
			"AI-001: \"Follow up on message content\"\n      Owner: ? | Due: ? | Flags: [MISSING_OWNER, MISSING_DUE_DATE]")
	}
	return items
}

// RiskExtraction maps risk keywords to likelihood/impact ratings.
type RiskExtraction struct{}

func (RiskExtraction) Name() string { return registry.CapRiskExtraction }

// riskKeywords is ordered; output line numbering follows match order.
var riskKeywords = []struct {
	keyword    string
	likelihood string
	impact     string
}{
	{"timeline", "HIGH", "HIGH"},
	{"deadline", "HIGH", "HIGH"},
	{"blocked", "HIGH", "HIGH"},
	{"urgent", "MEDIUM", "HIGH"},
	{"threat", "HIGH", "HIGH"},
	{"bug", "MEDIUM", "MEDIUM"},
	{"issue", "MEDIUM", "MEDIUM"},
	{"scope", "MEDIUM", "MEDIUM"},
}

func (RiskExtraction) Execute(req Request) []string {
	content := strings.ToLower(req.Content)

	var risks []string
	counter := 1
	for _, rk := range riskKeywords {
		if strings.Contains(content, rk.keyword) {
			risks = append(risks, fmt.Sprintf(
				"RISK-%03d: \"Identified: %s concern in message\"\n      Likelihood: %s | Impact: %s",
				counter, rk.keyword, rk.likelihood, rk.impact))
			counter++
		}
	}

	if len(risks) == 0 {
		risks = append(risks,
			"RISK-001: \"Potential communication gap or unclear requirements\"\n      Likelihood: LOW | Impact: MEDIUM")
	}
	return risks
}

// IssueExtraction flags operational problems; outage-class keywords are
// rated CRITICAL, the rest HIGH.
type IssueExtraction struct{}

func (IssueExtraction) Name() string { return registry.CapIssueExtraction }

var issueKeywords = []string{"blocked", "down", "bug", "error", "problem", "issue", "broken"}

func issueSeverity(keyword string) string {
	switch keyword {
	case "down", "blocked", "broken":
		return "CRITICAL"
	default:
		return "HIGH"
	}
}

func (IssueExtraction) Execute(req Request) []string {
	content := strings.ToLower(req.Content)

	var issues []string
	counter := 1
	for _, kw := range issueKeywords {
		if strings.Contains(content, kw) {
			issues = append(issues, fmt.Sprintf(
				"ISSUE-%03d: \"%s identified in message\"\n      Severity: %s | Status: OPEN",
				counter, capitalize(kw), issueSeverity(kw)))
			counter++
		}
	}

	if len(issues) == 0 {
		return []string{"No critical issues identified"}
	}
	return issues
}

// DecisionExtraction surfaces pending decisions implied by the message.
type DecisionExtraction struct{}

func (DecisionExtraction) Name() string { return registry.CapDecisionExtraction }

var decisionKeywords = []string{"should we", "can we", "decide", "prioritize", "choose", "approve"}

func (DecisionExtraction) Execute(req Request) []string {
	content := strings.ToLower(req.Content)

	var decisions []string
	counter := 1
	for _, kw := range decisionKeywords {
		if strings.Contains(content, kw) {
			decisions = append(decisions, fmt.Sprintf(
				"DEC-%03d: \"Decision needed: %s scenario\"\n      Decision Maker: ? | Status: PENDING",
				counter, kw))
			counter++
		}
	}

	if len(decisions) == 0 {
		decisions = append(decisions, "No explicit decisions identified")
	}
	return decisions
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
