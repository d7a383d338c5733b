// Package perception maps raw message text to a structured intent
// classification. Two classifiers implement the same contract: a remote
// Gemini-backed one and a deterministic rule-based one. The remote
// classifier degrades to the rules on any error, so classification never
// fails a run.
package perception

import (
	"context"
	"strings"

	"nion/internal/types"
)

// Classifier produces an intent classification for one message.
type Classifier interface {
	Classify(ctx context.Context, msg *types.Message) types.Classification
}

// RuleClassifier is the deterministic fallback classifier. Its rules are
// the contract the remote classifier degrades to, so their behavior is
// pinned by tests.
type RuleClassifier struct{}

// NewRuleClassifier returns the rule-based classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// Classify applies the fixed keyword rules. The rules are first-match
// over an ordered list, so query checks run before the broader
// escalation and meeting checks.
func (c *RuleClassifier) Classify(_ context.Context, msg *types.Message) types.Classification {
	content := strings.ToLower(msg.Content)
	hasQuestion := strings.Contains(msg.Content, "?")

	var intent types.Intent
	switch {
	case hasQuestion && containsAny(content, "status", "what"):
		intent = types.IntentStatusQuery
	case hasQuestion && containsAny(content, "can we", "should we"):
		intent = types.IntentFeasibilityQuery
	case containsAny(content, "decide", "prioritize"):
		intent = types.IntentDecisionRequest
	case containsAny(content, "blocked", "urgent", "escalate", "threat"):
		intent = types.IntentEscalation
	case containsAny(content, "meeting", "transcript", "demo") || strings.EqualFold(msg.Source, "meeting"):
		intent = types.IntentMeetingUpdate
	default:
		intent = types.IntentGeneral
	}

	urgency := "low"
	if intent == types.IntentEscalation {
		urgency = "high"
	} else if hasQuestion {
		urgency = "medium"
	}

	return types.Classification{
		Intent:         intent,
		HasActionItems: containsAny(content, "add", "create", "implement", "fix"),
		HasRisks:       containsAny(content, "risk", "concern", "timeline", "deadline"),
		HasIssues:      containsAny(content, "blocked", "down", "bug", "issue", "problem"),
		HasDecisions:   containsAny(content, "decide", "should", "prioritize", "choose"),
		Urgency:        urgency,
		Reasoning:      "Rule-based analysis",
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
