package perception

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"nion/internal/types"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

const classifyPrompt = `Analyze this message and identify the primary intent.

Message: %q
Sender Role: %s
Source: %s

Classify the intent as one of:
- status_query: Asking about current status or progress
- feasibility_query: Asking if something can be done
- decision_request: Requesting a decision or recommendation
- escalation: Urgent issue or escalation
- meeting_update: Meeting transcript or update
- general_request: General communication

Also identify:
- Has action items: yes/no
- Has risks: yes/no
- Has issues: yes/no
- Has decisions: yes/no
- Urgency level: low/medium/high

Respond ONLY with valid JSON in this exact format:
{
  "intent": "intent_type",
  "has_action_items": true,
  "has_risks": true,
  "has_issues": true,
  "has_decisions": true,
  "urgency": "low",
  "reasoning": "brief explanation"
}`

// GeminiClassifier asks Gemini for an intent classification and degrades
// to the rule-based classifier on any transport, quota, or parse error.
type GeminiClassifier struct {
	client   *genai.Client
	model    string
	fallback *RuleClassifier
	logger   *zap.Logger
}

// NewGeminiClassifier creates a remote classifier.
func NewGeminiClassifier(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClassifier{
		client:   client,
		model:    model,
		fallback: NewRuleClassifier(),
		logger:   logger,
	}, nil
}

// Classify asks the model for a JSON verdict. Any failure falls back to
// the deterministic rules and is never surfaced to the caller.
func (c *GeminiClassifier) Classify(ctx context.Context, msg *types.Message) types.Classification {
	prompt := fmt.Sprintf(classifyPrompt, msg.Content, msg.Sender.Role, msg.Source)

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		c.logger.Warn("gemini intent classification failed, using rule-based fallback", zap.Error(err))
		return c.fallback.Classify(ctx, msg)
	}

	verdict, err := parseClassification(resp.Text())
	if err != nil {
		c.logger.Warn("gemini returned malformed classification, using rule-based fallback", zap.Error(err))
		return c.fallback.Classify(ctx, msg)
	}

	c.logger.Debug("gemini classified intent",
		zap.String("intent", string(verdict.Intent)),
		zap.String("urgency", verdict.Urgency))
	return verdict
}

// parseClassification decodes a model response, tolerating markdown code
// fences around the JSON body.
func parseClassification(text string) (types.Classification, error) {
	text = stripCodeFences(text)

	var verdict types.Classification
	if err := json.Unmarshal([]byte(text), &verdict); err != nil {
		return types.Classification{}, fmt.Errorf("decode classification: %w", err)
	}
	if verdict.Intent == "" {
		return types.Classification{}, fmt.Errorf("classification missing intent")
	}
	return verdict, nil
}

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.Contains(text, "```json") {
		text = strings.SplitN(text, "```json", 2)[1]
		text = strings.SplitN(text, "```", 2)[0]
	} else if strings.Contains(text, "```") {
		parts := strings.SplitN(text, "```", 3)
		if len(parts) >= 2 {
			text = parts[1]
		}
	}
	return strings.TrimSpace(text)
}
