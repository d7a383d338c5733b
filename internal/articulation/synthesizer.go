// Package articulation turns accumulated task context into natural
// language. A Synthesizer may decline, in which case the calling
// capability renders its own deterministic template instead; declining is
// normal operation, not an error.
package articulation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"nion/internal/types"
)

// Synthesizer attempts to produce a ready-to-use response from the
// context map. ok=false means the caller must fall back to its template.
type Synthesizer interface {
	Attempt(ctx context.Context, tc types.Context, messageContent string) (string, bool)
}

// Decline always declines. Used when no API key is configured.
type Decline struct{}

// Attempt declines unconditionally.
func (Decline) Attempt(context.Context, types.Context, string) (string, bool) {
	return "", false
}

const synthesisPrompt = `You are Nion, an AI Program Manager. Generate a professional, gap-aware response.

Original Message: %q

Context Available:
- Action Items: %d logged
- Risks: %d identified
- Decisions: %d pending
- Project Info: %s

Generate a response that:
1. Acknowledges what you know
2. States what you've logged/tracked
3. Clearly identifies what information is missing
4. Is professional and concise

Response (plain text, no JSON):`

// GeminiSynthesizer asks Gemini for a natural-language response.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiSynthesizer creates a remote synthesizer.
func NewGeminiSynthesizer(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiSynthesizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiSynthesizer{client: client, model: model, logger: logger}, nil
}

// Attempt asks the model for a response. Any error or empty answer is
// reported as a decline so the caller's template takes over.
func (s *GeminiSynthesizer) Attempt(ctx context.Context, tc types.Context, messageContent string) (string, bool) {
	projectInfo := "Unknown"
	if knowledge := tc[types.CtxKnowledge]; len(knowledge) > 0 {
		projectInfo = knowledge[0]
	}

	prompt := fmt.Sprintf(synthesisPrompt,
		messageContent,
		len(tc[types.CtxActionItems]),
		len(tc[types.CtxRisks]),
		len(tc[types.CtxDecisions]),
		projectInfo,
	)

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		s.logger.Warn("gemini response synthesis failed, declining", zap.Error(err))
		return "", false
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		s.logger.Warn("gemini returned empty response, declining")
		return "", false
	}
	return text, true
}
