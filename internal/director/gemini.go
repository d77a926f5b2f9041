// ABOUTME: Gemini-backed director: one structured request per user turn.
// ABOUTME: Network errors surface to the caller; parse errors yield an empty plan.

package director

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/pixelmbti/chat/internal/chat"
)

// thinkingBudget gives the director room to reason about group dynamics.
const thinkingBudget int32 = 2048

// Gemini asks a Gemini model to plan which agents speak and what they do.
type Gemini struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGemini creates a director on top of a shared genai client. Pass nil
// logger for default.
func NewGemini(client *genai.Client, model string, logger *slog.Logger) *Gemini {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gemini{
		client: client,
		model:  model,
		logger: logger.With("component", "director"),
	}
}

// Plan sends the trimmed history, roster, and new user message to the model
// and returns the validated turn plan. An unparseable reply is not an error:
// it yields an empty plan with a logged diagnostic.
func (g *Gemini) Plan(ctx context.Context, history []chat.Message, roster []chat.Agent, userMsg chat.Message) (*chat.TurnPlan, error) {
	parts := []*genai.Part{genai.NewPartFromText(userPrompt(history, userMsg))}
	if userMsg.Image != nil && len(userMsg.Image.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(userMsg.Image.Data, userMsg.Image.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction(roster), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    planSchema(roster),
		ThinkingConfig:    &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(thinkingBudget)},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("director call: %w", err)
	}

	text := resp.Text()
	if text == "" {
		g.logger.Warn("director returned empty reply")
		return &chat.TurnPlan{}, nil
	}

	var raw wirePlan
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		g.logger.Warn("director reply not parseable", "error", err)
		return &chat.TurnPlan{}, nil
	}

	plan := validate(raw, g.logger)
	g.logger.Debug("plan received",
		"proposed", len(raw.Responses),
		"accepted", len(plan.Turns))
	return plan, nil
}
