// ABOUTME: Image resolver: free-text prompt in, data-URI media reference out.
// ABOUTME: Fails with GenerationError when the reply carries no image payload.

package actions

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// imageAspectRatio is the fixed aspect ratio for chat images.
const imageAspectRatio = "1:1"

// ImageGenerator renders prompts into inline images suitable for direct
// display in a message bubble.
type ImageGenerator struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewImageGenerator creates an image resolver. Pass nil logger for default.
func NewImageGenerator(client *genai.Client, model string, logger *slog.Logger) *ImageGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageGenerator{
		client: client,
		model:  model,
		logger: logger.With("component", "actions.image"),
	}
}

// Generate produces a data URI for the first image part the model returns.
func (g *ImageGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{AspectRatio: imageAspectRatio},
		})
	if err != nil {
		return "", &GenerationError{Op: "image", Err: err}
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			uri := fmt.Sprintf("data:%s;base64,%s",
				mime, base64.StdEncoding.EncodeToString(part.InlineData.Data))
			g.logger.Debug("image generated", "bytes", len(part.InlineData.Data))
			return uri, nil
		}
	}

	return "", &GenerationError{Op: "image", Err: errors.New("no image in reply")}
}
