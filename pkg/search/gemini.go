package search

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiGenerator implements Generator against the Gemini API with the
// provider's web-search tool attached, so the model can ground listings in
// live retrieval rather than inventing them from training data.
type GeminiGenerator struct {
	Client *genai.Client
	Model  string
	Safety []*genai.SafetySetting
}

func NewGeminiGenerator(client *genai.Client, model string, safety []*genai.SafetySetting) *GeminiGenerator {
	return &GeminiGenerator{Client: client, Model: model, Safety: safety}
}

func (g *GeminiGenerator) GenerateListings(ctx context.Context, prompt string) (string, error) {
	resp, err := g.Client.Models.GenerateContent(ctx, g.Model, []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}},
	}, &genai.GenerateContentConfig{
		Tools:          []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		SafetySettings: g.Safety,
	})
	if err != nil {
		return "", fmt.Errorf("listing generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("llm returned no candidates")
	}

	text := ""
	for _, p := range resp.Candidates[0].Content.Parts {
		text += p.Text
	}
	return text, nil
}
