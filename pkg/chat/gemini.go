package chat

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiTransport wraps a persistent Gemini chat: history lives server-side,
// so each Send carries only the new turn's parts.
type GeminiTransport struct {
	chat *genai.Chat
}

func NewGeminiTransport(ctx context.Context, client *genai.Client, model, systemInstruction string, safety []*genai.SafetySetting) (*GeminiTransport, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		SafetySettings:    safety,
	}

	chat, err := client.Chats.Create(ctx, model, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	return &GeminiTransport{chat: chat}, nil
}

func (t *GeminiTransport) Send(ctx context.Context, parts []string) (string, error) {
	gparts := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		gparts = append(gparts, genai.Part{Text: p})
	}

	resp, err := t.chat.SendMessage(ctx, gparts...)
	if err != nil {
		return "", fmt.Errorf("chat message failed: %w", err)
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
