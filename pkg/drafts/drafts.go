package drafts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/larsmk/homescout/pkg/listings"
	"github.com/tmc/langchaingo/llms"
)

// State is the lifecycle of the single active draft.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Draft is the current draft state keyed to exactly one property.
type Draft struct {
	PropertyID listings.ID `json:"property_id"`
	State      State       `json:"state"`
	Content    string      `json:"content,omitempty"`
	Message    string      `json:"message,omitempty"`
}

const failedMessage = "The email draft could not be generated. Close the dialog and try again."

// Flow runs the on-demand inquiry email generation. Only one draft is active
// at a time: opening a draft for a new property unconditionally discards the
// previous one, including an in-flight generation whose response is then
// thrown away when it eventually arrives.
type Flow struct {
	LLM    llms.Model
	Logger *slog.Logger

	mu         sync.Mutex
	current    Draft
	generation int
}

func NewFlow(llm llms.Model) *Flow {
	return &Flow{
		LLM:     llm,
		Logger:  slog.Default(),
		current: Draft{State: StateIdle},
	}
}

// Open starts generating a draft for the given property. It returns
// immediately with the Loading state visible; the result lands via Current.
func (f *Flow) Open(property listings.Property, maxRent float64, nuance string) Draft {
	f.mu.Lock()
	f.generation++
	gen := f.generation
	llm := f.LLM
	f.current = Draft{PropertyID: property.ID, State: StateLoading}
	snapshot := f.current
	f.mu.Unlock()

	go f.generate(gen, llm, property, maxRent, nuance)
	return snapshot
}

// Current returns the active draft state.
func (f *Flow) Current() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *Flow) generate(gen int, llm llms.Model, property listings.Property, maxRent float64, nuance string) {
	// Detached from any request context: the generation is fire-and-forget
	// and only supersession discards it.
	ctx := context.Background()

	content, err := compose(ctx, llm, property, maxRent, nuance)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		// A newer draft was opened while this one was in flight.
		f.Logger.Info("Discarding superseded draft", "property_id", property.ID)
		return
	}

	if err != nil {
		f.Logger.Error("Draft generation failed", "property_id", property.ID, "error", err)
		f.current = Draft{PropertyID: property.ID, State: StateFailed, Message: failedMessage}
		return
	}
	f.current = Draft{PropertyID: property.ID, State: StateReady, Content: content}
}

func compose(ctx context.Context, llm llms.Model, property listings.Property, maxRent float64, nuance string) (string, error) {
	resp, err := llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, draftSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildDraftPrompt(property, maxRent, nuance)),
	})
	if err != nil {
		return "", fmt.Errorf("llm generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}
	return resp.Choices[0].Content, nil
}

const draftSystemPrompt = "You write polite, concise rental inquiry emails on behalf of a prospective tenant. " +
	"Output only the email body, ready to send. Do not include a subject line or any commentary."

func buildDraftPrompt(property listings.Property, maxRent float64, nuance string) string {
	recipient := "the property manager"
	if property.Contact != nil && property.Contact.Name != "" {
		recipient = property.Contact.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write an inquiry email to %s about the rental at %s.\n", recipient, property.Address)
	fmt.Fprintf(&b, "The sender's budget is up to %g per month.\n", maxRent)
	if n := strings.TrimSpace(nuance); n != "" {
		fmt.Fprintf(&b, "Personal context from the sender, to be reframed tactfully where it is sensitive: %s\n", n)
	}
	b.WriteString("The email must: state interest in the property, briefly introduce the sender, " +
		"ask about availability and the application process, and request a viewing appointment.")
	return b.String()
}
