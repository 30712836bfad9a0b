package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role tags who authored a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// PartKind discriminates the part union. Both kinds render to text on the
// wire today; the tag keeps the turn model extensible without widening the
// provider contract.
type PartKind string

const (
	PartText PartKind = "text"
	PartFile PartKind = "file"
)

// Part is one piece of a turn: either typed text or text extracted from an
// uploaded document.
type Part struct {
	Kind     PartKind `json:"kind"`
	Text     string   `json:"text"`
	Filename string   `json:"filename,omitempty"`
}

// Turn is one role-tagged, ordered group of parts. The transcript is
// append-only: turns are never edited or removed.
type Turn struct {
	ID        uuid.UUID `json:"id"`
	Role      Role      `json:"role"`
	Parts     []Part    `json:"parts"`
	CreatedAt time.Time `json:"created_at"`
}

// FileUpload carries the name and already-extracted text of an uploaded
// document. Extraction happens client-side; the session only sees text.
type FileUpload struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

var (
	// ErrEmptySend marks a send with neither text nor file. Callers treat it
	// as a silent no-op: no state changed, no provider call was made.
	ErrEmptySend = errors.New("nothing to send")

	// ErrBusy is returned while a previous reply is still pending. The gate
	// is a hard mutual exclusion so transcript turns stay strictly ordered.
	ErrBusy = errors.New("a reply is still pending")
)

const greetingText = "Hi! I'm your rental search assistant. Ask me anything about listings, neighborhoods, lease terms or the application process."

const apologyText = "Sorry, I'm having trouble answering right now. Please try again in a moment."

// Transport is the provider-side session handle: it accepts one turn's
// rendered parts and returns the model's reply text. Conversation history is
// retained by the provider across calls, so only new content is ever sent.
type Transport interface {
	Send(ctx context.Context, parts []string) (string, error)
}

// Session owns one conversation transcript and the send/receive protocol
// against a persistent provider session. It is created lazily by the Manager
// and lives for the lifetime of the conversational panel.
type Session struct {
	Logger *slog.Logger

	transport    Transport
	chunkSize    int
	chunkOverlap int

	// onTurn is invoked after each turn is appended, the seeded greeting
	// included. Used for transcript persistence.
	onTurn func(Turn)

	mu       sync.Mutex
	turns    []Turn
	awaiting bool
}

func NewSession(transport Transport, chunkSize, chunkOverlap int, onTurn func(Turn)) *Session {
	s := &Session{
		Logger:       slog.Default(),
		transport:    transport,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		onTurn:       onTurn,
	}
	// Seed the transcript with a local greeting. It is never sent to the
	// provider; the provider's history starts with the first real user turn.
	// The hook still sees it, so persisted transcripts match served ones.
	greeting := newTurn(RoleModel, []Part{{Kind: PartText, Text: greetingText}})
	s.turns = append(s.turns, greeting)
	s.notify(greeting)
	return s
}

// Send builds one user turn from the typed text and optional file, appends
// it optimistically, sends only the new content to the provider, and appends
// the model's reply. Provider failures never surface as errors: they become
// an in-transcript apology turn, because the conversational surface has no
// separate error channel.
func (s *Session) Send(ctx context.Context, text string, file *FileUpload) error {
	if strings.TrimSpace(text) == "" && file == nil {
		return ErrEmptySend
	}

	s.mu.Lock()
	if s.awaiting {
		s.mu.Unlock()
		return ErrBusy
	}
	s.awaiting = true

	parts := s.buildParts(text, file)
	userTurn := newTurn(RoleUser, parts)
	s.turns = append(s.turns, userTurn)
	s.mu.Unlock()

	s.notify(userTurn)

	reply, err := s.transport.Send(ctx, renderParts(parts))
	modelParts := []Part{{Kind: PartText, Text: reply}}
	if err != nil {
		s.Logger.Error("Chat send failed", "error", err)
		modelParts = []Part{{Kind: PartText, Text: apologyText}}
	}

	modelTurn := newTurn(RoleModel, modelParts)

	s.mu.Lock()
	s.turns = append(s.turns, modelTurn)
	s.awaiting = false
	s.mu.Unlock()

	s.notify(modelTurn)
	return nil
}

// Transcript returns a copy of the ordered turn sequence.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := make([]Turn, len(s.turns))
	copy(turns, s.turns)
	return turns
}

func (s *Session) buildParts(text string, file *FileUpload) []Part {
	var parts []Part
	if file != nil {
		for _, chunk := range chunkUpload(file.Text, s.chunkSize, s.chunkOverlap) {
			parts = append(parts, Part{Kind: PartFile, Text: chunk, Filename: file.Name})
		}
	}
	if strings.TrimSpace(text) != "" {
		parts = append(parts, Part{Kind: PartText, Text: text})
	}
	return parts
}

func (s *Session) notify(turn Turn) {
	if s.onTurn != nil {
		s.onTurn(turn)
	}
}

func newTurn(role Role, parts []Part) Turn {
	return Turn{
		ID:        uuid.New(),
		Role:      role,
		Parts:     parts,
		CreatedAt: time.Now(),
	}
}

// renderParts flattens the part union into the wire shape: plain text for
// typed input, a filename header plus instruction for document parts.
func renderParts(parts []Part) []string {
	rendered := make([]string, 0, len(parts))
	for _, p := range parts {
		switch p.Kind {
		case PartFile:
			rendered = append(rendered, fmt.Sprintf(
				"The user attached a document named %q. Use its contents when answering their questions.\n\n%s",
				p.Filename, p.Text))
		default:
			rendered = append(rendered, p.Text)
		}
	}
	return rendered
}
