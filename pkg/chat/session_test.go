package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeTransport struct {
	mu    sync.Mutex
	calls [][]string
	reply string
	err   error
	gate  chan struct{}
}

func (f *fakeTransport) Send(ctx context.Context, parts []string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, parts)
	f.mu.Unlock()
	if f.gate != nil {
		<-f.gate
	}
	return f.reply, f.err
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestSessionSeedsGreeting(t *testing.T) {
	s := NewSession(&fakeTransport{}, 0, 0, nil)

	turns := s.Transcript()
	if len(turns) != 1 {
		t.Fatalf("new session transcript has %d turns, want 1", len(turns))
	}
	if turns[0].Role != RoleModel {
		t.Errorf("greeting role = %s, want model", turns[0].Role)
	}
}

func TestSessionHookSeesEveryTurn(t *testing.T) {
	var notified []Turn
	s := NewSession(&fakeTransport{reply: "ok"}, 0, 0, func(turn Turn) {
		notified = append(notified, turn)
	})

	// The seeded greeting must reach the hook, or a persisted transcript
	// would start one turn short of the served one.
	if len(notified) != 1 || notified[0].Role != RoleModel {
		t.Fatalf("hook saw %d turns after construction, want the greeting", len(notified))
	}
	if notified[0].Parts[0].Text != greetingText {
		t.Errorf("hook turn text = %q, want the greeting", notified[0].Parts[0].Text)
	}

	if err := s.Send(context.Background(), "hello", nil); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(notified) != 3 {
		t.Fatalf("hook saw %d turns after one send, want 3", len(notified))
	}
	if transcript := s.Transcript(); len(transcript) != len(notified) {
		t.Errorf("hook saw %d turns but transcript has %d", len(notified), len(transcript))
	}
}

func TestSessionEmptySendIsNoOp(t *testing.T) {
	transport := &fakeTransport{}
	s := NewSession(transport, 0, 0, nil)

	err := s.Send(context.Background(), "   ", nil)
	if !errors.Is(err, ErrEmptySend) {
		t.Fatalf("expected ErrEmptySend, got %v", err)
	}
	if transport.callCount() != 0 {
		t.Error("empty send reached the provider")
	}
	if len(s.Transcript()) != 1 {
		t.Error("empty send mutated the transcript")
	}
}

func TestSessionTextSend(t *testing.T) {
	transport := &fakeTransport{reply: "Happy to help!"}
	s := NewSession(transport, 0, 0, nil)

	if err := s.Send(context.Background(), "Is Elm St a quiet area?", nil); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	turns := s.Transcript()
	if len(turns) != 3 {
		t.Fatalf("transcript has %d turns, want 3 (greeting, user, model)", len(turns))
	}
	user, model := turns[1], turns[2]
	if user.Role != RoleUser || len(user.Parts) != 1 || user.Parts[0].Kind != PartText {
		t.Errorf("unexpected user turn: %+v", user)
	}
	if model.Role != RoleModel || model.Parts[0].Text != "Happy to help!" {
		t.Errorf("unexpected model turn: %+v", model)
	}
}

func TestSessionFileAndTextPartOrder(t *testing.T) {
	transport := &fakeTransport{reply: "Looks like a standard lease."}
	s := NewSession(transport, 0, 0, nil)

	file := &FileUpload{Name: "lease.txt", Text: "TENANT AGREES TO..."}
	if err := s.Send(context.Background(), "Anything unusual in here?", file); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	user := s.Transcript()[1]
	if len(user.Parts) != 2 {
		t.Fatalf("user turn has %d parts, want 2", len(user.Parts))
	}
	if user.Parts[0].Kind != PartFile || user.Parts[0].Filename != "lease.txt" {
		t.Errorf("first part should be the file part: %+v", user.Parts[0])
	}
	if user.Parts[1].Kind != PartText {
		t.Errorf("second part should be the typed text: %+v", user.Parts[1])
	}

	wire := transport.calls[0]
	if len(wire) != 2 {
		t.Fatalf("wire carried %d parts, want 2", len(wire))
	}
	if !strings.Contains(wire[0], "lease.txt") || !strings.Contains(wire[0], "TENANT AGREES TO...") {
		t.Errorf("file part missing filename header or content: %q", wire[0])
	}
}

func TestSessionFileOnlySend(t *testing.T) {
	transport := &fakeTransport{reply: "Summary: ..."}
	s := NewSession(transport, 0, 0, nil)

	if err := s.Send(context.Background(), "", &FileUpload{Name: "notes.txt", Text: "hi"}); err != nil {
		t.Fatalf("file-only send failed: %v", err)
	}
	user := s.Transcript()[1]
	if len(user.Parts) != 1 || user.Parts[0].Kind != PartFile {
		t.Errorf("file-only send should yield a single file part: %+v", user.Parts)
	}
}

func TestSessionFailureAppendsApology(t *testing.T) {
	transport := &fakeTransport{err: errors.New("service unavailable")}
	s := NewSession(transport, 0, 0, nil)

	if err := s.Send(context.Background(), "hello?", nil); err != nil {
		t.Fatalf("Send should not surface provider errors, got %v", err)
	}

	turns := s.Transcript()
	last := turns[len(turns)-1]
	if last.Role != RoleModel {
		t.Fatalf("last turn role = %s, want model", last.Role)
	}
	if last.Parts[0].Text != apologyText {
		t.Errorf("last turn text = %q, want the apology", last.Parts[0].Text)
	}

	// The gate must clear on failure too.
	transport.err = nil
	transport.reply = "recovered"
	if err := s.Send(context.Background(), "still there?", nil); err != nil {
		t.Errorf("send after failure returned %v", err)
	}
}

func TestSessionBusyGate(t *testing.T) {
	transport := &fakeTransport{reply: "ok", gate: make(chan struct{})}
	s := NewSession(transport, 0, 0, nil)

	done := make(chan struct{})
	go func() {
		_ = s.Send(context.Background(), "first", nil)
		close(done)
	}()

	// Wait until the first send is in flight.
	for transport.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	if err := s.Send(context.Background(), "second", nil); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent send error = %v, want ErrBusy", err)
	}

	close(transport.gate)
	<-done

	if err := s.Send(context.Background(), "third", nil); err != nil {
		t.Errorf("send after completion returned %v", err)
	}
}

func TestChunkUpload(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		wantOne   bool
	}{
		{"Small text passes through", "short", 100, true},
		{"Zero chunk size disables splitting", strings.Repeat("a", 500), 0, true},
		{"Large text splits", strings.Repeat("word ", 200), 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunkUpload(tt.text, tt.chunkSize, 10)
			if tt.wantOne && len(chunks) != 1 {
				t.Errorf("got %d chunks, want 1", len(chunks))
			}
			if !tt.wantOne && len(chunks) < 2 {
				t.Errorf("got %d chunks, want at least 2", len(chunks))
			}
		})
	}
}

func TestManagerReusesSession(t *testing.T) {
	created := 0
	m := NewManager(func(ctx context.Context) (*Session, error) {
		created++
		return NewSession(&fakeTransport{}, 0, 0, nil), nil
	})

	first, err := m.Open(context.Background())
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	second, err := m.Open(context.Background())
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}

	if first != second {
		t.Error("Open created a second session for the same panel lifetime")
	}
	if created != 1 {
		t.Errorf("factory ran %d times, want 1", created)
	}
}
