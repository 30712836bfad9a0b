package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/larsmk/homescout/pkg/listings"
)

// RunState is the agent's scheduling state.
type RunState string

const (
	StateIdle    RunState = "idle"
	StateRunning RunState = "running"
)

// ErrorKind classifies the last cycle failure surfaced to the user.
type ErrorKind string

const (
	ErrorNone   ErrorKind = ""
	ErrorAgent  ErrorKind = "agent"
	ErrorFormat ErrorKind = "response_format"
)

var ErrAlreadyRunning = errors.New("search agent is already running")

// Generator is the provider capability the agent drives: one prompt in, raw
// response text out. The real implementation attaches the provider's own
// web-search tool to the request.
type Generator interface {
	GenerateListings(ctx context.Context, prompt string) (string, error)
}

// Status is a point-in-time snapshot of the agent.
type Status struct {
	State        RunState            `json:"state"`
	Cycles       int                 `json:"cycles"`
	Results      []listings.Property `json:"results"`
	LastError    ErrorKind           `json:"last_error,omitempty"`
	LastErrorMsg string              `json:"last_error_message,omitempty"`
}

// Agent is the self-rescheduling search loop. A cycle builds the prompt,
// calls the provider, parses, merges, and then decides whether to schedule
// the next cycle. Cycles never overlap: the next one is armed only after the
// previous one fully completes. Stop is honored at that scheduling decision,
// so an in-flight cycle still completes and merges its results.
//
// The result list only grows. Identifiers admitted once stay admitted for
// the life of the agent; there is no eviction.
type Agent struct {
	Interval time.Duration

	// OnCycle, when set, is invoked with a snapshot after every completed
	// cycle, successful or not.
	OnCycle func(Status)

	generator Generator

	mu       sync.Mutex
	logger   *slog.Logger
	state    RunState
	gen      int
	inFlight bool
	criteria Criteria
	cycles   int
	results  []listings.Property
	lastErr  ErrorKind
	lastMsg  string
	timer    *time.Timer
}

func NewAgent(generator Generator, interval time.Duration) *Agent {
	return &Agent{
		Interval:  interval,
		logger:    slog.Default(),
		generator: generator,
		state:     StateIdle,
	}
}

// SetLogger swaps the cycle logger. Safe to call between runs; a cycle
// already in flight keeps the logger it started with.
func (a *Agent) SetLogger(logger *slog.Logger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logger = logger
}

// Start transitions Idle -> Running and fires the first cycle immediately.
// Each run gets a fresh generation; a cycle left in flight by an earlier run
// can no longer reschedule, so there is only ever one scheduling chain. If
// such a cycle is still executing, the new run's first cycle is deferred
// until it drains, keeping provider calls strictly sequential.
func (a *Agent) Start(criteria Criteria) error {
	a.mu.Lock()
	if a.state == StateRunning {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.state = StateRunning
	a.gen++
	gen := a.gen
	a.criteria = criteria
	a.lastErr = ErrorNone
	a.lastMsg = ""
	logger := a.logger
	launch := !a.inFlight
	a.mu.Unlock()

	logger.Info("Search agent started", "destination", criteria.Destination)
	if launch {
		go a.runCycle(gen)
	}
	return nil
}

// Stop suppresses future scheduling. A cycle already in flight is not
// cancelled; its results are still merged when it completes, but bumping the
// generation keeps it from arming another cycle afterward.
func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateRunning {
		return
	}
	a.state = StateIdle
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.logger.Info("Search agent stopped", "cycles", a.cycles)
}

// Snapshot returns a copy of the agent's current status, including a copy of
// the result list.
func (a *Agent) Snapshot() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	results := make([]listings.Property, len(a.results))
	copy(results, a.results)
	return Status{
		State:        a.state,
		Cycles:       a.cycles,
		Results:      results,
		LastError:    a.lastErr,
		LastErrorMsg: a.lastMsg,
	}
}

func (a *Agent) runCycle(gen int) {
	a.mu.Lock()
	if gen != a.gen {
		// A stale timer firing against a stop or restart window. The run it
		// belonged to is over; drop it before touching the provider.
		a.mu.Unlock()
		return
	}
	a.inFlight = true
	criteria := a.criteria
	logger := a.logger
	a.cycles++
	cycle := a.cycles
	a.mu.Unlock()

	prompt := BuildPrompt(criteria)
	logger.Info("Starting search cycle", "cycle", cycle)

	raw, err := a.generator.GenerateListings(context.Background(), prompt)
	if err != nil {
		logger.Error("Provider call failed", "cycle", cycle, "error", err)
		a.recordError(ErrorAgent, "The search agent could not reach the listing service. It will retry automatically.")
		a.finishCycle(gen)
		return
	}

	candidates, err := listings.ParseListings(raw)
	if err != nil {
		logger.Warn("Response was not a listing array", "cycle", cycle, "error", err)
		a.recordError(ErrorFormat, "The listing service returned an unexpected response. Existing results are unchanged.")
		a.finishCycle(gen)
		return
	}

	a.mu.Lock()
	merged, admitted := listings.Merge(a.results, candidates)
	a.results = merged
	a.lastErr = ErrorNone
	a.lastMsg = ""
	a.mu.Unlock()

	logger.Info("Search cycle complete", "cycle", cycle, "candidates", len(candidates), "admitted", admitted, "total", len(merged))
	a.finishCycle(gen)
}

func (a *Agent) recordError(kind ErrorKind, msg string) {
	a.mu.Lock()
	a.lastErr = kind
	a.lastMsg = msg
	a.mu.Unlock()
}

// finishCycle is the single scheduling decision point: reschedule only while
// still running, and only from the chain that belongs to the current run. A
// cycle orphaned by a stop/start pair carries a stale generation; instead of
// forking a second chain it hands control to the run that superseded it,
// whose deferred first cycle fires now.
func (a *Agent) finishCycle(gen int) {
	if a.OnCycle != nil {
		a.OnCycle(a.Snapshot())
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.inFlight = false
	if a.state != StateRunning {
		return
	}
	if gen != a.gen {
		cur := a.gen
		go a.runCycle(cur)
		return
	}
	a.timer = time.AfterFunc(a.Interval, func() { a.runCycle(gen) })
}
