package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/larsmk/homescout/pkg/chat"
	"github.com/larsmk/homescout/pkg/config"
	"github.com/larsmk/homescout/pkg/database"
	"github.com/larsmk/homescout/pkg/drafts"
	"github.com/larsmk/homescout/pkg/listings"
	"github.com/larsmk/homescout/pkg/saved"
	"github.com/larsmk/homescout/pkg/search"
	"github.com/tmc/langchaingo/llms"
	"google.golang.org/genai"
)

// Service wires the search agent, chat session, draft flow and saved
// registry together and owns their persistence collaborators.
type Service struct {
	Cfg      *config.Config
	DB       *database.PostgresDB
	Agent    *search.Agent
	Chat     *chat.Manager
	Drafts   *drafts.Flow
	Saved    *saved.Registry
	Criteria *search.CriteriaStore

	runID uuid.UUID
}

func NewService(ctx context.Context, cfg *config.Config, db *database.PostgresDB, client *genai.Client, draftLLM llms.Model, safety []*genai.SafetySetting) (*Service, error) {
	registry, err := saved.NewRegistry(ctx, saved.NewPostgresStore(db))
	if err != nil {
		return nil, fmt.Errorf("failed to init saved registry: %w", err)
	}

	s := &Service{
		Cfg:      cfg,
		DB:       db,
		Agent:    search.NewAgent(search.NewGeminiGenerator(client, cfg.SearchModel, safety), cfg.AgentInterval),
		Drafts:   drafts.NewFlow(draftLLM),
		Saved:    registry,
		Criteria: search.NewCriteriaStore(db),
	}

	s.Chat = chat.NewManager(func(ctx context.Context) (*chat.Session, error) {
		transport, err := chat.NewGeminiTransport(ctx, client, cfg.ChatModel, cfg.ChatSystemRole, safety)
		if err != nil {
			return nil, err
		}

		conversationID, err := s.createConversation(ctx)
		if err != nil {
			return nil, err
		}

		return chat.NewSession(transport, cfg.ChunkSize, cfg.ChunkOverlap, func(turn chat.Turn) {
			s.persistTurn(conversationID, turn)
		}), nil
	})

	return s, nil
}

// StartSearch begins a new agent run with cycle diagnostics persisted under
// a fresh run id.
func (s *Service) StartSearch(criteria search.Criteria) error {
	if s.Agent.Snapshot().State == search.StateRunning {
		return search.ErrAlreadyRunning
	}
	s.runID = uuid.New()
	s.Agent.SetLogger(slog.New(NewDBLogHandler(s.DB, s.runID)))
	return s.Agent.Start(criteria)
}

// StopSearch suppresses future cycles; an in-flight cycle still completes.
func (s *Service) StopSearch() {
	s.Agent.Stop()
}

type LogEntry struct {
	ID        int             `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata"`
}

// RunLogs returns the persisted diagnostics of the current (or most recent)
// agent run.
func (s *Service) RunLogs(ctx context.Context) ([]LogEntry, error) {
	query := `
		SELECT id, timestamp, level, message, metadata
		FROM agent_logs
		WHERE run_id = $1
		ORDER BY id ASC
	`
	rows, err := s.DB.Pool.Query(ctx, query, s.runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run logs: %w", err)
	}
	defer rows.Close()

	var logs []LogEntry
	for rows.Next() {
		var l LogEntry
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.Level, &l.Message, &l.Metadata); err != nil {
			return nil, fmt.Errorf("failed to scan run log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read run logs: %w", err)
	}
	return logs, nil
}

// ToggleSaved flips registry membership for the property.
func (s *Service) ToggleSaved(ctx context.Context, property listings.Property) (bool, error) {
	return s.Saved.Toggle(ctx, property)
}

func (s *Service) createConversation(ctx context.Context) (uuid.UUID, error) {
	id := uuid.New()
	query := `INSERT INTO conversations (id, title) VALUES ($1, 'Rental assistant') RETURNING id`
	if err := s.DB.Pool.QueryRow(ctx, query, id).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return id, nil
}

func (s *Service) persistTurn(conversationID uuid.UUID, turn chat.Turn) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	parts, err := json.Marshal(turn.Parts)
	if err != nil {
		slog.Error("Failed to marshal turn parts", "error", err)
		return
	}

	_, err = s.DB.Pool.Exec(ctx,
		`INSERT INTO messages (id, conversation_id, role, parts) VALUES ($1, $2, $3, $4)`,
		turn.ID, conversationID, string(turn.Role), parts)
	if err != nil {
		slog.Error("Failed to persist chat turn", "error", err)
		return
	}

	_, _ = s.DB.Pool.Exec(ctx, `UPDATE conversations SET updated_at = NOW() WHERE id = $1`, conversationID)
}
