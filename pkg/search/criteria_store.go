package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/larsmk/homescout/pkg/database"
)

// DefaultCriteriaSlot is the only slot the UI exposes today.
const DefaultCriteriaSlot = "default"

// ErrNoCriteria is returned by Load when the slot has never been saved.
var ErrNoCriteria = errors.New("no saved criteria")

// CriteriaStore persists criteria snapshots as opaque JSON blobs. Saving is
// explicit (user action), never automatic; loading restores every field
// verbatim, the nuance prompt included.
type CriteriaStore struct {
	DB *database.PostgresDB
}

func NewCriteriaStore(db *database.PostgresDB) *CriteriaStore {
	return &CriteriaStore{DB: db}
}

func (s *CriteriaStore) Save(ctx context.Context, name string, c Criteria) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}

	query := `
		INSERT INTO saved_criteria (name, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`
	if _, err := s.DB.Pool.Exec(ctx, query, name, payload); err != nil {
		return fmt.Errorf("failed to save criteria: %w", err)
	}
	return nil
}

func (s *CriteriaStore) Load(ctx context.Context, name string) (Criteria, error) {
	var payload []byte
	err := s.DB.Pool.QueryRow(ctx, `SELECT payload FROM saved_criteria WHERE name = $1`, name).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return Criteria{}, ErrNoCriteria
	}
	if err != nil {
		return Criteria{}, fmt.Errorf("failed to load criteria: %w", err)
	}

	var c Criteria
	if err := json.Unmarshal(payload, &c); err != nil {
		return Criteria{}, fmt.Errorf("failed to unmarshal criteria: %w", err)
	}
	return c, nil
}
