package saved

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/larsmk/homescout/pkg/database"
	"github.com/larsmk/homescout/pkg/listings"
)

// PostgresStore persists saved properties as JSONB payloads keyed by the
// provider-assigned id.
type PostgresStore struct {
	DB *database.PostgresDB
}

func NewPostgresStore(db *database.PostgresDB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Load(ctx context.Context) ([]listings.Property, error) {
	rows, err := s.DB.Pool.Query(ctx, `SELECT payload FROM saved_properties ORDER BY saved_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved properties: %w", err)
	}
	defer rows.Close()

	var properties []listings.Property
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan saved property: %w", err)
		}
		var p listings.Property
		if err := json.Unmarshal(payload, &p); err != nil {
			continue
		}
		properties = append(properties, p)
	}
	return properties, nil
}

func (s *PostgresStore) Put(ctx context.Context, property listings.Property) error {
	payload, err := json.Marshal(property)
	if err != nil {
		return fmt.Errorf("failed to marshal property: %w", err)
	}

	query := `
		INSERT INTO saved_properties (id, payload, saved_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload
	`
	if _, err := s.DB.Pool.Exec(ctx, query, string(property.ID), payload); err != nil {
		return fmt.Errorf("failed to insert saved property: %w", err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, id listings.ID) error {
	if _, err := s.DB.Pool.Exec(ctx, `DELETE FROM saved_properties WHERE id = $1`, string(id)); err != nil {
		return fmt.Errorf("failed to delete saved property: %w", err)
	}
	return nil
}
