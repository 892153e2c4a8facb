package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Get returns the value stored under key.
// Returns nil, nil if the key doesn't exist.
func (s *PGStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value json.RawMessage
	err := s.db.QueryRow(ctx,
		`SELECT value FROM workflow_kv WHERE key = $1`, key,
	).Scan(&value)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get %s: %w", key, err)
	}

	return value, nil
}

// Set inserts or replaces the value under key.
// The value must be valid JSON.
func (s *PGStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO workflow_kv (key, value, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, json.RawMessage(value),
	)
	if err != nil {
		return fmt.Errorf("postgres: set %s: %w", key, err)
	}
	return nil
}

// Delete removes the value under key.
// No error if the key doesn't exist.
func (s *PGStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM workflow_kv WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("postgres: delete %s: %w", key, err)
	}
	return nil
}
