package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/painel/internal/repository"
)

// StateRepository implements repository.StateRepository for SQLite
type StateRepository struct {
	db *DB
}

// NewStateRepository creates a new StateRepository
func NewStateRepository(db *DB) *StateRepository {
	return &StateRepository{db: db}
}

// Load returns the stored document for key. Absent or malformed documents
// yield repository.ErrNoData.
func (r *StateRepository) Load(ctx context.Context, key string) (json.RawMessage, error) {
	if !repository.IsStateKey(key) {
		return nil, repository.ErrUnknownKey
	}

	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM local_state WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNoData
		}
		return nil, fmt.Errorf("failed to load state %s: %w", key, err)
	}
	if !json.Valid([]byte(value)) {
		return nil, repository.ErrNoData
	}
	return json.RawMessage(value), nil
}

// Save replaces the stored document for key
func (r *StateRepository) Save(ctx context.Context, key string, value json.RawMessage) error {
	if !repository.IsStateKey(key) {
		return repository.ErrUnknownKey
	}
	if !json.Valid(value) {
		return repository.ErrInvalidInput
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO local_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save state %s: %w", key, err)
	}
	return nil
}
