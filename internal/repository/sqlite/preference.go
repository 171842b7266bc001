package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/dtroode/pokedex-client/internal/model"
)

var _ model.PreferenceStore = (*PreferenceRepository)(nil)

type PreferenceRepository struct {
	db *Connection
}

func NewPreferenceRepository(db *Connection) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT pref_value FROM preferences WHERE pref_key = ?`

	var value string
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get preference: %w", err)
	}

	return value, nil
}

// Set writes all values in one transaction.
func (r *PreferenceRepository) Set(ctx context.Context, values map[string]string) error {
	const query = `INSERT INTO preferences (pref_key, pref_value) VALUES (?, ?)
			  ON CONFLICT (pref_key) DO UPDATE SET pref_value = excluded.pref_value`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, query, k, values[k]); err != nil {
			return fmt.Errorf("failed to set preference %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit preferences: %w", err)
	}
	return nil
}

// Delete removes keys in one transaction. Missing keys are ignored.
func (r *PreferenceRepository) Delete(ctx context.Context, keys ...string) error {
	const query = `DELETE FROM preferences WHERE pref_key = ?`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, query, k); err != nil {
			return fmt.Errorf("failed to delete preference %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit preference removal: %w", err)
	}
	return nil
}
