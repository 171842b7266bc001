package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

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
	const query = `SELECT pref_value FROM preferences WHERE pref_key = $1`

	var value string
	if err := r.db.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get preference: %w", err)
	}
	return value, nil
}

func (r *PreferenceRepository) Set(ctx context.Context, values map[string]string) error {
	const query = `
        INSERT INTO preferences (pref_key, pref_value) VALUES ($1, $2)
        ON CONFLICT (pref_key) DO UPDATE SET pref_value = EXCLUDED.pref_value
    `

	batch := &pgx.Batch{}
	for k, v := range values {
		batch.Queue(query, k, v)
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("failed to set preferences: %w", err)
	}
	return nil
}

func (r *PreferenceRepository) Delete(ctx context.Context, keys ...string) error {
	const query = `DELETE FROM preferences WHERE pref_key = ANY($1)`

	if _, err := r.db.Exec(ctx, query, keys); err != nil {
		return fmt.Errorf("failed to delete preferences: %w", err)
	}
	return nil
}
