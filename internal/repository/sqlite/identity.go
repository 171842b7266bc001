package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/pokedex-client/internal/model"
)

var _ model.IdentityStore = (*IdentityRepository)(nil)

type IdentityRepository struct {
	db *Connection
}

func NewIdentityRepository(db *Connection) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) Create(ctx context.Context, identity model.Identity) (model.Identity, error) {
	const query = `INSERT INTO identities (email, name, token, created_at)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT (email) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query,
		identity.Email, identity.DisplayName, identity.Token, identity.CreatedAt.UTC(),
	)
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to create identity: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return model.Identity{}, model.ErrDuplicateEmail
	}

	identity.CreatedAt = identity.CreatedAt.UTC()
	return identity, nil
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (model.Identity, error) {
	const query = `SELECT email, name, token, created_at FROM identities WHERE email = ?`

	identity, err := r.scan(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Identity{}, model.ErrNotFound
		}
		return model.Identity{}, fmt.Errorf("failed to get identity by email: %w", err)
	}

	return identity, nil
}

func (r *IdentityRepository) GetByEmailAndToken(ctx context.Context, email, token string) (model.Identity, error) {
	const query = `SELECT email, name, token, created_at FROM identities WHERE email = ? AND token = ?`

	identity, err := r.scan(r.db.QueryRowContext(ctx, query, email, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Identity{}, model.ErrNotFound
		}
		return model.Identity{}, fmt.Errorf("failed to get identity by email and token: %w", err)
	}

	return identity, nil
}

func (r *IdentityRepository) scan(row *sql.Row) (model.Identity, error) {
	var identity model.Identity
	err := row.Scan(&identity.Email, &identity.DisplayName, &identity.Token, &identity.CreatedAt)
	return identity, err
}
