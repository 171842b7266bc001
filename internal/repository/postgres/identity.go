package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/pokedex-client/internal/model"
)

var _ model.IdentityStore = (*IdentityRepository)(nil)

type IdentityRepository struct {
	db *Connection
}

func NewIdentityRepository(db *Connection) *IdentityRepository {
	return &IdentityRepository{
		db: db,
	}
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (model.Identity, error) {
	var identity model.Identity
	query := `SELECT email, name, token, created_at
			  FROM identities WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&identity.Email, &identity.DisplayName, &identity.Token, &identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Identity{}, model.ErrNotFound
		}
		return model.Identity{}, fmt.Errorf("failed to get identity by email: %w", err)
	}

	return identity, nil
}

func (r *IdentityRepository) GetByEmailAndToken(ctx context.Context, email, token string) (model.Identity, error) {
	var identity model.Identity
	query := `SELECT email, name, token, created_at
			  FROM identities WHERE email = $1 AND token = $2`

	err := r.db.QueryRow(ctx, query, email, token).Scan(
		&identity.Email, &identity.DisplayName, &identity.Token, &identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Identity{}, model.ErrNotFound
		}
		return model.Identity{}, fmt.Errorf("failed to get identity by email and token: %w", err)
	}

	return identity, nil
}

// Create inserts identity. An existing row with the same email is left untouched
// and reported as model.ErrDuplicateEmail.
func (r *IdentityRepository) Create(ctx context.Context, identity model.Identity) (model.Identity, error) {
	query := `INSERT INTO identities (email, name, token, created_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (email) DO NOTHING
			  RETURNING email, name, token, created_at`

	var saved model.Identity
	err := r.db.QueryRow(ctx, query,
		identity.Email, identity.DisplayName, identity.Token, identity.CreatedAt,
	).Scan(
		&saved.Email, &saved.DisplayName, &saved.Token, &saved.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Identity{}, model.ErrDuplicateEmail
		}
		return model.Identity{}, fmt.Errorf("failed to create identity: %w", err)
	}

	return saved, nil
}
