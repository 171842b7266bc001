package token

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/pokedex-client/internal/model"
)

var _ model.CredentialHasher = (*Bcrypt)(nil)

// Bcrypt derives identity tokens as salted bcrypt hashes of the password.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a hasher with the given cost. Out of range costs fall back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Derive hashes password into a token suitable for storage.
func (b *Bcrypt) Derive(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches token.
func (b *Bcrypt) Verify(token, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(token), []byte(password)) == nil
}
