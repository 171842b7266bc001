package model

import (
	"context"
	"time"
)

// Preference keys whose joint presence encodes the session flag.
const (
	PreferenceEmail = "email"
	PreferenceToken = "token"
)

// IdentityStore defines persistence operations for identities.
type IdentityStore interface {
	Create(ctx context.Context, identity Identity) (Identity, error)
	GetByEmail(ctx context.Context, email string) (Identity, error)
	GetByEmailAndToken(ctx context.Context, email, token string) (Identity, error)
}

// PreferenceStore is a durable string key-value store.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// CredentialHasher derives the stored token from a password and checks it back.
type CredentialHasher interface {
	Derive(password string) (string, error)
	Verify(token, password string) bool
}

// Identity is a registered user's durable credential record.
type Identity struct {
	Email       string
	DisplayName string
	Token       string
	CreatedAt   time.Time
}

// SessionFlag marks the currently logged in identity.
type SessionFlag struct {
	Email string
	Token string
}

// Present reports whether both halves of the flag are set.
func (f SessionFlag) Present() bool {
	return f.Email != "" && f.Token != ""
}
