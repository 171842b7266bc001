package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dtroode/pokedex-client/internal/logger"
	"github.com/dtroode/pokedex-client/internal/model"
	"github.com/dtroode/pokedex-client/internal/stream"
)

// Credentials persists identities and the session flag. It is the only writer
// of both.
type Credentials struct {
	identityStore   model.IdentityStore
	preferenceStore model.PreferenceStore
	logger          *logger.Logger

	mu   sync.Mutex // serializes session flag writes
	flag *stream.Stream[bool]
}

// NewCredentials creates the credential store and loads the persisted session flag.
func NewCredentials(
	ctx context.Context,
	identityStore model.IdentityStore,
	preferenceStore model.PreferenceStore,
	logger *logger.Logger,
) (*Credentials, error) {
	c := &Credentials{
		identityStore:   identityStore,
		preferenceStore: preferenceStore,
		logger:          logger,
	}

	flag, err := c.SessionFlag(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session flag: %w", err)
	}
	c.flag = stream.New(flag.Present())

	return c, nil
}

func (c *Credentials) CreateIdentity(ctx context.Context, email, displayName, token string) (model.Identity, error) {
	c.logger.Debug("Credentials service: creating identity",
		"email", email)

	_, err := c.identityStore.GetByEmail(ctx, email)
	if err == nil {
		c.logger.Info("Credentials service: email already registered",
			"email", email)
		return model.Identity{}, model.ErrDuplicateEmail
	}
	if !errors.Is(err, model.ErrNotFound) {
		c.logger.Error("Credentials service: failed to get identity by email",
			"email", email,
			"error", err.Error())
		return model.Identity{}, &model.StorageFault{Op: "get identity", Err: err}
	}

	identity, err := c.identityStore.Create(ctx, model.Identity{
		Email:       email,
		DisplayName: displayName,
		Token:       token,
		CreatedAt:   timeNow(),
	})
	if errors.Is(err, model.ErrDuplicateEmail) {
		return model.Identity{}, err
	}
	if err != nil {
		c.logger.Error("Credentials service: failed to create identity",
			"email", email,
			"error", err.Error())
		return model.Identity{}, &model.StorageFault{Op: "create identity", Err: err}
	}

	c.logger.Info("Credentials service: identity created",
		"email", email)

	return identity, nil
}

func (c *Credentials) FindByEmail(ctx context.Context, email string) (model.Identity, error) {
	identity, err := c.identityStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.Identity{}, err
	}
	if err != nil {
		return model.Identity{}, &model.StorageFault{Op: "get identity", Err: err}
	}
	return identity, nil
}

func (c *Credentials) FindByEmailAndToken(ctx context.Context, email, token string) (model.Identity, error) {
	identity, err := c.identityStore.GetByEmailAndToken(ctx, email, token)
	if errors.Is(err, model.ErrNotFound) {
		return model.Identity{}, err
	}
	if err != nil {
		return model.Identity{}, &model.StorageFault{Op: "get identity by token", Err: err}
	}
	return identity, nil
}

// SessionFlag reads the persisted flag. Missing entries read as empty.
func (c *Credentials) SessionFlag(ctx context.Context) (model.SessionFlag, error) {
	email, err := c.preference(ctx, model.PreferenceEmail)
	if err != nil {
		return model.SessionFlag{}, err
	}
	token, err := c.preference(ctx, model.PreferenceToken)
	if err != nil {
		return model.SessionFlag{}, err
	}
	return model.SessionFlag{Email: email, Token: token}, nil
}

func (c *Credentials) SetSessionFlag(ctx context.Context, email, token string) error {
	if email == "" || token == "" {
		return model.NewValidationError("session", "required", "email and token are required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.preferenceStore.Set(ctx, map[string]string{
		model.PreferenceEmail: email,
		model.PreferenceToken: token,
	})
	if err != nil {
		c.logger.Error("Credentials service: failed to set session flag",
			"email", email,
			"error", err.Error())
		return &model.StorageFault{Op: "set session flag", Err: err}
	}

	c.publish(true)
	return nil
}

func (c *Credentials) ClearSessionFlag(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.preferenceStore.Delete(ctx, model.PreferenceEmail, model.PreferenceToken); err != nil {
		c.logger.Error("Credentials service: failed to clear session flag",
			"error", err.Error())
		return &model.StorageFault{Op: "clear session flag", Err: err}
	}

	c.publish(false)
	return nil
}

// ObserveSessionFlag returns the authenticated signal. It emits only when the
// presence of a complete (email, token) pair changes.
func (c *Credentials) ObserveSessionFlag() *stream.Stream[bool] {
	return c.flag
}

// CurrentIdentity resolves the identity referenced by the session flag.
func (c *Credentials) CurrentIdentity(ctx context.Context) (model.Identity, error) {
	flag, err := c.SessionFlag(ctx)
	if err != nil {
		return model.Identity{}, err
	}
	if !flag.Present() {
		return model.Identity{}, model.ErrNotFound
	}
	return c.FindByEmailAndToken(ctx, flag.Email, flag.Token)
}

func (c *Credentials) preference(ctx context.Context, key string) (string, error) {
	v, err := c.preferenceStore.Get(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", &model.StorageFault{Op: "get preference " + key, Err: err}
	}
	return v, nil
}

func (c *Credentials) publish(present bool) {
	if c.flag.Value() != present {
		c.flag.Set(present)
	}
}
