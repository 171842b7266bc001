package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/pokedex-client/internal/mocks"
	"github.com/dtroode/pokedex-client/internal/model"
	"github.com/dtroode/pokedex-client/internal/testutil"
)

func TestCredentials_CreateIdentity(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t, newTestDB(t))

	identity, err := c.CreateIdentity(ctx, "ash@example.com", "Ash", "tok")
	require.NoError(t, err)
	assert.Equal(t, "ash@example.com", identity.Email)
	assert.Equal(t, "Ash", identity.DisplayName)

	found, err := c.FindByEmail(ctx, "ash@example.com")
	require.NoError(t, err)
	assert.Equal(t, "tok", found.Token)

	found, err = c.FindByEmailAndToken(ctx, "ash@example.com", "tok")
	require.NoError(t, err)
	assert.Equal(t, "Ash", found.DisplayName)

	_, err = c.FindByEmailAndToken(ctx, "ash@example.com", "other")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCredentials_CreateIdentity_DuplicateLeavesOriginal(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t, newTestDB(t))

	_, err := c.CreateIdentity(ctx, "ash@example.com", "Ash", "tok")
	require.NoError(t, err)

	_, err = c.CreateIdentity(ctx, "ash@example.com", "Gary", "tok2")
	require.ErrorIs(t, err, model.ErrDuplicateEmail)

	found, err := c.FindByEmail(ctx, "ash@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ash", found.DisplayName)
	assert.Equal(t, "tok", found.Token)
}

func TestCredentials_FindByEmail_NotFound(t *testing.T) {
	c := newTestCredentials(t, newTestDB(t))

	_, err := c.FindByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCredentials_SessionFlagRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	c := newTestCredentials(t, conn)

	var seen []bool
	cancel := c.ObserveSessionFlag().Subscribe(func(v bool) { seen = append(seen, v) })
	defer cancel()

	require.NoError(t, c.SetSessionFlag(ctx, "ash@example.com", "tok"))
	flag, err := c.SessionFlag(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SessionFlag{Email: "ash@example.com", Token: "tok"}, flag)

	// Same presence, no emission.
	require.NoError(t, c.SetSessionFlag(ctx, "ash@example.com", "tok2"))

	require.NoError(t, c.ClearSessionFlag(ctx))
	flag, err = c.SessionFlag(ctx)
	require.NoError(t, err)
	assert.False(t, flag.Present())

	assert.Equal(t, []bool{false, true, false}, seen)
}

func TestCredentials_SessionFlagSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)

	first := newTestCredentials(t, conn)
	require.NoError(t, first.SetSessionFlag(ctx, "ash@example.com", "tok"))

	second := newTestCredentials(t, conn)
	assert.True(t, second.ObserveSessionFlag().Value())
}

func TestCredentials_SetSessionFlag_RequiresBothValues(t *testing.T) {
	c := newTestCredentials(t, newTestDB(t))

	err := c.SetSessionFlag(context.Background(), "ash@example.com", "")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, c.ObserveSessionFlag().Value())
}

func TestCredentials_CurrentIdentity(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t, newTestDB(t))

	_, err := c.CurrentIdentity(ctx)
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = c.CreateIdentity(ctx, "ash@example.com", "Ash", "tok")
	require.NoError(t, err)
	require.NoError(t, c.SetSessionFlag(ctx, "ash@example.com", "tok"))

	identity, err := c.CurrentIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ash", identity.DisplayName)

	// Stale flag pointing at a different token.
	require.NoError(t, c.SetSessionFlag(ctx, "ash@example.com", "stale"))
	_, err = c.CurrentIdentity(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCredentials_StorageFaults(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	identityStore := &mocks.IdentityStore{}
	preferenceStore := &mocks.PreferenceStore{}

	preferenceStore.On("Get", mock.Anything, model.PreferenceEmail).Return("", model.ErrNotFound)
	preferenceStore.On("Get", mock.Anything, model.PreferenceToken).Return("", model.ErrNotFound)
	preferenceStore.On("Set", mock.Anything, mock.Anything).Return(boom)
	preferenceStore.On("Delete", mock.Anything, model.PreferenceEmail, model.PreferenceToken).Return(boom)
	identityStore.On("GetByEmail", mock.Anything, "ash@example.com").Return(model.Identity{}, boom)

	c, err := NewCredentials(ctx, identityStore, preferenceStore, testutil.MakeNoopLogger())
	require.NoError(t, err)

	var fault *model.StorageFault

	_, err = c.CreateIdentity(ctx, "ash@example.com", "Ash", "tok")
	require.ErrorAs(t, err, &fault)
	assert.ErrorIs(t, err, boom)

	_, err = c.FindByEmail(ctx, "ash@example.com")
	require.ErrorAs(t, err, &fault)

	err = c.SetSessionFlag(ctx, "ash@example.com", "tok")
	require.ErrorAs(t, err, &fault)
	assert.False(t, c.ObserveSessionFlag().Value())

	err = c.ClearSessionFlag(ctx)
	require.ErrorAs(t, err, &fault)

	identityStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCredentials_NewFailsOnUnreadableFlag(t *testing.T) {
	preferenceStore := &mocks.PreferenceStore{}
	preferenceStore.On("Get", mock.Anything, model.PreferenceEmail).Return("", errors.New("connection refused"))

	_, err := NewCredentials(context.Background(), &mocks.IdentityStore{}, preferenceStore, testutil.MakeNoopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load session flag")
}

func TestCredentials_CreateIdentityStampsTime(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = time.Now })

	identityStore := &mocks.IdentityStore{}
	preferenceStore := &mocks.PreferenceStore{}
	preferenceStore.On("Get", mock.Anything, mock.Anything).Return("", model.ErrNotFound)
	identityStore.On("GetByEmail", mock.Anything, "ash@example.com").Return(model.Identity{}, model.ErrNotFound)
	identityStore.On("Create", mock.Anything, mock.MatchedBy(func(i model.Identity) bool {
		return i.CreatedAt.Equal(fixed) && i.Token == "tok"
	})).Return(model.Identity{Email: "ash@example.com", CreatedAt: fixed}, nil)

	c, err := NewCredentials(context.Background(), identityStore, preferenceStore, testutil.MakeNoopLogger())
	require.NoError(t, err)

	identity, err := c.CreateIdentity(context.Background(), "ash@example.com", "Ash", "tok")
	require.NoError(t, err)
	assert.Equal(t, fixed, identity.CreatedAt)
	identityStore.AssertExpectations(t)
}
