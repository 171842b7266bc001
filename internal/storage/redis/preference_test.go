package redis

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/pokedex-client/internal/model"
)

func TestPreferenceStore_Get(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	store := NewPreferenceStore(client, "pokedex")

	mock.ExpectHGet("prefs:pokedex", "email").SetVal("ash@example.com")
	mock.ExpectHGet("prefs:pokedex", "token").RedisNil()
	mock.ExpectHGet("prefs:pokedex", "email").SetErr(assert.AnError)

	v, err := store.Get(ctx, "email")
	require.NoError(t, err)
	assert.Equal(t, "ash@example.com", v)

	_, err = store.Get(ctx, "token")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = store.Get(ctx, "email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get preference")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceStore_SetWritesSortedPairs(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	store := NewPreferenceStore(client, "pokedex")

	mock.ExpectHSet("prefs:pokedex", "email", "ash@example.com", "token", "tok").SetVal(2)

	err := store.Set(ctx, map[string]string{"token": "tok", "email": "ash@example.com"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceStore_SetError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewPreferenceStore(client, "pokedex")

	mock.ExpectHSet("prefs:pokedex", "email", "a").SetErr(assert.AnError)

	err := store.Set(context.Background(), map[string]string{"email": "a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPreferenceStore_EmptyOperationsSkipRedis(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewPreferenceStore(client, "pokedex")

	require.NoError(t, store.Set(context.Background(), nil))
	require.NoError(t, store.Delete(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceStore_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewPreferenceStore(client, "pokedex")

	mock.ExpectHDel("prefs:pokedex", "email", "token").SetVal(2)
	mock.ExpectHDel("prefs:pokedex", "email").SetErr(assert.AnError)

	require.NoError(t, store.Delete(context.Background(), "email", "token"))

	err := store.Delete(context.Background(), "email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete preferences")

	assert.NoError(t, mock.ExpectationsWereMet())
}
