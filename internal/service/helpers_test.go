package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/pokedex-client/internal/repository/sqlite"
	"github.com/dtroode/pokedex-client/internal/testutil"
	"github.com/dtroode/pokedex-client/internal/token"
)

func newTestDB(t *testing.T) *sqlite.Connection {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "pokedex.db")
	conn, err := sqlite.NewConnection(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func newTestCredentials(t *testing.T, conn *sqlite.Connection) *Credentials {
	t.Helper()
	c, err := NewCredentials(context.Background(),
		sqlite.NewIdentityRepository(conn),
		sqlite.NewPreferenceRepository(conn),
		testutil.MakeNoopLogger())
	require.NoError(t, err)
	return c
}

func newTestSession(t *testing.T, c *Credentials) *Session {
	t.Helper()
	s := NewSession(c, token.NewBcrypt(bcrypt.MinCost), testutil.MakeNoopLogger())
	t.Cleanup(s.Close)
	return s
}

func ptr[T any](v T) *T {
	return &v
}
