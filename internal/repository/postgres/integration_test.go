//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/pokedex-client/internal/model"
	repo "github.com/dtroode/pokedex-client/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "pokedex_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/pokedex_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	t.Run("identity_repository", func(t *testing.T) {
		ir := repo.NewIdentityRepository(conn)
		identity := model.Identity{
			Email:       "ash@example.com",
			DisplayName: "ash",
			Token:       "tok",
			CreatedAt:   time.Now().UTC(),
		}
		saved, err := ir.Create(ctx, identity)
		require.NoError(t, err)
		require.Equal(t, identity.Email, saved.Email)

		byEmail, err := ir.GetByEmail(ctx, identity.Email)
		require.NoError(t, err)
		require.Equal(t, "ash", byEmail.DisplayName)

		byToken, err := ir.GetByEmailAndToken(ctx, identity.Email, "tok")
		require.NoError(t, err)
		require.Equal(t, identity.Email, byToken.Email)

		_, err = ir.GetByEmailAndToken(ctx, identity.Email, "wrong")
		require.ErrorIs(t, err, model.ErrNotFound)

		_, err = ir.Create(ctx, model.Identity{Email: identity.Email, DisplayName: "other", Token: "x", CreatedAt: time.Now()})
		require.ErrorIs(t, err, model.ErrDuplicateEmail)

		unchanged, err := ir.GetByEmail(ctx, identity.Email)
		require.NoError(t, err)
		require.Equal(t, "tok", unchanged.Token)
	})

	t.Run("preference_repository", func(t *testing.T) {
		pr := repo.NewPreferenceRepository(conn)

		require.NoError(t, pr.Set(ctx, map[string]string{
			model.PreferenceEmail: "ash@example.com",
			model.PreferenceToken: "tok",
		}))

		v, err := pr.Get(ctx, model.PreferenceToken)
		require.NoError(t, err)
		require.Equal(t, "tok", v)

		require.NoError(t, pr.Delete(ctx, model.PreferenceEmail, model.PreferenceToken))

		_, err = pr.Get(ctx, model.PreferenceEmail)
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}
