package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dtroode/pokedex-client/internal/catalog"
	"github.com/dtroode/pokedex-client/internal/config"
	"github.com/dtroode/pokedex-client/internal/console"
	"github.com/dtroode/pokedex-client/internal/logger"
	"github.com/dtroode/pokedex-client/internal/model"
	"github.com/dtroode/pokedex-client/internal/repository/postgres"
	"github.com/dtroode/pokedex-client/internal/repository/sqlite"
	"github.com/dtroode/pokedex-client/internal/service"
	redisstore "github.com/dtroode/pokedex-client/internal/storage/redis"
	"github.com/dtroode/pokedex-client/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load() // optional .env for local runs

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	logAppVersion()

	identityStore, preferenceStore, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer closeStores()

	credentials, err := service.NewCredentials(ctx, identityStore, preferenceStore, logger)
	if err != nil {
		logger.Fatal("failed to initialize credentials", "error", err)
	}
	session := service.NewSession(credentials, token.NewBcrypt(cfg.Bcrypt.Cost), logger)
	defer session.Close()

	client, err := catalog.NewClient(catalog.Config{
		BaseURL:       cfg.Catalog.BaseURL,
		Timeout:       cfg.Catalog.Timeout,
		RatePerSecond: cfg.Catalog.RatePerSecond,
		Burst:         cfg.Catalog.Burst,
	}, logger)
	if err != nil {
		logger.Fatal("failed to create catalog client", "error", err)
	}
	browser := service.NewBrowser(client, cfg.Catalog.PageSize, logger)
	defer browser.Close()

	logger.Info("catalog client ready",
		"base_url", cfg.Catalog.BaseURL,
		"database_driver", cfg.Database.Driver,
		"session_backend", cfg.Session.Backend)

	c := console.New(session, browser, os.Stdout, logger)
	if err := c.Run(ctx, os.Stdin); err != nil {
		logger.Error("console stopped with error", "error", err)
	}

	logger.Info("shutting down")
}

// openStores builds the identity and preference stores selected by configuration.
// The returned function releases every opened connection.
func openStores(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.IdentityStore, model.PreferenceStore, func(), error) {
	var (
		identityStore   model.IdentityStore
		preferenceStore model.PreferenceStore
		closers         []io.Closer
	)

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Error("failed to close storage", "error", err)
			}
		}
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewConection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, db)
		identityStore = postgres.NewIdentityRepository(db)
		preferenceStore = postgres.NewPreferenceRepository(db)
	default:
		db, err := sqlite.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, db)
		identityStore = sqlite.NewIdentityRepository(db)
		preferenceStore = sqlite.NewPreferenceRepository(db)
	}

	if cfg.Session.Backend == config.SessionBackendRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			closeAll()
			return nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closers = append(closers, rdb)
		preferenceStore = redisstore.NewPreferenceStore(rdb, cfg.Redis.Namespace)
	}

	return identityStore, preferenceStore, closeAll, nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Fprintf(os.Stderr, tmpl, buildVersion, buildDate, buildCommit)
}
