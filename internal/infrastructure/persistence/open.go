// Package persistence selects and opens the configured record store.
package persistence

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/alem-hub/petquest/config"
	"github.com/alem-hub/petquest/internal/domain/player"
	"github.com/alem-hub/petquest/internal/infrastructure/persistence/file"
	pgstore "github.com/alem-hub/petquest/internal/infrastructure/persistence/postgres"
	redisstore "github.com/alem-hub/petquest/internal/infrastructure/persistence/redis"
)

// Opened is a ready record store plus the function that releases its
// connections. Migrator is set for the postgres backend only.
type Opened struct {
	Store    player.Store
	Migrator *pgstore.Migrator
	Close    func()
}

// Open connects the backend named in cfg. Postgres schemas are migrated
// before the store is returned.
func Open(ctx context.Context, cfg config.StorageConfig, log zerolog.Logger) (*Opened, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		log.Info().Str("path", cfg.DataFile).Msg("using file record store")
		return &Opened{Store: file.NewStore(cfg.DataFile), Close: func() {}}, nil

	case config.BackendRedis:
		rcfg := redisstore.DefaultConfig()
		rcfg.Addr = cfg.RedisAddr
		rcfg.Password = cfg.RedisPassword
		rcfg.DB = cfg.RedisDB

		client, err := redisstore.NewClient(ctx, rcfg)
		if err != nil {
			return nil, err
		}

		key := cfg.RedisKey
		if key == "" {
			key = redisstore.DefaultRecordsKey
		}
		ttl := cfg.RedisLockTTL
		if ttl <= 0 {
			ttl = redisstore.TTLDistributedLock
		}

		store := redisstore.NewStore(client,
			redisstore.WithKey(key),
			redisstore.WithLock(redisstore.NewLock(client, redisstore.LockKey(key), ttl)),
		)
		log.Info().Str("addr", cfg.RedisAddr).Str("key", key).Msg("using redis record store")
		return &Opened{Store: store, Close: func() { _ = client.Close() }}, nil

	case config.BackendPostgres:
		conn, err := pgstore.NewConnection(ctx, pgstore.DefaultConfig(cfg.DatabaseURL))
		if err != nil {
			return nil, err
		}
		migrator := pgstore.NewMigrator(conn)
		if err := migrator.Migrate(ctx); err != nil {
			conn.Close()
			return nil, err
		}
		log.Info().Msg("using postgres record store")
		return &Opened{Store: pgstore.NewStore(conn), Migrator: migrator, Close: conn.Close}, nil

	default:
		return nil, fmt.Errorf("persistence: unknown backend %q", cfg.Backend)
	}
}
