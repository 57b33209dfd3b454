package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/content"
	"trivia-quiz-service/internal/infra/file"
	"trivia-quiz-service/internal/infra/memory"
	pgstore "trivia-quiz-service/internal/infra/postgres"
	infraredis "trivia-quiz-service/internal/infra/redis"
	"trivia-quiz-service/internal/infra/sqlite"
)

// backend holds the connections and stores selected by config.
type backend struct {
	storage  app.Storage
	banks    app.BankRepository
	sessions app.SessionRepository
	redis    *redis.Client
	pool     *pgxpool.Pool
	closers  []func()
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	b := &backend{}

	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = b.redis.Close() })
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool
		b.closers = append(b.closers, pool.Close)
	}

	storage, err := b.openStorage(cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.storage = storage

	var loader memory.BankLoader = memory.NewStaticBankLoader(content.Banks())
	if b.pool != nil {
		loader = memory.NewChainBankLoader(pgstore.NewBankLoader(b.pool), loader)
	}

	bankTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if b.redis != nil {
		b.banks = infraredis.NewBankRepository(b.redis, loader, bankTTL)
		b.sessions = infraredis.NewSessionStore(b.redis, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		b.banks = memory.NewBankRepository(loader, bankTTL)
		b.sessions = memory.NewSessionStore()
	}
	return b, nil
}

func (b *backend) openStorage(cfg config.Config) (app.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		return file.NewStorage(cfg.Storage.Path)
	case config.DriverRedis:
		return infraredis.NewStorage(b.redis, cfg.Redis.Prefix), nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = store.Close() })
		return store, nil
	case config.DriverPostgres:
		return pgstore.NewStorage(b.pool), nil
	case config.DriverMemory, "":
		log.Printf("storage driver memory: scores are lost on restart")
		return memory.NewStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func (b *backend) scoreStore(cfg config.Config) *app.LocalScoreStore {
	return app.NewLocalScoreStore(b.storage, cfg.Storage.Key)
}

// Close releases connections in reverse order of opening.
func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
