// Package bootstrap opens the infrastructure shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/config"
	"github.com/oksasatya/go-library-records/internal/application"
	repo "github.com/oksasatya/go-library-records/internal/domain/repository"
	"github.com/oksasatya/go-library-records/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-library-records/internal/infrastructure/postgres"
	"github.com/oksasatya/go-library-records/internal/infrastructure/search"
	"github.com/oksasatya/go-library-records/pkg/helpers"
)

func noop() {}

// OpenStore returns the store selected by STORE_DRIVER and a close func.
// Postgres is migrated first when MIGRATIONS_ENABLED is set.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repo.Store, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory store; data is lost on exit")
		return memory.NewStore(), noop, nil
	case "postgres":
	default:
		return nil, noop, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	dsn := cfg.PostgresDSN()
	if cfg.MigrationsEnabled {
		if err := pginfra.RunMigrations(dsn, logger); err != nil {
			return nil, noop, err
		}
	}
	pool, err := pginfra.NewPool(ctx, dsn, pginfra.PoolConfig{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
		MaxConnIdleTime: cfg.DBMaxConnIdle,
	})
	if err != nil {
		return nil, noop, fmt.Errorf("connect postgres: %w", err)
	}
	return pginfra.NewStore(pool), pool.Close, nil
}

// OpenPublisher returns the RabbitMQ publisher when events are enabled and a
// no-op publisher otherwise.
func OpenPublisher(cfg *config.Config) (application.EventPublisher, func(), error) {
	if !cfg.EventsEnabled {
		return application.NopPublisher{}, noop, nil
	}
	pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQLoanQueue)
	if err != nil {
		return nil, noop, fmt.Errorf("amqp publisher: %w", err)
	}
	return pub, pub.Close, nil
}

// OpenIndexer returns the Elasticsearch book index when search is enabled,
// creating the index if needed. It returns nil otherwise.
func OpenIndexer(ctx context.Context, cfg *config.Config) (application.BookIndexer, error) {
	if !cfg.SearchEnabled {
		return nil, nil
	}
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	idx := search.NewBookIndex(es, cfg.ESBooksIndex)
	if err := idx.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensure index %q: %w", cfg.ESBooksIndex, err)
	}
	return idx, nil
}
