// Package bootstrap wires configuration into stores, lockers, verifiers and services.
package bootstrap

import (
	"context"
	"fmt"

	"cloudstorage/internal/config"
	"cloudstorage/internal/domain/repositories"
	repo "cloudstorage/internal/domain/repositories/storage"
	"cloudstorage/internal/logger"
	"cloudstorage/internal/repository/memory"
	"cloudstorage/internal/repository/mongodb"
	"cloudstorage/internal/repository/postgres"
	"cloudstorage/internal/repository/postgres/migrations"
)

// Store is an opened document store
type Store struct {
	Files     repo.FileRepository
	Folders   repo.FolderRepository
	TxManager repositories.TransactionManager
	// Ping reports whether the backend is reachable
	Ping  func(ctx context.Context) error
	Close func()
}

// OpenStore connects the configured driver. Postgres schemas are migrated on open.
func OpenStore(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return NewMemoryStore(memory.NewStore()), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// NewMemoryStore wraps an in-process store
func NewMemoryStore(s *memory.Store) *Store {
	return &Store{
		Files:     s.Files(),
		Folders:   s.Folders(),
		TxManager: repositories.NewBestEffortTransactionManager(),
		Ping:      func(context.Context) error { return nil },
		Close:     func() {},
	}
}

func openPostgres(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Store, error) {
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigratePool(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().
		Int32("max_conns", pool.Config().MaxConns).
		Int32("min_conns", pool.Config().MinConns).
		Msg("database connected")

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Logger: log}

	var txManager repositories.TransactionManager = repositories.NewBestEffortTransactionManager()
	if cfg.AtomicTreeWrites {
		txManager = postgres.NewTransactionManager(pool, log)
		log.Info().Msg("tree mutations run in a single transaction")
	}

	return &Store{
		Files:     postgres.NewFileRepository(repoConfig),
		Folders:   postgres.NewFolderRepository(repoConfig),
		TxManager: txManager,
		Ping:      pool.Ping,
		Close:     pool.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Store, error) {
	client, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
	if err != nil {
		return nil, err
	}

	return &Store{
		Files:     mongodb.NewFileRepository(db),
		Folders:   mongodb.NewFolderRepository(db),
		TxManager: repositories.NewBestEffortTransactionManager(),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		Close: func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect failed")
			}
		},
	}, nil
}
