package postgres

import (
	"context"
	"fmt"

	"cloudstorage/internal/domain/repositories"
	"cloudstorage/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	filesTable   = "files"
	foldersTable = "folders"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Logger *logger.Logger
}

// CreateConnectionPool creates a pgx connection pool and pings it.
//
// Poolers in transaction mode (PgBouncer, Supabase port 6543) cannot hold
// prepared statements, so on that port the exec mode switches to
// QueryExecModeCacheDescribe unless the URL sets default_query_exec_mode.
func CreateConnectionPool(ctx context.Context, databaseURL string, log *logger.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		log.Debug().Uint16("port", 6543).Msg("auto-configured cache_describe mode for pooler compatibility")
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, wrapError("create connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapError("ping database", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
