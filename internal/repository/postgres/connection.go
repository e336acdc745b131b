package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"verbum/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Quotas string
	Turns  string
	Grants string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Quotas: fmt.Sprintf("%squotas", prefix),
		Turns:  fmt.Sprintf("%sturns", prefix),
		Grants: fmt.Sprintf("%sgrants", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// Port 6543 (transaction-pooling PgBouncer, e.g. Supabase's pooler) does not
// support prepared statements, so QueryExecModeCacheDescribe is selected there:
// it keeps the extended protocol but caches statement descriptions instead of
// prepared statements. An explicit default_query_exec_mode in the connection
// string takes precedence.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}

// EnsureSchema creates the quota and conversation tables if they do not
// exist. Any storage with atomic per-key read-modify-write satisfies the
// durability contract; this is the reference layout.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	quotas := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			user_id    TEXT PRIMARY KEY,
			remaining  INTEGER NOT NULL CHECK (remaining >= 0),
			unlimited  BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, tables.Quotas)

	turns := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         BIGSERIAL PRIMARY KEY,
			user_id    TEXT NOT NULL,
			role       TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, tables.Turns)

	turnsIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_user_id_idx ON %s (user_id, id)
	`, tables.Turns, tables.Turns)

	// The event_id primary key is what makes webhook replay a no-op.
	grants := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			event_id   TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			plan_id    TEXT NOT NULL,
			allotment  INTEGER NOT NULL,
			unlimited  BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, tables.Grants)

	for _, ddl := range []string{quotas, turns, turnsIndex, grants} {
		if _, err := pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
