package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"verbum/internal/domain"
	"verbum/internal/domain/models"
	"verbum/internal/domain/repositories"
)

// PostgresGrantLog implements the GrantLog interface using PostgreSQL.
// The event_id primary key enforces the deduplication contract.
type PostgresGrantLog struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewGrantLog creates a new PostgresGrantLog.
func NewGrantLog(config *RepositoryConfig) repositories.GrantLog {
	return &PostgresGrantLog{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Record appends the grant. A redelivered event id hits the primary key
// and surfaces as domain.ErrDuplicateGrant.
func (r *PostgresGrantLog) Record(ctx context.Context, grant models.Grant) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (event_id, user_id, plan_id, allotment, unlimited)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.Grants)

	// Unlimited grants keep allotment = 0; the flag wins on every read.
	count := grant.Allotment.Count
	if grant.Allotment.Unlimited {
		count = 0
	}

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		grant.EventID, grant.UserID, grant.PlanID, count, grant.Allotment.Unlimited)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("event %s: %w", grant.EventID, domain.ErrDuplicateGrant)
		}
		return fmt.Errorf("record grant: %w", err)
	}

	r.logger.Debug("grant recorded",
		"event_id", grant.EventID,
		"user_id", grant.UserID,
		"plan_id", grant.PlanID,
	)

	return nil
}
