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

// PostgresQuotaLedger implements the QuotaLedger interface using PostgreSQL.
//
// Per-user serialization of the check-and-decrement comes from the
// database's row-level locking: the conditional UPDATE in TryConsume is a
// single atomic read-modify-write, so two concurrent consumers of the same
// row cannot both observe remaining = 1 and both succeed.
type PostgresQuotaLedger struct {
	pool             *pgxpool.Pool
	tables           *TableNames
	logger           *slog.Logger
	defaultAllotment int
}

// NewQuotaLedger creates a new PostgresQuotaLedger. Unseen users are lazily
// initialized with defaultAllotment on first reference.
func NewQuotaLedger(config *RepositoryConfig, defaultAllotment int) repositories.QuotaLedger {
	return &PostgresQuotaLedger{
		pool:             config.Pool,
		tables:           config.Tables,
		logger:           config.Logger,
		defaultAllotment: defaultAllotment,
	}
}

// ensureRecord lazily creates the user's ledger row with the default
// starting allotment. A no-op for already-seen users.
func (r *PostgresQuotaLedger) ensureRecord(ctx context.Context, userID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, remaining, unlimited)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`, r.tables.Quotas)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, userID, r.defaultAllotment); err != nil {
		return fmt.Errorf("ensure quota record: %w", err)
	}

	return nil
}

// Remaining returns the user's current standing.
func (r *PostgresQuotaLedger) Remaining(ctx context.Context, userID string) (models.Allowance, error) {
	if err := r.ensureRecord(ctx, userID); err != nil {
		return models.Allowance{}, err
	}

	query := fmt.Sprintf(`
		SELECT remaining, unlimited FROM %s WHERE user_id = $1
	`, r.tables.Quotas)

	var remaining int
	var unlimited bool
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(&remaining, &unlimited)
	if err != nil {
		return models.Allowance{}, fmt.Errorf("get quota record: %w", err)
	}

	if unlimited {
		return models.UnlimitedAllowance, nil
	}
	return models.Finite(remaining), nil
}

// TryConsume atomically checks and decrements the user's standing.
// The unlimited tier matches the WHERE clause but is never decremented.
func (r *PostgresQuotaLedger) TryConsume(ctx context.Context, userID string) (bool, error) {
	if err := r.ensureRecord(ctx, userID); err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET remaining = CASE WHEN unlimited THEN remaining ELSE remaining - 1 END,
		    updated_at = now()
		WHERE user_id = $1 AND (unlimited OR remaining > 0)
		RETURNING remaining, unlimited
	`, r.tables.Quotas)

	var remaining int
	var unlimited bool
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(&remaining, &unlimited)
	if err != nil {
		if IsPgNoRowsError(err) {
			// Row exists (ensured above) but remaining = 0: quota exhausted.
			return false, nil
		}
		if IsPgCheckViolation(err) {
			return false, fmt.Errorf("quota went negative for user %s: %w", userID, domain.ErrInternal)
		}
		return false, fmt.Errorf("consume quota: %w", err)
	}

	r.logger.Debug("quota consumed",
		"user_id", userID,
		"remaining", remaining,
		"unlimited", unlimited,
	)

	return true, nil
}

// Replenish overwrites the user's standing with the given allotment.
func (r *PostgresQuotaLedger) Replenish(ctx context.Context, userID string, allotment models.Allowance) error {
	if !allotment.Valid() {
		return fmt.Errorf("%w: negative allotment %d", domain.ErrValidation, allotment.Count)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, remaining, unlimited)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET remaining = EXCLUDED.remaining,
		    unlimited = EXCLUDED.unlimited,
		    updated_at = now()
	`, r.tables.Quotas)

	// Unlimited rows keep remaining = 0; the flag wins on every read.
	count := allotment.Count
	if allotment.Unlimited {
		count = 0
	}

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, userID, count, allotment.Unlimited); err != nil {
		return fmt.Errorf("replenish quota: %w", err)
	}

	r.logger.Info("quota replenished",
		"user_id", userID,
		"allotment", allotment.String(),
	)

	return nil
}
