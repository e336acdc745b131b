package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"verbum/internal/domain/models"
	"verbum/internal/domain/repositories"
)

// PostgresConversationStore implements the ConversationStore interface
// using PostgreSQL. Turn order is the BIGSERIAL insertion order.
type PostgresConversationStore struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewConversationStore creates a new PostgresConversationStore
func NewConversationStore(config *RepositoryConfig) repositories.ConversationStore {
	return &PostgresConversationStore{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// AppendTurn adds a turn to the end of the user's history.
func (r *PostgresConversationStore) AppendTurn(ctx context.Context, userID string, turn models.Turn) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, role, content, created_at)
		VALUES ($1, $2, $3, $4)
	`, r.tables.Turns)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, userID, turn.Role, turn.Content, turn.CreatedAt); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}

	return nil
}

// History returns the user's turns in insertion order.
func (r *PostgresConversationStore) History(ctx context.Context, userID string) ([]models.Turn, error) {
	query := fmt.Sprintf(`
		SELECT role, content, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY id
	`, r.tables.Turns)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var turns []models.Turn
	for rows.Next() {
		var turn models.Turn
		if err := rows.Scan(&turn.Role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	// Return empty slice instead of nil
	if turns == nil {
		turns = []models.Turn{}
	}

	return turns, nil
}

// Reset discards the user's entire history.
func (r *PostgresConversationStore) Reset(ctx context.Context, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, r.tables.Turns)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("reset history: %w", err)
	}

	r.logger.Info("conversation reset",
		"user_id", userID,
		"turns_deleted", tag.RowsAffected(),
	)

	return nil
}
