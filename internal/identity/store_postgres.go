package identity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	id "vowcraft/pkg/domain"
)

// PostgresRecords persists anonymous_users rows in PostgreSQL.
type PostgresRecords struct {
	db *sql.DB
}

// NewPostgresRecords constructs a PostgreSQL-backed Records store.
func NewPostgresRecords(db *sql.DB) *PostgresRecords {
	return &PostgresRecords{db: db}
}

func (s *PostgresRecords) Create(ctx context.Context, anonID id.AnonID, createdAt time.Time) error {
	query := `
		INSERT INTO anonymous_users (id, created_at)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query, anonID.String(), createdAt)
	if err != nil {
		return fmt.Errorf("create anonymous user: %w", err)
	}
	return nil
}

func (s *PostgresRecords) Exists(ctx context.Context, anonID id.AnonID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM anonymous_users WHERE id = $1)`, anonID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check anonymous user: %w", err)
	}
	return exists, nil
}

func (s *PostgresRecords) Delete(ctx context.Context, anonID id.AnonID) error {
	// Deleting an absent row is a no-op so retried migrations stay idempotent.
	_, err := s.db.ExecContext(ctx, `DELETE FROM anonymous_users WHERE id = $1`, anonID.String())
	if err != nil {
		return fmt.Errorf("delete anonymous user: %w", err)
	}
	return nil
}
