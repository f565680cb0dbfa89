package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	id "vowcraft/pkg/domain"
	"vowcraft/pkg/platform/sentinel"
)

// PostgresStore persists user records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ensure(ctx context.Context, userID id.UserID, createdAt time.Time) error {
	query := `
		INSERT INTO users (id, pro, created_at)
		VALUES ($1, FALSE, $2)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, userID.String(), createdAt); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID id.UserID) (*User, error) {
	query := `SELECT id, pro, pro_since, created_at FROM users WHERE id = $1`

	var (
		u        User
		rawID    string
		proSince sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, userID.String()).Scan(&rawID, &u.Pro, &proSince, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	parsed, err := id.ParseUserID(rawID)
	if err != nil {
		return nil, err
	}
	u.ID = parsed
	if proSince.Valid {
		u.ProSince = &proSince.Time
	}
	return &u, nil
}

func (s *PostgresStore) MarkPro(ctx context.Context, userID id.UserID, since time.Time) error {
	query := `
		UPDATE users
		SET pro = TRUE, pro_since = COALESCE(pro_since, $2)
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, userID.String(), since)
	if err != nil {
		return fmt.Errorf("mark user pro: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark user pro rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
