package speech

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "vowcraft/pkg/domain"
	"vowcraft/pkg/platform/sentinel"
)

// PostgresStore persists speeches in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed speech store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const speechColumns = `id, user_id, anon_user_id, title, role, tone, tags, content, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, sp *Speech) error {
	query := `
		INSERT INTO speeches (` + speechColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		sp.ID.String(),
		nullableUserID(sp.OwnerUserID),
		nullableAnonID(sp.OwnerAnonID),
		sp.Title,
		sp.Role,
		sp.Tone,
		pq.Array(sp.Tags),
		sp.Content,
		sp.CreatedAt,
		sp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create speech: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, speechID id.SpeechID) (*Speech, error) {
	query := `SELECT ` + speechColumns + ` FROM speeches WHERE id = $1`
	sp, err := scanSpeech(s.db.QueryRowContext(ctx, query, speechID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find speech: %w", err)
	}
	return sp, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*Speech, error) {
	query := `SELECT ` + speechColumns + ` FROM speeches WHERE user_id = $1 ORDER BY created_at`
	return s.list(ctx, query, userID.String())
}

func (s *PostgresStore) ListByAnon(ctx context.Context, anonID id.AnonID) ([]*Speech, error) {
	query := `SELECT ` + speechColumns + ` FROM speeches WHERE anon_user_id = $1 ORDER BY created_at`
	return s.list(ctx, query, anonID.String())
}

func (s *PostgresStore) Update(ctx context.Context, sp *Speech) error {
	query := `
		UPDATE speeches
		SET title = $2, role = $3, tone = $4, tags = $5, content = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		sp.ID.String(),
		sp.Title,
		sp.Role,
		sp.Tone,
		pq.Array(sp.Tags),
		sp.Content,
		sp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update speech: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update speech rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, speechID id.SpeechID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM speeches WHERE id = $1`, speechID.String())
	if err != nil {
		return fmt.Errorf("delete speech: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete speech rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) TransferOwnership(ctx context.Context, from id.AnonID, to id.UserID) (int64, error) {
	// Setting user_id and clearing anon_user_id in one statement keeps the
	// exclusivity invariant and makes a retried transfer a no-op: a second
	// call matches zero rows.
	query := `
		UPDATE speeches
		SET user_id = $2, anon_user_id = NULL, updated_at = now()
		WHERE anon_user_id = $1
	`
	res, err := s.db.ExecContext(ctx, query, from.String(), to.String())
	if err != nil {
		return 0, fmt.Errorf("transfer speech ownership: %w", err)
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("transfer ownership rows affected: %w", err)
	}
	return moved, nil
}

func (s *PostgresStore) list(ctx context.Context, query string, owner string) ([]*Speech, error) {
	rows, err := s.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("list speeches: %w", err)
	}
	defer rows.Close()

	var out []*Speech
	for rows.Next() {
		sp, err := scanSpeech(rows)
		if err != nil {
			return nil, fmt.Errorf("scan speech: %w", err)
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate speeches: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpeech(row rowScanner) (*Speech, error) {
	var (
		sp        Speech
		rawID     string
		rawUserID sql.NullString
		rawAnonID sql.NullString
		tags      pq.StringArray
	)
	err := row.Scan(&rawID, &rawUserID, &rawAnonID, &sp.Title, &sp.Role, &sp.Tone, &tags, &sp.Content, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return nil, err
	}

	speechID, err := id.ParseSpeechID(rawID)
	if err != nil {
		return nil, err
	}
	sp.ID = speechID
	sp.Tags = tags

	if rawUserID.Valid {
		userID, err := id.ParseUserID(rawUserID.String)
		if err != nil {
			return nil, err
		}
		sp.OwnerUserID = userID
	}
	if rawAnonID.Valid {
		anonID, err := id.ParseAnonID(rawAnonID.String)
		if err != nil {
			return nil, err
		}
		sp.OwnerAnonID = anonID
	}
	return &sp, nil
}

func nullableUserID(userID id.UserID) sql.NullString {
	if userID.IsNil() {
		return sql.NullString{}
	}
	return sql.NullString{String: userID.String(), Valid: true}
}

func nullableAnonID(anonID id.AnonID) sql.NullString {
	if anonID.IsNil() {
		return sql.NullString{}
	}
	return sql.NullString{String: anonID.String(), Valid: true}
}
