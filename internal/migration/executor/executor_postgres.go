package executor

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	id "vowcraft/pkg/domain"
)

var tracer = otel.Tracer("vowcraft/internal/migration/executor")

// PostgresExecutor runs the transfer as one transaction, so the speeches
// update and the anonymous-record delete land together. A retried run after a
// rollback simply matches the remaining rows.
type PostgresExecutor struct {
	db *sql.DB
}

// NewPostgres constructs a transactional executor.
func NewPostgres(db *sql.DB) *PostgresExecutor {
	return &PostgresExecutor{db: db}
}

func (e *PostgresExecutor) Migrate(ctx context.Context, anonID id.AnonID, userID id.UserID) (Result, error) {
	ctx, span := tracer.Start(ctx, "migration.execute", trace.WithAttributes(
		attribute.String("migration.anon_id", anonID.String()),
		attribute.String("migration.user_id", userID.String()),
	))
	defer span.End()

	if err := validateIdentities(anonID, userID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid identities")
		return Result{}, err
	}

	result, err := e.migrate(ctx, anonID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transfer failed")
		return Result{}, err
	}
	span.SetAttributes(attribute.Int64("migration.speeches_moved", result.SpeechesMoved))
	return result, nil
}

func (e *PostgresExecutor) migrate(ctx context.Context, anonID id.AnonID, userID id.UserID) (Result, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Reassigning and clearing the anonymous owner in one statement keeps
	// ownership exclusive at every point; rows already moved by an earlier
	// partial run simply no longer match.
	res, err := tx.ExecContext(ctx, `
		UPDATE speeches
		SET user_id = $2, anon_user_id = NULL, updated_at = now()
		WHERE anon_user_id = $1
	`, anonID.String(), userID.String())
	if err != nil {
		return Result{}, fmt.Errorf("transfer speeches: %w", err)
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return Result{}, fmt.Errorf("transfer speeches rows affected: %w", err)
	}

	// Absent row means an earlier run already removed it.
	if _, err := tx.ExecContext(ctx, `DELETE FROM anonymous_users WHERE id = $1`, anonID.String()); err != nil {
		return Result{}, fmt.Errorf("remove anonymous identity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit migration tx: %w", err)
	}
	return Result{SpeechesMoved: moved}, nil
}
