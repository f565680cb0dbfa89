package service

import (
	"context"

	"vowcraft/internal/audit"
	"vowcraft/internal/migration"
	"vowcraft/internal/migration/metrics"
	id "vowcraft/pkg/domain"
	"vowcraft/pkg/requestcontext"
)

// EventEmitter fans controller events out to metrics and the audit trail.
type EventEmitter struct {
	metrics *metrics.Metrics
	audit   *audit.Publisher
}

func NewEventEmitter(m *metrics.Metrics, publisher *audit.Publisher) *EventEmitter {
	return &EventEmitter{metrics: m, audit: publisher}
}

func (e *EventEmitter) MigrationStarted(ctx context.Context, attempt, maxAttempts int) {
	if e.metrics != nil {
		e.metrics.IncrementAttempts()
	}
	e.emit(ctx, audit.Event{
		Action:  audit.ActionMigrationStarted,
		Attempt: attempt,
	})
}

func (e *EventEmitter) MigrationSucceeded(ctx context.Context, speechesMoved int64) {
	if e.metrics != nil {
		e.metrics.RecordSuccess(speechesMoved)
	}
	e.emit(ctx, audit.Event{
		Action:        audit.ActionMigrationSucceeded,
		SpeechesMoved: speechesMoved,
	})
}

func (e *EventEmitter) MigrationBypassed(ctx context.Context, reason migration.BypassReason) {
	if e.metrics != nil {
		e.metrics.IncrementBypasses(string(reason))
	}
	e.emit(ctx, audit.Event{
		Action: audit.ActionMigrationBypassed,
		Reason: string(reason),
	})
}

func (e *EventEmitter) emit(ctx context.Context, event audit.Event) {
	if e.audit == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	event.UserID = stringID(requestcontext.UserID(ctx))
	event.AnonID = stringAnonID(requestcontext.AnonID(ctx))
	e.audit.Emit(ctx, event)
}

func stringID(userID id.UserID) string {
	if userID.IsNil() {
		return ""
	}
	return userID.String()
}

func stringAnonID(anonID id.AnonID) string {
	if anonID.IsNil() {
		return ""
	}
	return anonID.String()
}
