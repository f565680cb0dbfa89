package user

import (
	"context"
	"time"

	id "vowcraft/pkg/domain"
)

// Store persists user records. Implementations are pure I/O.
type Store interface {
	// Ensure creates the record on first contact; an existing record is
	// left untouched.
	Ensure(ctx context.Context, userID id.UserID, createdAt time.Time) error
	Get(ctx context.Context, userID id.UserID) (*User, error)
	// MarkPro records the upgrade. Upgrading an already-pro user keeps the
	// original timestamp.
	MarkPro(ctx context.Context, userID id.UserID, since time.Time) error
}
