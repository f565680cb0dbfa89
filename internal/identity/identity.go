// Package identity manages pre-authentication visitor identities.
//
// A visitor gets an anonymous identity lazily, on their first write-capable
// action. The identity lives in a signed, origin-scoped cookie for 30 days and
// is mirrored by an anonymous_users row so speech drafts can reference it.
// It is destroyed on migration success or permanent-failure bypass, never
// while attempts remain.
package identity

import (
	"context"
	"time"

	id "vowcraft/pkg/domain"
)

// Store is the client-side identity slot. Absence of an identity is a normal
// state, not an error: when the backing storage is unavailable every
// operation degrades to "no identity" / no-op, and callers treat that as
// nothing to migrate.
type Store interface {
	// GetOrCreate returns the existing unexpired identity or mints, persists,
	// and returns a new one. Returns the zero AnonID when storage is
	// unavailable.
	GetOrCreate() id.AnonID
	// Peek returns the current identity without side effects, or the zero
	// AnonID when none is present.
	Peek() id.AnonID
	// Clear removes the identity. Idempotent; clearing an absent identity is
	// not an error.
	Clear()
}

// Records persists the server-side anonymous_users rows that speeches
// reference. The migration executor removes the row as part of the transfer.
type Records interface {
	Create(ctx context.Context, anonID id.AnonID, createdAt time.Time) error
	Exists(ctx context.Context, anonID id.AnonID) (bool, error)
	Delete(ctx context.Context, anonID id.AnonID) error
}
