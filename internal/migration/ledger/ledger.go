// Package ledger persists migration attempt counts per authenticated
// identity. Stores are pure I/O; the rolling-window reset is applied by the
// controller when it reads.
package ledger

import (
	"context"

	"vowcraft/internal/migration"
	id "vowcraft/pkg/domain"
)

// Store reads and writes ledger entries. Read returns a zero entry, not an
// error, when nothing is stored for the identity.
type Store interface {
	Read(ctx context.Context, userID id.UserID) (migration.LedgerEntry, error)
	Write(ctx context.Context, userID id.UserID, entry migration.LedgerEntry) error
	Clear(ctx context.Context, userID id.UserID) error
}
