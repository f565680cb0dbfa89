package executor

import (
	"context"
	"fmt"

	"vowcraft/internal/identity"
	"vowcraft/internal/speech"
	id "vowcraft/pkg/domain"
)

// StoreExecutor composes the speech store and the anonymous-identity records
// instead of running its own SQL. Used with the in-memory stores for tests
// and single-node dev. The two steps are not atomic, but a failure between
// them leaves a state the next run finishes: remaining speeches still match
// by anonymous owner, and deleting an absent identity is a no-op.
type StoreExecutor struct {
	speeches speech.Store
	records  identity.Records
}

// NewStore constructs a store-composed executor.
func NewStore(speeches speech.Store, records identity.Records) *StoreExecutor {
	return &StoreExecutor{speeches: speeches, records: records}
}

func (e *StoreExecutor) Migrate(ctx context.Context, anonID id.AnonID, userID id.UserID) (Result, error) {
	if err := validateIdentities(anonID, userID); err != nil {
		return Result{}, err
	}

	moved, err := e.speeches.TransferOwnership(ctx, anonID, userID)
	if err != nil {
		return Result{}, fmt.Errorf("transfer speeches: %w", err)
	}
	if err := e.records.Delete(ctx, anonID); err != nil {
		return Result{}, fmt.Errorf("remove anonymous identity: %w", err)
	}
	return Result{SpeechesMoved: moved}, nil
}
