package speech

import (
	"context"

	id "vowcraft/pkg/domain"
)

// Store persists speeches. Implementations are pure I/O; ownership rules and
// validation live in the service.
type Store interface {
	Create(ctx context.Context, s *Speech) error
	FindByID(ctx context.Context, speechID id.SpeechID) (*Speech, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*Speech, error)
	ListByAnon(ctx context.Context, anonID id.AnonID) ([]*Speech, error)
	Update(ctx context.Context, s *Speech) error
	Delete(ctx context.Context, speechID id.SpeechID) error

	// TransferOwnership reassigns every speech owned by the anonymous
	// identity to the user, clearing the anonymous owner in the same step.
	// Returns the number of rows moved; zero when nothing remains, which
	// keeps retried migrations idempotent.
	TransferOwnership(ctx context.Context, from id.AnonID, to id.UserID) (int64, error)
}
