// Package executor performs the actual ownership transfer: every speech owned
// by the anonymous identity is reassigned to the authenticated user, then the
// anonymous identity record is removed. The whole operation is idempotent so
// the controller can retry a partial failure safely.
package executor

import (
	"context"
	"errors"
	"fmt"

	id "vowcraft/pkg/domain"
)

// Result reports what a migration run moved.
type Result struct {
	SpeechesMoved int64
}

// Executor transfers ownership from an anonymous identity to a user.
type Executor interface {
	Migrate(ctx context.Context, anonID id.AnonID, userID id.UserID) (Result, error)
}

// PermanentError marks a failure that retrying cannot fix, such as a missing
// identity. The controller bypasses immediately instead of burning budget.
type PermanentError struct {
	cause error
}

// Permanent wraps an error as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{cause: err}
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent migration failure: %v", e.cause)
}

func (e *PermanentError) Unwrap() error {
	return e.cause
}

// IsPermanent reports whether err is non-retryable.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// validateIdentities rejects zero identities before any storage is touched.
func validateIdentities(anonID id.AnonID, userID id.UserID) error {
	if anonID.IsNil() {
		return Permanent(errors.New("anonymous identity is empty"))
	}
	if userID.IsNil() {
		return Permanent(errors.New("authenticated identity is empty"))
	}
	return nil
}
