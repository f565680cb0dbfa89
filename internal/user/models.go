// Package user tracks the account records the host auth provider does not
// own: whether the one-time pro upgrade has been purchased.
package user

import (
	"time"

	id "vowcraft/pkg/domain"
)

// User is the server-side account record. Identity itself lives with the
// auth provider; this row carries what the product needs beyond it.
type User struct {
	ID        id.UserID
	Pro       bool
	ProSince  *time.Time
	CreatedAt time.Time
}
