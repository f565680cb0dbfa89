package speech

import (
	"time"

	id "vowcraft/pkg/domain"
	dErrors "vowcraft/pkg/domain-errors"
)

// Speech is a drafted speech. Ownership is exclusive: exactly one of
// OwnerUserID and OwnerAnonID is set, never both. Anonymous ownership exists
// only until the visitor authenticates and migration transfers the record.
type Speech struct {
	ID          id.SpeechID
	OwnerUserID id.UserID
	OwnerAnonID id.AnonID
	Title       string
	Role        string
	Tone        string
	Tags        []string
	Content     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Roles a speaker can draft for. Kept open-ended; these are the ones the
// product surfaces.
const (
	RoleBestMan       = "best_man"
	RoleMaidOfHonor   = "maid_of_honor"
	RoleFatherOfBride = "father_of_bride"
	RoleMotherOfBride = "mother_of_bride"
	RoleGroom         = "groom"
	RoleBride         = "bride"
	RoleOther         = "other"
)

// ValidRole reports whether the role is one the product surfaces. Empty is
// allowed; the client may defer the choice.
func ValidRole(role string) bool {
	switch role {
	case "", RoleBestMan, RoleMaidOfHonor, RoleFatherOfBride, RoleMotherOfBride, RoleGroom, RoleBride, RoleOther:
		return true
	}
	return false
}

// OwnedByUser reports whether the speech belongs to an authenticated user.
func (s *Speech) OwnedByUser() bool { return !s.OwnerUserID.IsNil() }

// OwnedByAnon reports whether the speech belongs to an anonymous visitor.
func (s *Speech) OwnedByAnon() bool { return !s.OwnerAnonID.IsNil() }

// ValidateOwnership enforces the exclusivity invariant.
func (s *Speech) ValidateOwnership() error {
	switch {
	case s.OwnedByUser() && s.OwnedByAnon():
		return dErrors.New(dErrors.CodeInvalidInput, "speech cannot have both user and anonymous owner")
	case !s.OwnedByUser() && !s.OwnedByAnon():
		return dErrors.New(dErrors.CodeInvalidInput, "speech requires an owner")
	default:
		return nil
	}
}

// AccessibleBy reports whether the given caller identity may read or mutate
// the speech. Either side may be zero for an unauthenticated or cookieless
// caller.
func (s *Speech) AccessibleBy(userID id.UserID, anonID id.AnonID) bool {
	if s.OwnedByUser() {
		return s.OwnerUserID == userID && !userID.IsNil()
	}
	return s.OwnerAnonID == anonID && !anonID.IsNil()
}
