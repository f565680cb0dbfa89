// Package domain holds typed identifiers shared across bounded contexts.
//
// IDs are distinct types over uuid.UUID so the compiler rejects cross-type
// assignment (an AnonID can never be passed where a UserID is expected).
// Construct them via the Parse functions at trust boundaries; direct casting
// bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "vowcraft/pkg/domain-errors"
)

// UserID identifies an authenticated user. The value originates from the host
// authentication provider, which issues UUID subjects.
type UserID uuid.UUID

// AnonID identifies a pre-authentication visitor.
type AnonID uuid.UUID

// SpeechID identifies a speech record.
type SpeechID uuid.UUID

// NewAnonID returns a fresh random anonymous identity.
func NewAnonID() AnonID {
	return AnonID(uuid.New())
}

// NewSpeechID returns a fresh random speech identifier.
func NewSpeechID() SpeechID {
	return SpeechID(uuid.New())
}

// ParseUserID validates external input as a user ID.
// Rejects empty strings, malformed UUIDs, and the nil UUID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

// ParseAnonID validates external input as an anonymous identity.
func ParseAnonID(s string) (AnonID, error) {
	u, err := parseUUID(s, "anonymous id")
	return AnonID(u), err
}

// ParseSpeechID validates external input as a speech ID.
func ParseSpeechID(s string) (SpeechID, error) {
	u, err := parseUUID(s, "speech id")
	return SpeechID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}

func (id UserID) String() string   { return uuid.UUID(id).String() }
func (id AnonID) String() string   { return uuid.UUID(id).String() }
func (id SpeechID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero value.
func (id UserID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id AnonID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id SpeechID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
