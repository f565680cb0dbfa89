// Package migration holds the domain model for transferring anonymous-visitor
// data to a freshly authenticated account: the attempt ledger entry, the
// controller states, and the budget constants shared by both.
package migration

import "time"

const (
	// MaxAttempts bounds how many times a migration may run per
	// authenticated identity within one rolling window.
	MaxAttempts = 3

	// ResetWindow is the rolling window after which a ledger entry is
	// treated as fresh again.
	ResetWindow = 24 * time.Hour
)

// LedgerEntry records the migration attempts made for one authenticated
// identity. Failed is a terminal flag: once set, no further automatic
// attempts happen until the window rolls over.
type LedgerEntry struct {
	Attempts    int
	LastAttempt time.Time
	Failed      bool
}

// Stale reports whether the entry's window has rolled over at the given time.
// A zero entry is never stale.
func (e LedgerEntry) Stale(now time.Time) bool {
	return !e.LastAttempt.IsZero() && now.Sub(e.LastAttempt) > ResetWindow
}

// ResetIfStale returns a zero entry when the window has rolled over,
// otherwise the entry unchanged. Reads of the ledger go through this so a
// day-old failure never blocks a new migration.
func (e LedgerEntry) ResetIfStale(now time.Time) LedgerEntry {
	if e.Stale(now) {
		return LedgerEntry{}
	}
	return e
}

// Exhausted reports whether the entry forbids further attempts.
func (e LedgerEntry) Exhausted() bool {
	return e.Attempts >= MaxAttempts || e.Failed
}

// State is the controller's position in the migration lifecycle.
type State string

const (
	StateIdle             State = "idle"
	StateCheckingIdentity State = "checking_identity"
	StateCheckingBudget   State = "checking_budget"
	StateMigrating        State = "migrating"
	StateSuccess          State = "success"
	StateBypassed         State = "bypassed"
)

// Terminal reports whether the state ends migration for the session.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateBypassed
}

// BypassReason explains why a migration was abandoned.
type BypassReason string

const (
	ReasonBudgetExhausted  BypassReason = "budget_exhausted"
	ReasonPermanentFailure BypassReason = "permanent_failure"
	ReasonUserSkipped      BypassReason = "user_skipped"
)
