package audit

import "time"

// Actions recorded by the migration and speech flows.
const (
	ActionMigrationStarted   = "migration_started"
	ActionMigrationSucceeded = "migration_succeeded"
	ActionMigrationBypassed  = "migration_bypassed"
	ActionProUpgraded        = "pro_upgraded"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	Action        string    `json:"action"`
	UserID        string    `json:"user_id,omitempty"`
	AnonID        string    `json:"anon_id,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	Attempt       int       `json:"attempt,omitempty"`
	SpeechesMoved int64     `json:"speeches_moved,omitempty"`
}
