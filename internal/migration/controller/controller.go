// Package controller drives one session's migration from anonymous to
// authenticated ownership: check for an identity, check the attempt budget,
// run the executor, and settle into success or bypass. Executor failures are
// converted into state transitions and never surface to the caller.
package controller

import (
	"context"
	"log/slog"
	"sync"

	"vowcraft/internal/identity"
	"vowcraft/internal/migration"
	"vowcraft/internal/migration/executor"
	"vowcraft/internal/migration/ledger"
	id "vowcraft/pkg/domain"
	"vowcraft/pkg/requestcontext"
)

// AuthSignal mirrors the host auth layer's state-change notification.
type AuthSignal struct {
	Loaded          bool
	SignedIn        bool
	AuthenticatedID id.UserID
}

// Emitter receives migration lifecycle events. Implementations render sync
// screens, count metrics, or publish audit records; the controller does not
// care which.
type Emitter interface {
	MigrationStarted(ctx context.Context, attempt, maxAttempts int)
	MigrationSucceeded(ctx context.Context, speechesMoved int64)
	MigrationBypassed(ctx context.Context, reason migration.BypassReason)
}

// NopEmitter discards all events.
type NopEmitter struct{}

func (NopEmitter) MigrationStarted(context.Context, int, int)                {}
func (NopEmitter) MigrationSucceeded(context.Context, int64)                 {}
func (NopEmitter) MigrationBypassed(context.Context, migration.BypassReason) {}

// Controller is the per-session state machine. One instance serves one
// authenticated session; the mutex serializes triggers so at most one
// executor call is in flight. The session-lifetime attempt counter is
// deliberately independent of the persisted ledger: either one reaching the
// budget ends retries, which keeps the bound even if the ledger is cleared
// mid-session.
type Controller struct {
	executor executor.Executor
	ledger   ledger.Store
	emitter  Emitter
	logger   *slog.Logger

	mu              sync.Mutex
	state           migration.State
	userID          id.UserID
	sessionAttempts int
}

// Option configures a Controller.
type Option func(*Controller)

func WithEmitter(emitter Emitter) Option {
	return func(c *Controller) {
		if emitter != nil {
			c.emitter = emitter
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New constructs a controller in the Idle state.
func New(exec executor.Executor, ledgerStore ledger.Store, opts ...Option) *Controller {
	c := &Controller{
		executor: exec,
		ledger:   ledgerStore,
		emitter:  NopEmitter{},
		logger:   slog.Default(),
		state:    migration.StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the controller's current state.
func (c *Controller) State() migration.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts returns how many executor calls this session has made.
func (c *Controller) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionAttempts
}

// OnAuthStateChange reacts to the host auth layer reporting a session change.
// It drives the machine to a terminal state, retrying executor failures until
// success or the budget runs out, then returns the settled state. Re-entrant
// triggers while a migration is in flight, and triggers after a terminal
// state, return immediately without side effects.
func (c *Controller) OnAuthStateChange(ctx context.Context, signal AuthSignal) migration.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !signal.Loaded || !signal.SignedIn || signal.AuthenticatedID.IsNil() {
		return c.state
	}
	if c.state.Terminal() || c.state == migration.StateMigrating {
		return c.state
	}

	c.userID = signal.AuthenticatedID
	c.state = migration.StateCheckingIdentity

	ids := identity.FromContext(ctx)
	anonID := ids.Peek()
	if anonID.IsNil() {
		// Nothing to migrate. Storage being unavailable lands here too.
		c.state = migration.StateSuccess
		c.logger.InfoContext(ctx, "migration not needed", "user_id", c.userID)
		return c.state
	}

	c.runLocked(ctx, ids, anonID)
	return c.state
}

// runLocked loops budget check, executor call, outcome until a terminal
// state. The mutex is held on entry and exit, and released only around the
// executor call.
func (c *Controller) runLocked(ctx context.Context, ids identity.Store, anonID id.AnonID) {
	for {
		c.state = migration.StateCheckingBudget

		entry := c.readLedger(ctx)
		if entry.Exhausted() || c.sessionAttempts >= migration.MaxAttempts {
			c.bypassLocked(ctx, ids, migration.ReasonBudgetExhausted)
			return
		}

		c.sessionAttempts++
		attempt := c.sessionAttempts
		c.state = migration.StateMigrating
		c.emitter.MigrationStarted(ctx, attempt, migration.MaxAttempts)
		c.logger.InfoContext(ctx, "migration attempt started",
			"user_id", c.userID,
			"attempt", attempt,
			"max_attempts", migration.MaxAttempts,
		)

		userID := c.userID
		c.mu.Unlock()
		result, err := c.executor.Migrate(ctx, anonID, userID)
		c.mu.Lock()

		if c.state != migration.StateMigrating {
			// A skip won the race; the late completion is discarded.
			return
		}

		if err == nil {
			c.writeLedger(ctx, migration.LedgerEntry{
				Attempts:    entry.Attempts + 1,
				LastAttempt: requestcontext.Now(ctx),
			})
			ids.Clear()
			c.state = migration.StateSuccess
			c.emitter.MigrationSucceeded(ctx, result.SpeechesMoved)
			c.logger.InfoContext(ctx, "migration succeeded",
				"user_id", userID,
				"attempt", attempt,
				"speeches_moved", result.SpeechesMoved,
			)
			return
		}

		permanent := executor.IsPermanent(err)
		exhausted := attempt >= migration.MaxAttempts
		c.writeLedger(ctx, migration.LedgerEntry{
			Attempts:    entry.Attempts + 1,
			LastAttempt: requestcontext.Now(ctx),
			Failed:      permanent || exhausted,
		})
		c.logger.WarnContext(ctx, "migration attempt failed",
			"user_id", userID,
			"attempt", attempt,
			"permanent", permanent,
			"error", err,
		)

		if permanent {
			c.bypassLocked(ctx, ids, migration.ReasonPermanentFailure)
			return
		}
		if exhausted {
			c.bypassLocked(ctx, ids, migration.ReasonBudgetExhausted)
			return
		}
	}
}

// RequestSkip forces an immediate bypass from any non-terminal state. If an
// executor call is in flight its completion is discarded; the identity is
// cleared here and the machine stays bypassed.
func (c *Controller) RequestSkip(ctx context.Context) migration.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Terminal() {
		return c.state
	}
	c.bypassLocked(ctx, identity.FromContext(ctx), migration.ReasonUserSkipped)
	return c.state
}

// bypassLocked clears the anonymous identity and settles into Bypassed.
// Losing un-migrated data is the accepted trade-off for never blocking the
// authenticated user. Caller holds the mutex.
func (c *Controller) bypassLocked(ctx context.Context, ids identity.Store, reason migration.BypassReason) {
	ids.Clear()
	c.state = migration.StateBypassed
	c.emitter.MigrationBypassed(ctx, reason)
	c.logger.InfoContext(ctx, "migration bypassed",
		"user_id", c.userID,
		"reason", string(reason),
		"session_attempts", c.sessionAttempts,
	)
}

// readLedger loads and window-resets the entry. A read failure counts as a
// fresh entry: the session counter still bounds retries, so the worst case is
// one extra attempt, never an unbounded loop.
func (c *Controller) readLedger(ctx context.Context) migration.LedgerEntry {
	entry, err := c.ledger.Read(ctx, c.userID)
	if err != nil {
		c.logger.WarnContext(ctx, "ledger read failed", "user_id", c.userID, "error", err)
		return migration.LedgerEntry{}
	}
	return entry.ResetIfStale(requestcontext.Now(ctx))
}

// writeLedger persists the entry, logging rather than failing on error.
func (c *Controller) writeLedger(ctx context.Context, entry migration.LedgerEntry) {
	if err := c.ledger.Write(ctx, c.userID, entry); err != nil {
		c.logger.WarnContext(ctx, "ledger write failed", "user_id", c.userID, "error", err)
	}
}
