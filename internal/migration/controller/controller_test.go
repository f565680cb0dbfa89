package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vowcraft/internal/identity"
	"vowcraft/internal/migration"
	"vowcraft/internal/migration/controller/mocks"
	"vowcraft/internal/migration/executor"
	"vowcraft/internal/migration/ledger"
	id "vowcraft/pkg/domain"
	"vowcraft/pkg/requestcontext"
)

type ControllerSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	exec     *mocks.MockExecutor
	ledger   *ledger.MemoryStore
	now      time.Time
	userID   id.UserID
	anonID   id.AnonID
	identity *identity.MemoryStore
}

func (s *ControllerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.exec = mocks.NewMockExecutor(s.ctrl)
	s.ledger = ledger.NewMemoryStore()
	s.now = time.Now().Truncate(time.Millisecond)
	s.userID = id.UserID(uuid.New())
	s.anonID = id.NewAnonID()
	s.identity = identity.NewMemoryStore(s.anonID)
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) ctx() context.Context {
	ctx := identity.WithStore(context.Background(), s.identity)
	return requestcontext.WithTime(ctx, s.now)
}

func (s *ControllerSuite) signedIn() AuthSignal {
	return AuthSignal{Loaded: true, SignedIn: true, AuthenticatedID: s.userID}
}

func (s *ControllerSuite) newController(opts ...Option) *Controller {
	return New(s.exec, s.ledger, opts...)
}

func (s *ControllerSuite) readLedger() migration.LedgerEntry {
	entry, err := s.ledger.Read(context.Background(), s.userID)
	s.Require().NoError(err)
	return entry
}

func (s *ControllerSuite) TestNoIdentityIsImmediateSuccess() {
	s.identity.Clear()
	c := s.newController()

	state := c.OnAuthStateChange(s.ctx(), s.signedIn())

	s.Equal(migration.StateSuccess, state)
	s.Zero(c.Attempts(), "executor is never invoked without an identity")
	s.Equal(migration.LedgerEntry{}, s.readLedger())
}

func (s *ControllerSuite) TestSignalIgnoredUntilSignedIn() {
	c := s.newController()

	s.Equal(migration.StateIdle, c.OnAuthStateChange(s.ctx(), AuthSignal{Loaded: false}))
	s.Equal(migration.StateIdle, c.OnAuthStateChange(s.ctx(), AuthSignal{Loaded: true, SignedIn: false}))
	s.Equal(migration.StateIdle, c.OnAuthStateChange(s.ctx(), AuthSignal{Loaded: true, SignedIn: true}))
}

func (s *ControllerSuite) TestFirstAttemptSucceeds() {
	emitter := mocks.NewMockEmitter(s.ctrl)
	emitter.EXPECT().MigrationStarted(gomock.Any(), 1, migration.MaxAttempts)
	emitter.EXPECT().MigrationSucceeded(gomock.Any(), int64(3))
	s.exec.EXPECT().Migrate(gomock.Any(), s.anonID, s.userID).Return(executor.Result{SpeechesMoved: 3}, nil)

	c := s.newController(WithEmitter(emitter))
	state := c.OnAuthStateChange(s.ctx(), s.signedIn())

	s.Equal(migration.StateSuccess, state)
	s.True(s.identity.Peek().IsNil(), "anonymous identity is cleared on success")
	s.Equal(migration.LedgerEntry{Attempts: 1, LastAttempt: s.now}, s.readLedger())
}

func (s *ControllerSuite) TestThreeFailuresExhaustBudget() {
	emitter := mocks.NewMockEmitter(s.ctrl)
	emitter.EXPECT().MigrationStarted(gomock.Any(), gomock.Any(), migration.MaxAttempts).Times(3)
	emitter.EXPECT().MigrationBypassed(gomock.Any(), migration.ReasonBudgetExhausted)
	s.exec.EXPECT().Migrate(gomock.Any(), s.anonID, s.userID).
		Return(executor.Result{}, errors.New("storage fault")).
		Times(3)

	c := s.newController(WithEmitter(emitter))
	state := c.OnAuthStateChange(s.ctx(), s.signedIn())

	s.Equal(migration.StateBypassed, state)
	s.Equal(3, c.Attempts())
	s.True(s.identity.Peek().IsNil(), "identity is discarded so retries stop")
	s.Equal(migration.LedgerEntry{Attempts: 3, LastAttempt: s.now, Failed: true}, s.readLedger())
}

func (s *ControllerSuite) TestExhaustedLedgerBypassesWithoutExecutor() {
	entry := migration.LedgerEntry{Attempts: 3, LastAttempt: s.now.Add(-time.Second), Failed: true}
	s.Require().NoError(s.ledger.Write(context.Background(), s.userID, entry))

	c := s.newController()
	state := c.OnAuthStateChange(s.ctx(), s.signedIn())

	s.Equal(migration.StateBypassed, state)
	s.Zero(c.Attempts())
	s.True(s.identity.Peek().IsNil())
}

func (s *ControllerSuite) TestFailedFlagAloneBypasses() {
	entry := migration.LedgerEntry{Attempts: 1, LastAttempt: s.now.Add(-time.Minute), Failed: true}
	s.Require().NoError(s.ledger.Write(context.Background(), s.userID, entry))

	c := s.newController()
	s.Equal(migration.StateBypassed, c.OnAuthStateChange(s.ctx(), s.signedIn()))
	s.Zero(c.Attempts())
}

func (s *ControllerSuite) TestStaleLedgerResetsBudget() {
	stale := migration.LedgerEntry{Attempts: 3, LastAttempt: s.now.Add(-25 * time.Hour), Failed: true}
	s.Require().NoError(s.ledger.Write(context.Background(), s.userID, stale))
	s.exec.EXPECT().Migrate(gomock.Any(), s.anonID, s.userID).Return(executor.Result{SpeechesMoved: 1}, nil)

	c := s.newController()
	state := c.OnAuthStateChange(s.ctx(), s.signedIn())

	s.Equal(migration.StateSuccess, state)
	s.Equal(migration.LedgerEntry{Attempts: 1, LastAttempt: s.now}, s.readLedger(),
		"a day-old entry reads as fresh, so attempts restart from zero")
}

func (s *ControllerSuite) TestTerminalStatesStaySettled() {
	s.exec.EXPECT().Migrate(gomock.Any(), s.anonID, s.userID).Return(executor.Result{}, nil).Times(1)

	c := s.newController()
	s.Equal(migration.StateSuccess, c.OnAuthStateChange(s.ctx(), s.signedIn()))

	// Re-firing the signal must not trigger another executor call, even with
	// a fresh identity present.
	s.identity.GetOrCreate()
	s.Equal(migration.StateSuccess, c.OnAuthStateChange(s.ctx(), s.signedIn()))
	s.Equal(1, c.Attempts())
}

func (s *ControllerSuite) TestPermanentFailureBypassesImmediately() {
	emitter := mocks.NewMockEmitter(s.ctrl)
	emitter.EXPECT().MigrationStarted(gomock.Any(), 1, migration.MaxAttempts)
	emitter.EXPECT().MigrationBypassed(gomock.Any(), migration.ReasonPermanentFailure)
	s.exec.EXPECT().Migrate(gomock.Any(), s.anonID, s.userID).
		Return(executor.Result{}, executor.Permanent(errors.New("malformed identity"))).
		Times(1)

	c := s.newController(WithEmitter(emitter))
	state := c.OnAuthStateChange(s.ctx(), s.signedIn())

	s.Equal(migration.StateBypassed, state)
	s.Equal(1, c.Attempts(), "retrying a permanent failure cannot help")
	s.True(s.readLedger().Failed)
}

func (s *ControllerSuite) TestSessionCounterBoundsEvenWithoutLedger() {
	// A ledger that always reads fresh simulates session storage being
	// cleared mid-flight; the in-memory counter still caps the attempts.
	emptyLedger := mocks.NewMockStore(s.ctrl)
	emptyLedger.EXPECT().Read(gomock.Any(), s.userID).Return(migration.LedgerEntry{}, nil).AnyTimes()
	emptyLedger.EXPECT().Write(gomock.Any(), s.userID, gomock.Any()).Return(nil).AnyTimes()
	s.exec.EXPECT().Migrate(gomock.Any(), s.anonID, s.userID).
		Return(executor.Result{}, errors.New("storage fault")).
		Times(migration.MaxAttempts)

	c := New(s.exec, emptyLedger)
	state := c.OnAuthStateChange(s.ctx(), s.signedIn())

	s.Equal(migration.StateBypassed, state)
	s.Equal(migration.MaxAttempts, c.Attempts())
}

func (s *ControllerSuite) TestLedgerReadErrorIsNotFatal() {
	flaky := mocks.NewMockStore(s.ctrl)
	flaky.EXPECT().Read(gomock.Any(), s.userID).Return(migration.LedgerEntry{}, errors.New("redis down")).AnyTimes()
	flaky.EXPECT().Write(gomock.Any(), s.userID, gomock.Any()).Return(errors.New("redis down")).AnyTimes()
	s.exec.EXPECT().Migrate(gomock.Any(), s.anonID, s.userID).Return(executor.Result{}, nil)

	c := New(s.exec, flaky)
	s.Equal(migration.StateSuccess, c.OnAuthStateChange(s.ctx(), s.signedIn()))
}

func (s *ControllerSuite) TestSkipBeforeAnyAttempt() {
	emitter := mocks.NewMockEmitter(s.ctrl)
	emitter.EXPECT().MigrationBypassed(gomock.Any(), migration.ReasonUserSkipped)

	c := s.newController(WithEmitter(emitter))
	state := c.RequestSkip(s.ctx())

	s.Equal(migration.StateBypassed, state)
	s.True(s.identity.Peek().IsNil())

	// The skip is terminal; a later auth signal changes nothing.
	s.Equal(migration.StateBypassed, c.OnAuthStateChange(s.ctx(), s.signedIn()))
	s.Zero(c.Attempts())
}

func (s *ControllerSuite) TestSkipDuringMigrationDiscardsResult() {
	entered := make(chan struct{})
	release := make(chan struct{})
	s.exec.EXPECT().Migrate(gomock.Any(), s.anonID, s.userID).DoAndReturn(
		func(context.Context, id.AnonID, id.UserID) (executor.Result, error) {
			close(entered)
			<-release
			return executor.Result{SpeechesMoved: 5}, nil
		},
	)

	emitter := mocks.NewMockEmitter(s.ctrl)
	emitter.EXPECT().MigrationStarted(gomock.Any(), 1, migration.MaxAttempts)
	emitter.EXPECT().MigrationBypassed(gomock.Any(), migration.ReasonUserSkipped)

	c := s.newController(WithEmitter(emitter))
	done := make(chan migration.State, 1)
	go func() {
		done <- c.OnAuthStateChange(s.ctx(), s.signedIn())
	}()

	<-entered
	s.Equal(migration.StateBypassed, c.RequestSkip(s.ctx()))
	close(release)

	s.Equal(migration.StateBypassed, <-done,
		"the in-flight completion is discarded once the user skipped")
	s.True(s.identity.Peek().IsNil())
}

func (s *ControllerSuite) TestReentrantTriggerWhileMigrating() {
	entered := make(chan struct{})
	release := make(chan struct{})
	s.exec.EXPECT().Migrate(gomock.Any(), s.anonID, s.userID).DoAndReturn(
		func(context.Context, id.AnonID, id.UserID) (executor.Result, error) {
			close(entered)
			<-release
			return executor.Result{}, nil
		},
	).Times(1)

	c := s.newController()
	done := make(chan migration.State, 1)
	go func() {
		done <- c.OnAuthStateChange(s.ctx(), s.signedIn())
	}()

	<-entered
	s.Equal(migration.StateMigrating, c.OnAuthStateChange(s.ctx(), s.signedIn()),
		"a second trigger while in flight is deduplicated")
	close(release)
	s.Equal(migration.StateSuccess, <-done)
}
