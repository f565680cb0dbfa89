// Package service exposes the migration controller to the HTTP layer. It
// keeps one controller per authenticated session and deduplicates concurrent
// sync requests for the same session.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"vowcraft/internal/migration"
	"vowcraft/internal/migration/controller"
	"vowcraft/internal/migration/executor"
	"vowcraft/internal/migration/ledger"
	dErrors "vowcraft/pkg/domain-errors"
	"vowcraft/pkg/requestcontext"
)

// Status is what the sync endpoints report back.
type Status struct {
	State       migration.State
	Attempts    int
	MaxAttempts int
}

// Service owns the per-session controllers.
type Service struct {
	executor executor.Executor
	ledger   ledger.Store
	emitter  controller.Emitter
	logger   *slog.Logger

	group singleflight.Group

	mu          sync.Mutex
	controllers map[string]*sessionEntry
}

type sessionEntry struct {
	controller *controller.Controller
	touched    time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithEmitter(emitter controller.Emitter) Option {
	return func(s *Service) {
		if emitter != nil {
			s.emitter = emitter
		}
	}
}

// New constructs the migration service.
func New(exec executor.Executor, ledgerStore ledger.Store, opts ...Option) (*Service, error) {
	if exec == nil {
		return nil, errors.New("migration executor is required")
	}
	if ledgerStore == nil {
		return nil, errors.New("ledger store is required")
	}
	svc := &Service{
		executor:    exec,
		ledger:      ledgerStore,
		emitter:     controller.NopEmitter{},
		logger:      slog.Default(),
		controllers: make(map[string]*sessionEntry),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Sync runs the migration for the caller's session, driving it to a terminal
// state, and reports where it settled. Concurrent syncs for the same session
// collapse into one run.
func (s *Service) Sync(ctx context.Context) (Status, error) {
	key, c, err := s.sessionController(ctx)
	if err != nil {
		return Status{}, err
	}

	signal := controller.AuthSignal{
		Loaded:          true,
		SignedIn:        true,
		AuthenticatedID: requestcontext.UserID(ctx),
	}
	result, _, _ := s.group.Do(key, func() (any, error) {
		return c.OnAuthStateChange(ctx, signal), nil
	})

	return Status{
		State:       result.(migration.State),
		Attempts:    c.Attempts(),
		MaxAttempts: migration.MaxAttempts,
	}, nil
}

// Skip abandons migration for the caller's session and clears the anonymous
// identity. Equivalent to the automatic bypass, just user-initiated.
func (s *Service) Skip(ctx context.Context) (Status, error) {
	_, c, err := s.sessionController(ctx)
	if err != nil {
		return Status{}, err
	}
	state := c.RequestSkip(ctx)
	return Status{
		State:       state,
		Attempts:    c.Attempts(),
		MaxAttempts: migration.MaxAttempts,
	}, nil
}

// Current reports the session's migration state without triggering anything.
func (s *Service) Current(ctx context.Context) (Status, error) {
	_, c, err := s.sessionController(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		State:       c.State(),
		Attempts:    c.Attempts(),
		MaxAttempts: migration.MaxAttempts,
	}, nil
}

// sessionController returns the controller for the caller's session, creating
// it on first contact. Sessions without an explicit ID fall back to the user
// ID, which still keeps one controller per signed-in identity.
func (s *Service) sessionController(ctx context.Context) (string, *controller.Controller, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	key := requestcontext.SessionID(ctx)
	if key == "" {
		key = userID.String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.controllers[key]
	if !ok {
		entry = &sessionEntry{
			controller: controller.New(s.executor, s.ledger,
				controller.WithEmitter(s.emitter),
				controller.WithLogger(s.logger),
			),
		}
		s.controllers[key] = entry
	}
	entry.touched = requestcontext.Now(ctx)
	return key, entry.controller, nil
}

// Prune drops controllers idle longer than maxAge. Terminal states are
// per-session, so dropping an expired session's controller is safe: a new
// session gets a fresh window evaluation anyway.
func (s *Service) Prune(now time.Time, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var dropped int
	for key, entry := range s.controllers {
		if now.Sub(entry.touched) > maxAge {
			delete(s.controllers, key)
			dropped++
		}
	}
	return dropped
}

// RunJanitor prunes idle controllers until the context ends.
func (s *Service) RunJanitor(ctx context.Context, interval, maxAge time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if dropped := s.Prune(now, maxAge); dropped > 0 {
				s.logger.Debug("pruned idle migration controllers", "count", dropped)
			}
		}
	}
}
