// Package service holds the account business rules: lazy record creation on
// first contact and the one-time pro upgrade.
package service

import (
	"context"
	"errors"
	"log/slog"

	"vowcraft/internal/audit"
	"vowcraft/internal/user"
	dErrors "vowcraft/pkg/domain-errors"
	"vowcraft/pkg/platform/sentinel"
	"vowcraft/pkg/requestcontext"
)

type Service struct {
	store  user.Store
	audit  *audit.Publisher
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher *audit.Publisher) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

func New(store user.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("user store is required")
	}
	svc := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Status returns the caller's account record, creating it on first contact.
func (s *Service) Status(ctx context.Context) (*user.User, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	if err := s.store.Ensure(ctx, userID, requestcontext.Now(ctx)); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to ensure user record")
	}
	u, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user record")
	}
	return u, nil
}

// Upgrade records the pro purchase for the caller. Idempotent: the payment
// provider's webhook may deliver more than once.
func (s *Service) Upgrade(ctx context.Context) (*user.User, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	now := requestcontext.Now(ctx)
	if err := s.store.Ensure(ctx, userID, now); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to ensure user record")
	}
	if err := s.store.MarkPro(ctx, userID, now); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record upgrade")
	}

	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{
			Timestamp: now,
			Action:    audit.ActionProUpgraded,
			UserID:    userID.String(),
		})
	}
	s.logger.InfoContext(ctx, "pro upgrade recorded", "user_id", userID)

	u, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user record")
	}
	return u, nil
}
