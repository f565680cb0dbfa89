// Package service holds the speech business rules: draft creation for both
// anonymous visitors and authenticated users, and owner-scoped access.
package service

import (
	"context"
	"errors"
	"log/slog"

	"vowcraft/internal/identity"
	"vowcraft/internal/speech"
	id "vowcraft/pkg/domain"
	dErrors "vowcraft/pkg/domain-errors"
	"vowcraft/pkg/platform/sentinel"
	"vowcraft/pkg/requestcontext"
)

type Service struct {
	store   speech.Store
	records identity.Records
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store speech.Store, records identity.Records, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("speech store is required")
	}
	if records == nil {
		return nil, errors.New("identity records store is required")
	}
	svc := &Service{
		store:   store,
		records: records,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CreateInput carries the validated fields for a new draft.
type CreateInput struct {
	Title   string
	Role    string
	Tone    string
	Tags    []string
	Content string
}

// CreateDraft stores a new speech owned by the caller. An authenticated
// caller owns it directly; otherwise an anonymous identity is minted on the
// spot (this is the lazy first-write creation of the visitor identity).
func (s *Service) CreateDraft(ctx context.Context, input CreateInput) (*speech.Speech, error) {
	now := requestcontext.Now(ctx)
	sp := &speech.Speech{
		ID:        id.NewSpeechID(),
		Title:     input.Title,
		Role:      input.Role,
		Tone:      input.Tone,
		Tags:      input.Tags,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if userID := requestcontext.UserID(ctx); !userID.IsNil() {
		sp.OwnerUserID = userID
	} else {
		anonID := identity.FromContext(ctx).GetOrCreate()
		if anonID.IsNil() {
			// Cookieless client with no auth: nowhere to anchor ownership.
			return nil, dErrors.New(dErrors.CodeBadRequest, "drafting requires a session or cookie support")
		}
		if err := s.records.Create(ctx, anonID, now); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register anonymous visitor")
		}
		sp.OwnerAnonID = anonID
	}

	if err := sp.ValidateOwnership(); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, sp); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}

	s.logger.InfoContext(ctx, "draft created",
		"speech_id", sp.ID,
		"owned_by_user", sp.OwnedByUser(),
	)
	return sp, nil
}

// List returns the caller's speeches: the authenticated user's, or the
// anonymous visitor's when unauthenticated. A caller with neither identity
// simply has no speeches.
func (s *Service) List(ctx context.Context) ([]*speech.Speech, error) {
	if userID := requestcontext.UserID(ctx); !userID.IsNil() {
		speeches, err := s.store.ListByUser(ctx, userID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list speeches")
		}
		return speeches, nil
	}
	anonID := requestcontext.AnonID(ctx)
	if anonID.IsNil() {
		return nil, nil
	}
	speeches, err := s.store.ListByAnon(ctx, anonID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list speeches")
	}
	return speeches, nil
}

// Get returns a single speech if the caller owns it.
func (s *Service) Get(ctx context.Context, speechID id.SpeechID) (*speech.Speech, error) {
	return s.authorized(ctx, speechID)
}

// UpdateInput carries the mutable fields of a speech.
type UpdateInput struct {
	Title   string
	Role    string
	Tone    string
	Tags    []string
	Content string
}

// Update overwrites the mutable fields of an owned speech.
func (s *Service) Update(ctx context.Context, speechID id.SpeechID, input UpdateInput) (*speech.Speech, error) {
	sp, err := s.authorized(ctx, speechID)
	if err != nil {
		return nil, err
	}

	sp.Title = input.Title
	sp.Role = input.Role
	sp.Tone = input.Tone
	sp.Tags = input.Tags
	sp.Content = input.Content
	sp.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, sp); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "speech not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update speech")
	}
	return sp, nil
}

// Delete removes an owned speech.
func (s *Service) Delete(ctx context.Context, speechID id.SpeechID) error {
	if _, err := s.authorized(ctx, speechID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, speechID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "speech not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete speech")
	}
	s.logger.InfoContext(ctx, "speech deleted", "speech_id", speechID)
	return nil
}

// authorized loads the speech and enforces owner-only access. Unknown and
// forbidden both surface as not-found so callers cannot probe for ids.
func (s *Service) authorized(ctx context.Context, speechID id.SpeechID) (*speech.Speech, error) {
	sp, err := s.store.FindByID(ctx, speechID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "speech not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load speech")
	}
	if !sp.AccessibleBy(requestcontext.UserID(ctx), requestcontext.AnonID(ctx)) {
		return nil, dErrors.New(dErrors.CodeNotFound, "speech not found")
	}
	return sp, nil
}
