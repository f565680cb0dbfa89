package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"vowcraft/internal/identity"
	"vowcraft/internal/speech"
	id "vowcraft/pkg/domain"
	dErrors "vowcraft/pkg/domain-errors"
	"vowcraft/pkg/requestcontext"
)

type SpeechServiceSuite struct {
	suite.Suite
	store   *speech.InMemoryStore
	records *identity.InMemoryRecords
	svc     *Service
}

func (s *SpeechServiceSuite) SetupTest() {
	s.store = speech.NewInMemoryStore()
	s.records = identity.NewInMemoryRecords()
	svc, err := New(s.store, s.records)
	s.Require().NoError(err)
	s.svc = svc
}

func TestSpeechServiceSuite(t *testing.T) {
	suite.Run(t, new(SpeechServiceSuite))
}

func (s *SpeechServiceSuite) authedCtx(userID id.UserID) context.Context {
	return requestcontext.WithUserID(context.Background(), userID)
}

func (s *SpeechServiceSuite) anonCtx(store identity.Store) context.Context {
	ctx := identity.WithStore(context.Background(), store)
	if anonID := store.Peek(); !anonID.IsNil() {
		ctx = requestcontext.WithAnonID(ctx, anonID)
	}
	return ctx
}

func (s *SpeechServiceSuite) TestCreateDraft() {
	s.Run("authenticated caller owns the draft directly", func() {
		userID := id.UserID(uuid.New())
		sp, err := s.svc.CreateDraft(s.authedCtx(userID), CreateInput{Title: "For Anna", Role: speech.RoleBestMan})
		s.Require().NoError(err)
		s.Equal(userID, sp.OwnerUserID)
		s.True(sp.OwnerAnonID.IsNil())
	})

	s.Run("anonymous caller mints identity and records it", func() {
		store := identity.NewMemoryStore(id.AnonID{})
		sp, err := s.svc.CreateDraft(s.anonCtx(store), CreateInput{Title: "Draft one"})
		s.Require().NoError(err)
		s.False(sp.OwnerAnonID.IsNil())
		s.Equal(store.Peek(), sp.OwnerAnonID)

		exists, err := s.records.Exists(context.Background(), sp.OwnerAnonID)
		s.Require().NoError(err)
		s.True(exists)
	})

	s.Run("caller without session or cookie support is rejected", func() {
		_, err := s.svc.CreateDraft(context.Background(), CreateInput{Title: "Nowhere"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("ownership is exclusive after creation", func() {
		store := identity.NewMemoryStore(id.AnonID{})
		sp, err := s.svc.CreateDraft(s.anonCtx(store), CreateInput{Title: "Exclusive"})
		s.Require().NoError(err)
		s.Require().NoError(sp.ValidateOwnership())
	})
}

func (s *SpeechServiceSuite) TestOwnerScopedAccess() {
	owner := id.UserID(uuid.New())
	other := id.UserID(uuid.New())

	sp, err := s.svc.CreateDraft(s.authedCtx(owner), CreateInput{Title: "Mine"})
	s.Require().NoError(err)

	s.Run("owner can read", func() {
		got, err := s.svc.Get(s.authedCtx(owner), sp.ID)
		s.Require().NoError(err)
		s.Equal("Mine", got.Title)
	})

	s.Run("non-owner sees not found", func() {
		_, err := s.svc.Get(s.authedCtx(other), sp.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("anonymous owner can read their own draft", func() {
		store := identity.NewMemoryStore(id.AnonID{})
		anonSp, err := s.svc.CreateDraft(s.anonCtx(store), CreateInput{Title: "Anon draft"})
		s.Require().NoError(err)

		got, err := s.svc.Get(s.anonCtx(store), anonSp.ID)
		s.Require().NoError(err)
		s.Equal(anonSp.ID, got.ID)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.svc.Get(s.authedCtx(owner), id.NewSpeechID())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *SpeechServiceSuite) TestUpdateAndDelete() {
	owner := id.UserID(uuid.New())
	ctx := requestcontext.WithTime(s.authedCtx(owner), time.Now())

	sp, err := s.svc.CreateDraft(ctx, CreateInput{Title: "Before", Content: "old"})
	s.Require().NoError(err)

	s.Run("update overwrites mutable fields", func() {
		updated, err := s.svc.Update(ctx, sp.ID, UpdateInput{
			Title:   "After",
			Role:    speech.RoleGroom,
			Tone:    "heartfelt",
			Tags:    []string{"funny", "short"},
			Content: "new",
		})
		s.Require().NoError(err)
		s.Equal("After", updated.Title)
		s.Equal([]string{"funny", "short"}, updated.Tags)

		got, err := s.svc.Get(ctx, sp.ID)
		s.Require().NoError(err)
		s.Equal("new", got.Content)
	})

	s.Run("delete removes the speech", func() {
		s.Require().NoError(s.svc.Delete(ctx, sp.ID))
		_, err := s.svc.Get(ctx, sp.ID)
		s.Require().Error(err)
	})

	s.Run("delete by non-owner is not found", func() {
		another, err := s.svc.CreateDraft(ctx, CreateInput{Title: "Keep"})
		s.Require().NoError(err)

		err = s.svc.Delete(s.authedCtx(id.UserID(uuid.New())), another.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *SpeechServiceSuite) TestList() {
	owner := id.UserID(uuid.New())
	ctx := s.authedCtx(owner)

	for _, title := range []string{"one", "two"} {
		_, err := s.svc.CreateDraft(ctx, CreateInput{Title: title})
		s.Require().NoError(err)
	}

	speeches, err := s.svc.List(ctx)
	s.Require().NoError(err)
	s.Len(speeches, 2)

	s.Run("caller without identity has no speeches", func() {
		speeches, err := s.svc.List(context.Background())
		s.Require().NoError(err)
		s.Empty(speeches)
	})
}
