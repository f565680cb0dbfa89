//go:build integration

package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"vowcraft/internal/user"
	id "vowcraft/pkg/domain"
	"vowcraft/pkg/platform/sentinel"
	"vowcraft/pkg/testutil/containers"
)

type PostgresUserStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *user.PostgresStore
}

func TestPostgresUserStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresUserStoreSuite))
}

func (s *PostgresUserStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = user.NewPostgres(s.postgres.DB)
}

func (s *PostgresUserStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "users"))
}

func (s *PostgresUserStoreSuite) TestEnsureKeepsExistingRow() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	created := time.Now().UTC().Truncate(time.Millisecond)

	s.Require().NoError(s.store.Ensure(ctx, userID, created))
	s.Require().NoError(s.store.Ensure(ctx, userID, created.Add(time.Hour)))

	u, err := s.store.Get(ctx, userID)
	s.Require().NoError(err)
	s.True(created.Equal(u.CreatedAt))
	s.False(u.Pro)
	s.Nil(u.ProSince)
}

func (s *PostgresUserStoreSuite) TestGetMissingReturnsNotFound() {
	_, err := s.store.Get(context.Background(), id.UserID(uuid.New()))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresUserStoreSuite) TestMarkProKeepsOriginalTimestamp() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	now := time.Now().UTC().Truncate(time.Millisecond)

	s.Require().NoError(s.store.Ensure(ctx, userID, now))
	s.Require().NoError(s.store.MarkPro(ctx, userID, now))
	// Webhook redelivery with a later timestamp keeps the first one.
	s.Require().NoError(s.store.MarkPro(ctx, userID, now.Add(time.Hour)))

	u, err := s.store.Get(ctx, userID)
	s.Require().NoError(err)
	s.True(u.Pro)
	s.Require().NotNil(u.ProSince)
	s.True(now.Equal(*u.ProSince))
}

func (s *PostgresUserStoreSuite) TestMarkProMissingReturnsNotFound() {
	err := s.store.MarkPro(context.Background(), id.UserID(uuid.New()), time.Now().UTC())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
