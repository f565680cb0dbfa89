//go:build integration

package executor_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"vowcraft/internal/identity"
	"vowcraft/internal/migration/executor"
	"vowcraft/internal/speech"
	id "vowcraft/pkg/domain"
	"vowcraft/pkg/testutil/containers"
)

type PostgresExecutorSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	exec     *executor.PostgresExecutor
	speeches *speech.PostgresStore
	records  *identity.PostgresRecords
}

func TestPostgresExecutorSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresExecutorSuite))
}

func (s *PostgresExecutorSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.exec = executor.NewPostgres(s.postgres.DB)
	s.speeches = speech.NewPostgres(s.postgres.DB)
	s.records = identity.NewPostgresRecords(s.postgres.DB)
}

func (s *PostgresExecutorSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "speeches", "anonymous_users"))
}

func (s *PostgresExecutorSuite) seedDraft(anonID id.AnonID, title string) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	s.Require().NoError(s.speeches.Create(context.Background(), &speech.Speech{
		ID:          id.SpeechID(uuid.New()),
		OwnerAnonID: anonID,
		Title:       title,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))
}

func (s *PostgresExecutorSuite) TestMigrateTransfersAndRemovesIdentity() {
	ctx := context.Background()
	anonID := id.AnonID(uuid.New())
	userID := id.UserID(uuid.New())

	s.Require().NoError(s.records.Create(ctx, anonID, time.Now().UTC()))
	s.seedDraft(anonID, "Toast v1")
	s.seedDraft(anonID, "Toast v2")

	result, err := s.exec.Migrate(ctx, anonID, userID)
	s.Require().NoError(err)
	s.Equal(int64(2), result.SpeechesMoved)

	owned, err := s.speeches.ListByUser(ctx, userID)
	s.Require().NoError(err)
	s.Len(owned, 2)

	orphaned, err := s.speeches.ListByAnon(ctx, anonID)
	s.Require().NoError(err)
	s.Empty(orphaned)

	exists, err := s.records.Exists(ctx, anonID)
	s.Require().NoError(err)
	s.False(exists, "anonymous identity record survives migration")
}

func (s *PostgresExecutorSuite) TestMigrateIsRetrySafe() {
	ctx := context.Background()
	anonID := id.AnonID(uuid.New())
	userID := id.UserID(uuid.New())

	s.Require().NoError(s.records.Create(ctx, anonID, time.Now().UTC()))
	s.seedDraft(anonID, "Toast")

	first, err := s.exec.Migrate(ctx, anonID, userID)
	s.Require().NoError(err)
	s.Equal(int64(1), first.SpeechesMoved)

	second, err := s.exec.Migrate(ctx, anonID, userID)
	s.Require().NoError(err)
	s.Zero(second.SpeechesMoved)

	owned, err := s.speeches.ListByUser(ctx, userID)
	s.Require().NoError(err)
	s.Len(owned, 1)
}

func (s *PostgresExecutorSuite) TestMigrateLeavesOtherIdentitiesAlone() {
	ctx := context.Background()
	anonID := id.AnonID(uuid.New())
	bystander := id.AnonID(uuid.New())
	userID := id.UserID(uuid.New())

	s.Require().NoError(s.records.Create(ctx, anonID, time.Now().UTC()))
	s.Require().NoError(s.records.Create(ctx, bystander, time.Now().UTC()))
	s.seedDraft(anonID, "Mine")
	s.seedDraft(bystander, "Theirs")

	_, err := s.exec.Migrate(ctx, anonID, userID)
	s.Require().NoError(err)

	left, err := s.speeches.ListByAnon(ctx, bystander)
	s.Require().NoError(err)
	s.Len(left, 1)

	exists, err := s.records.Exists(ctx, bystander)
	s.Require().NoError(err)
	s.True(exists)
}
