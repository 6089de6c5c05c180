package pendingaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/pkg/clock"
	pendingaction "github.com/KirkDiggler/rpg-narrator/internal/repositories/pending_action"
	"github.com/KirkDiggler/rpg-narrator/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	cleanup func()
	clock   *clock.Fixed
	repo    pendingaction.Repository
	ctx     context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.clock = clock.NewFixed(time.Unix(1700000000, 0))

	repo, err := pendingaction.NewRedis(&pendingaction.RedisConfig{
		Client: client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) upsert(characterID, text string) *pendingaction.UpsertOutput {
	out, err := s.repo.Upsert(s.ctx, pendingaction.UpsertInput{
		Action: &entities.PendingAction{
			SessionID:   testutils.TestSessionID,
			CharacterID: characterID,
			Text:        text,
		},
	})
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	return out
}

func (s *RedisRepositoryTestSuite) TestUpsertReplacesEarlierAction() {
	first := s.upsert(testutils.TestReinhardID, "I draw my sword")
	s.False(first.Replaced)

	second := s.upsert(testutils.TestReinhardID, "I raise my shield instead")
	s.True(second.Replaced)

	out, err := s.repo.List(s.ctx, pendingaction.ListInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	s.Require().Len(out.Actions, 1)
	s.Equal("I raise my shield instead", out.Actions[0].Text)
}

func (s *RedisRepositoryTestSuite) TestListOrdersBySubmission() {
	s.upsert(testutils.TestReinhardID, "first")
	s.upsert(testutils.TestElaraID, "second")

	out, err := s.repo.List(s.ctx, pendingaction.ListInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	s.Require().Len(out.Actions, 2)
	s.Equal(testutils.TestReinhardID, out.Actions[0].CharacterID)
	s.Equal(testutils.TestElaraID, out.Actions[1].CharacterID)
}

func (s *RedisRepositoryTestSuite) TestClearSelected() {
	s.upsert(testutils.TestReinhardID, "first")
	s.upsert(testutils.TestElaraID, "second")

	out, err := s.repo.Clear(s.ctx, pendingaction.ClearInput{
		SessionID:    testutils.TestSessionID,
		CharacterIDs: []string{testutils.TestReinhardID},
	})
	s.Require().NoError(err)
	s.Equal(int64(1), out.Removed)

	list, err := s.repo.List(s.ctx, pendingaction.ListInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	s.Require().Len(list.Actions, 1)
	s.Equal(testutils.TestElaraID, list.Actions[0].CharacterID)
}

func (s *RedisRepositoryTestSuite) TestClearAll() {
	s.upsert(testutils.TestReinhardID, "first")
	s.upsert(testutils.TestElaraID, "second")

	_, err := s.repo.Clear(s.ctx, pendingaction.ClearInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)

	list, err := s.repo.List(s.ctx, pendingaction.ListInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	s.Empty(list.Actions)
}

func (s *RedisRepositoryTestSuite) TestUpsertValidation() {
	_, err := s.repo.Upsert(s.ctx, pendingaction.UpsertInput{
		Action: &entities.PendingAction{Text: "no ids"},
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestClearActionsKeepsReplacement() {
	s.upsert(testutils.TestReinhardID, "I draw my sword")
	s.upsert(testutils.TestElaraID, "I cast light")

	listed, err := s.repo.List(s.ctx, pendingaction.ListInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)

	// Reinhard changes his mind after the list was taken
	s.upsert(testutils.TestReinhardID, "I raise my shield instead")

	out, err := s.repo.Clear(s.ctx, pendingaction.ClearInput{
		SessionID: testutils.TestSessionID,
		Actions:   listed.Actions,
	})
	s.Require().NoError(err)
	s.Equal(int64(1), out.Removed)

	list, err := s.repo.List(s.ctx, pendingaction.ListInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	s.Require().Len(list.Actions, 1)
	s.Equal(testutils.TestReinhardID, list.Actions[0].CharacterID)
	s.Equal("I raise my shield instead", list.Actions[0].Text)
}
