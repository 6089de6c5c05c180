package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/session"
	"github.com/KirkDiggler/rpg-narrator/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	cleanup func()
	repo    session.Repository
	ctx     context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	redisClient, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	repo, err := session.NewRedis(&session.RedisConfig{
		Client: redisClient,
		Clock:  clock.NewFixed(time.Unix(1700000000, 0)),
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestConfigValidation() {
	_, err := session.NewRedis(&session.RedisConfig{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestCreateGetUpdate() {
	created, err := s.repo.Create(s.ctx, session.CreateInput{
		Session: &entities.Session{ID: "sess-1", Name: "The Sunken Keep"},
	})
	s.Require().NoError(err)
	s.NotNil(created.Session.Transcript)

	sess := created.Session
	sess.Transcript = append(sess.Transcript, entities.TranscriptEntry{
		ID:      "entry-1",
		Role:    entities.RoleAssistant,
		Content: "The gate creaks open.",
		Type:    entities.EntryTypeNarration,
	})
	sess.CurrentTurn = 1
	sess.TotalTokens = 42

	_, err = s.repo.Update(s.ctx, session.UpdateInput{Session: sess})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, session.GetInput{ID: "sess-1"})
	s.Require().NoError(err)
	s.Len(got.Session.Transcript, 1)
	s.Equal(1, got.Session.CurrentTurn)
	s.Equal(42, got.Session.TotalTokens)
	s.Equal(entities.EntryTypeNarration, got.Session.Transcript[0].Type)
}

func (s *RedisRepositoryTestSuite) TestCreateDuplicate() {
	_, err := s.repo.Create(s.ctx, session.CreateInput{Session: &entities.Session{ID: "sess-1"}})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, session.CreateInput{Session: &entities.Session{ID: "sess-1"}})
	s.True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, session.GetInput{ID: "missing"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestUpdateNotFound() {
	_, err := s.repo.Update(s.ctx, session.UpdateInput{Session: &entities.Session{ID: "missing"}})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestUpdateRejectsCompactedCountPastTranscript() {
	_, err := s.repo.Create(s.ctx, session.CreateInput{Session: &entities.Session{ID: "sess-1"}})
	s.Require().NoError(err)

	_, err = s.repo.Update(s.ctx, session.UpdateInput{
		Session: &entities.Session{ID: "sess-1", CompactedCount: 1},
	})
	s.True(errors.IsInvalidArgument(err))
}
