package character_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-narrator/internal/redis"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/character"
	"github.com/KirkDiggler/rpg-narrator/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	client  redis.Client
	cleanup func()
	clock   *clock.Fixed
	repo    character.Repository
	ctx     context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.client, s.cleanup = testutils.CreateTestRedisClient(s.T())
	s.clock = clock.NewFixed(time.Unix(1700000000, 0))

	repo, err := character.NewRedis(&character.RedisConfig{
		Client: s.client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestNewRedisRequiresClient() {
	_, err := character.NewRedis(&character.RedisConfig{})
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	char := testutils.NewCaster(testutils.TestElaraID, testutils.TestSessionID, testutils.TestElaraName)

	created, err := s.repo.Create(s.ctx, character.CreateInput{Character: char})
	s.Require().NoError(err)
	s.Equal(int64(1700000000), created.Character.CreatedAt)

	got, err := s.repo.Get(s.ctx, character.GetInput{ID: char.ID})
	s.Require().NoError(err)
	s.Equal(char.Name, got.Character.Name)
	s.Equal(2, got.Character.SpellSlots[1].Max)
	s.Equal(12, got.Character.ArmorClass.Total())
}

func (s *RedisRepositoryTestSuite) TestCreateDuplicate() {
	char := testutils.NewCharacter("char-1", testutils.TestSessionID, "Aria")
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: char})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, character.CreateInput{Character: char})
	s.True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, character.GetInput{ID: "missing"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, character.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestUpdate() {
	char := testutils.NewCharacter("char-1", testutils.TestSessionID, "Aria")
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: char})
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	char.HP = 3
	updated, err := s.repo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)
	s.Equal(int64(1700000000), updated.Character.CreatedAt)
	s.Equal(int64(1700000060), updated.Character.UpdatedAt)

	got, err := s.repo.Get(s.ctx, character.GetInput{ID: "char-1"})
	s.Require().NoError(err)
	s.Equal(3, got.Character.HP)
}

func (s *RedisRepositoryTestSuite) TestUpdateMovesSessionIndex() {
	char := testutils.NewCharacter("char-1", "session-a", "Aria")
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: char})
	s.Require().NoError(err)

	char.SessionID = "session-b"
	_, err = s.repo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	a, err := s.repo.ListBySessionID(s.ctx, character.ListBySessionIDInput{SessionID: "session-a"})
	s.Require().NoError(err)
	s.Empty(a.Characters)

	b, err := s.repo.ListBySessionID(s.ctx, character.ListBySessionIDInput{SessionID: "session-b"})
	s.Require().NoError(err)
	s.Len(b.Characters, 1)
}

func (s *RedisRepositoryTestSuite) TestUpdateNotFound() {
	_, err := s.repo.Update(s.ctx, character.UpdateInput{
		Character: testutils.NewCharacter("ghost", testutils.TestSessionID, "Ghost"),
	})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestListBySessionIDOrdersByName() {
	for _, c := range testutils.NewParty() {
		_, err := s.repo.Create(s.ctx, character.CreateInput{Character: c})
		s.Require().NoError(err)
	}

	out, err := s.repo.ListBySessionID(s.ctx, character.ListBySessionIDInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	s.Require().Len(out.Characters, 2)
	s.Equal(testutils.TestElaraName, out.Characters[0].Name)
	s.Equal(testutils.TestReinhardName, out.Characters[1].Name)
}

func (s *RedisRepositoryTestSuite) TestListCleansStaleIndex() {
	s.Require().NoError(s.client.SAdd(s.ctx, "character:session:"+testutils.TestSessionID, "stale").Err())

	out, err := s.repo.ListBySessionID(s.ctx, character.ListBySessionIDInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	s.Empty(out.Characters)

	members, err := s.client.SMembers(s.ctx, "character:session:"+testutils.TestSessionID).Result()
	s.Require().NoError(err)
	s.Empty(members)
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	char := testutils.NewCharacter("char-1", testutils.TestSessionID, "Aria")
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: char})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{ID: "char-1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, character.GetInput{ID: "char-1"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{ID: "char-1"})
	s.True(errors.IsNotFound(err))
}
