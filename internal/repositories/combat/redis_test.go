package combat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/combat"
	"github.com/KirkDiggler/rpg-narrator/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	cleanup func()
	clock   *clock.Fixed
	repo    combat.Repository
	ctx     context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.clock = clock.NewFixed(time.Unix(1700000000, 0))

	repo, err := combat.NewRedis(&combat.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) newCombat(id string) *entities.Combat {
	return &entities.Combat{
		ID:        id,
		SessionID: testutils.TestSessionID,
		Name:      "Goblin Ambush",
		IsActive:  true,
		Round:     1,
		Combatants: []*entities.Combatant{
			{ID: "cb-1", Name: "Goblin", Initiative: 12, HP: 7, MaxHP: 7, AC: 15, IsActive: true},
		},
	}
}

func (s *RedisRepositoryTestSuite) TestCreateGetUpdate() {
	_, err := s.repo.Create(s.ctx, combat.CreateInput{Combat: s.newCombat("combat-1")})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, combat.GetInput{ID: "combat-1"})
	s.Require().NoError(err)
	s.Require().Len(got.Combat.Combatants, 1)

	got.Combat.Combatants[0].HP = 3
	got.Combat.Round = 2
	_, err = s.repo.Update(s.ctx, combat.UpdateInput{Combat: got.Combat})
	s.Require().NoError(err)

	again, err := s.repo.Get(s.ctx, combat.GetInput{ID: "combat-1"})
	s.Require().NoError(err)
	s.Equal(3, again.Combat.Combatants[0].HP)
	s.Equal(2, again.Combat.Round)
}

func (s *RedisRepositoryTestSuite) TestCreateDoesNotAliasInput() {
	in := s.newCombat("combat-1")
	out, err := s.repo.Create(s.ctx, combat.CreateInput{Combat: in})
	s.Require().NoError(err)

	out.Combat.Combatants[0].HP = 0
	s.Equal(7, in.Combatants[0].HP)
}

func (s *RedisRepositoryTestSuite) TestUpdateNotFound() {
	_, err := s.repo.Update(s.ctx, combat.UpdateInput{Combat: s.newCombat("missing")})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestActivePointer() {
	_, err := s.repo.GetActive(s.ctx, combat.GetActiveInput{SessionID: testutils.TestSessionID})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Create(s.ctx, combat.CreateInput{Combat: s.newCombat("combat-1")})
	s.Require().NoError(err)
	s.Require().NoError(s.repo.SetActive(s.ctx, combat.SetActiveInput{
		SessionID: testutils.TestSessionID,
		CombatID:  "combat-1",
	}))

	active, err := s.repo.GetActive(s.ctx, combat.GetActiveInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	s.Equal("combat-1", active.Combat.ID)

	// Clearing with a stale ID leaves the pointer alone
	s.Require().NoError(s.repo.ClearActive(s.ctx, combat.ClearActiveInput{
		SessionID: testutils.TestSessionID,
		CombatID:  "combat-0",
	}))
	_, err = s.repo.GetActive(s.ctx, combat.GetActiveInput{SessionID: testutils.TestSessionID})
	s.NoError(err)

	s.Require().NoError(s.repo.ClearActive(s.ctx, combat.ClearActiveInput{
		SessionID: testutils.TestSessionID,
		CombatID:  "combat-1",
	}))
	_, err = s.repo.GetActive(s.ctx, combat.GetActiveInput{SessionID: testutils.TestSessionID})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestListBySessionNewestFirst() {
	_, err := s.repo.Create(s.ctx, combat.CreateInput{Combat: s.newCombat("combat-1")})
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.repo.Create(s.ctx, combat.CreateInput{Combat: s.newCombat("combat-2")})
	s.Require().NoError(err)

	out, err := s.repo.ListBySession(s.ctx, combat.ListBySessionInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	s.Require().Len(out.Combats, 2)
	s.Equal("combat-2", out.Combats[0].ID)
	s.Equal("combat-1", out.Combats[1].ID)
}
