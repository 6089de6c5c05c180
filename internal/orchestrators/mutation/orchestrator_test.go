package mutation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-narrator/internal/broadcast"
	broadcastmock "github.com/KirkDiggler/rpg-narrator/internal/broadcast/mock"
	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/orchestrators/combat"
	"github.com/KirkDiggler/rpg-narrator/internal/orchestrators/mutation"
	"github.com/KirkDiggler/rpg-narrator/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/character"
	combatrepo "github.com/KirkDiggler/rpg-narrator/internal/repositories/combat"
	"github.com/KirkDiggler/rpg-narrator/internal/services/directives"
	"github.com/KirkDiggler/rpg-narrator/internal/testutils"
)

type stubRoller struct{}

func (stubRoller) Roll(_ int) (int, error)            { return 10, nil }
func (stubRoller) RollN(count, _ int) ([]int, error) { return make([]int, count), nil }

func eventIs(name string) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		msg, ok := x.(*broadcast.Message)
		return ok && msg.Event == name
	})
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	broadcaster   *broadcastmock.MockBroadcaster
	characterRepo character.Repository
	combatService combat.Service
	orchestrator  mutation.Service
	party         []*entities.Character
	cleanup       func()
	ctx           context.Context
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.broadcaster = broadcastmock.NewMockBroadcaster(s.ctrl)
	s.ctx = context.Background()

	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	var err error
	s.characterRepo, err = character.NewRedis(&character.RedisConfig{Client: client})
	s.Require().NoError(err)
	combatRepo, err := combatrepo.NewRedis(&combatrepo.RedisConfig{Client: client})
	s.Require().NoError(err)

	s.party = nil
	for _, c := range testutils.NewParty() {
		out, err := s.characterRepo.Create(s.ctx, character.CreateInput{Character: c})
		s.Require().NoError(err)
		s.party = append(s.party, out.Character)
	}

	s.combatService, err = combat.NewOrchestrator(&combat.Config{
		CombatRepo:    combatRepo,
		CharacterRepo: s.characterRepo,
		Broadcaster:   s.broadcaster,
		IDGenerator:   idgen.NewSequential("cb"),
		DiceRoller:    stubRoller{},
	})
	s.Require().NoError(err)

	s.orchestrator, err = mutation.NewOrchestrator(&mutation.Config{
		CharacterRepo: s.characterRepo,
		CombatService: s.combatService,
		Broadcaster:   s.broadcaster,
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.cleanup()
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) apply(text string) *mutation.ApplyOutput {
	out, err := s.orchestrator.Apply(s.ctx, &mutation.ApplyInput{
		SessionID:  testutils.TestSessionID,
		Party:      s.party,
		Directives: directives.Parse(text).Directives,
	})
	s.Require().NoError(err)
	return out
}

func (s *OrchestratorTestSuite) stored(id string) *entities.Character {
	out, err := s.characterRepo.Get(s.ctx, character.GetInput{ID: id})
	s.Require().NoError(err)
	return out.Character
}

func (s *OrchestratorTestSuite) TestAppliesAndPersistsEachDirective() {
	s.broadcaster.EXPECT().Emit(gomock.Any(), eventIs(broadcast.EventCharacterUpdated)).Times(3)

	out := s.apply("[XP: Reinhard +50] [GOLD: Elar +5] [ITEM: elara +Torch x2]")
	s.Len(out.Changes, 3)
	s.Empty(out.Skipped)

	s.Equal(50, s.stored(testutils.TestReinhardID).XP)
	elara := s.stored(testutils.TestElaraID)
	s.Equal(15, elara.Gold)
	s.Equal([]entities.InventoryItem{{Name: "Torch", Quantity: 2}}, elara.Inventory)
}

func (s *OrchestratorTestSuite) TestLaterDirectivesCompose() {
	s.broadcaster.EXPECT().Emit(gomock.Any(), eventIs(broadcast.EventCharacterUpdated)).Times(3)

	out := s.apply("[HP: Reinhard -5] [HP: Reinhard -5] [HP: Reinhard +3]")
	s.Equal(13, s.stored(testutils.TestReinhardID).HP)
	s.Equal(13, out.Party[0].HP)

	// Caller's party is untouched
	s.Equal(20, s.party[0].HP)
}

func (s *OrchestratorTestSuite) TestFailuresDoNotBlockSiblings() {
	s.broadcaster.EXPECT().Emit(gomock.Any(), eventIs(broadcast.EventCharacterUpdated)).Times(2)

	out := s.apply("[XP: Gandalf +10, Elara +10] [ITEM: Elara -Lantern] [SPELL: Elara -1st]")
	s.Len(out.Changes, 2)
	s.Require().Len(out.Skipped, 2)
	s.Equal("XP", out.Skipped[0].Tag)
	s.Contains(out.Skipped[0].Reason, "Gandalf")
	s.Equal("ITEM", out.Skipped[1].Tag)

	elara := s.stored(testutils.TestElaraID)
	s.Equal(10, elara.XP)
	s.Equal(1, elara.SpellSlots[1].Used)
}

func (s *OrchestratorTestSuite) TestCombatDirectives() {
	s.broadcaster.EXPECT().Emit(gomock.Any(), eventIs(broadcast.EventCombatUpdated)).Times(2)
	s.broadcaster.EXPECT().Emit(gomock.Any(), eventIs(broadcast.EventCombatEnded))

	out := s.apply("[COMBAT: START Ambush] [COMBAT: NEXT] [COMBAT: END]")
	s.Empty(out.Skipped)

	list, err := s.combatService.ListCombats(s.ctx, &combat.ListCombatsInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	s.Require().Len(list.Combats, 1)
	s.Equal("Ambush", list.Combats[0].Name)
	s.Len(list.Combats[0].Combatants, 2)
	s.Equal(1, list.Combats[0].CurrentTurn)
	s.False(list.Combats[0].IsActive)
}

func (s *OrchestratorTestSuite) TestCombatControlWithoutCombatIsSkipped() {
	out := s.apply("[COMBAT: NEXT]")
	s.Require().Len(out.Skipped, 1)
	s.Equal("COMBAT", out.Skipped[0].Tag)
}

func (s *OrchestratorTestSuite) TestHPDirectiveMirrorsIntoCombat() {
	s.broadcaster.EXPECT().Emit(gomock.Any(), eventIs(broadcast.EventCombatUpdated)).Times(2)
	s.broadcaster.EXPECT().Emit(gomock.Any(), eventIs(broadcast.EventCharacterUpdated))

	out := s.apply("[COMBAT: START Brawl] [HP: Elara -12]")
	s.Empty(out.Skipped)

	active, err := s.combatService.GetActiveCombat(s.ctx, &combat.GetActiveCombatInput{SessionID: testutils.TestSessionID})
	s.Require().NoError(err)
	idx := active.Combat.IndexOfCharacter(testutils.TestElaraID)
	s.Require().GreaterOrEqual(idx, 0)
	s.Equal(0, active.Combat.Combatants[idx].HP)
	s.False(active.Combat.Combatants[idx].IsActive)
}

func (s *OrchestratorTestSuite) TestValidation() {
	_, err := s.orchestrator.Apply(s.ctx, &mutation.ApplyInput{})
	s.True(errors.IsInvalidArgument(err))
}
