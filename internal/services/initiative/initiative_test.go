package initiative_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/services/initiative"
)

// fixedRoller returns the queued rolls in order, then 10
type fixedRoller struct {
	rolls []int
}

func (r *fixedRoller) Roll(_ int) (int, error) {
	if len(r.rolls) == 0 {
		return 10, nil
	}
	next := r.rolls[0]
	r.rolls = r.rolls[1:]
	return next, nil
}

func (r *fixedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i], _ = r.Roll(size)
	}
	return out, nil
}

func intPtr(v int) *int { return &v }

type InitiativeTestSuite struct {
	suite.Suite
	base *entities.Combat
}

func TestInitiativeSuite(t *testing.T) {
	suite.Run(t, new(InitiativeTestSuite))
}

func (s *InitiativeTestSuite) SetupTest() {
	s.base = &entities.Combat{ID: "combat-1", SessionID: "session-1", Name: "Bridge Fight"}
}

// fourWay starts a combat with initiatives [20,15,15,5]
func (s *InitiativeTestSuite) fourWay() *entities.Combat {
	c, err := initiative.Start(s.base, []initiative.Entry{
		{ID: "d", Name: "Dregg", Initiative: intPtr(5), HP: 10, MaxHP: 10},
		{ID: "b", Name: "Bryn", Initiative: intPtr(15), HP: 10, MaxHP: 10},
		{ID: "a", Name: "Aria", Initiative: intPtr(20), HP: 10, MaxHP: 10},
		{ID: "c", Name: "Cole", Initiative: intPtr(15), HP: 10, MaxHP: 10},
	}, nil)
	s.Require().NoError(err)
	return c
}

func ids(c *entities.Combat) []string {
	out := make([]string, len(c.Combatants))
	for i, cb := range c.Combatants {
		out[i] = cb.ID
	}
	return out
}

func (s *InitiativeTestSuite) TestStartSortsDescendingStable() {
	c := s.fourWay()
	s.Equal([]string{"a", "b", "c", "d"}, ids(c))
	s.True(c.IsActive)
	s.Equal(1, c.Round)
	s.Equal(0, c.CurrentTurn)
}

func (s *InitiativeTestSuite) TestStartRollsD20PlusDexAndBonus() {
	roller := &fixedRoller{rolls: []int{12, 3}}
	c, err := initiative.Start(s.base, []initiative.Entry{
		{ID: "quick", Name: "Quick", Dexterity: 16, Bonus: 2, HP: 5, MaxHP: 5},
		{ID: "slow", Name: "Slow", Dexterity: 8, HP: 5, MaxHP: 5},
	}, roller)
	s.Require().NoError(err)

	s.Equal("quick", c.Combatants[0].ID)
	s.Equal(17, c.Combatants[0].Initiative)
	s.Equal(2, c.Combatants[1].Initiative)
}

func (s *InitiativeTestSuite) TestStartValidation() {
	_, err := initiative.Start(s.base, nil, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = initiative.Start(s.base, []initiative.Entry{{ID: "x", Name: "X"}}, nil)
	s.True(errors.IsInternal(err))
}

func (s *InitiativeTestSuite) TestNextWrapsAndIncrementsRound() {
	c := s.fourWay()
	c.CurrentTurn = 3

	next, err := initiative.Next(c)
	s.Require().NoError(err)
	s.Equal(0, next.CurrentTurn)
	s.Equal(2, next.Round)

	// Input untouched
	s.Equal(3, c.CurrentTurn)
	s.Equal(1, c.Round)
}

func (s *InitiativeTestSuite) TestNextSkipsInactive() {
	c := s.fourWay()
	c.Combatants[1].IsActive = false
	c.Combatants[1].HP = 0

	next, err := initiative.Next(c)
	s.Require().NoError(err)
	s.Equal(2, next.CurrentTurn)

	c.Combatants[0].IsActive = false
	c.CurrentTurn = 3
	next, err = initiative.Next(c)
	s.Require().NoError(err)
	s.Equal(2, next.CurrentTurn)
	s.Equal(2, next.Round)
}

func (s *InitiativeTestSuite) TestPrevWrapsAndFloorsRound() {
	c := s.fourWay()

	prev, err := initiative.Prev(c)
	s.Require().NoError(err)
	s.Equal(3, prev.CurrentTurn)
	s.Equal(1, prev.Round)

	c.Round = 3
	c.Combatants[3].IsActive = false
	prev, err = initiative.Prev(c)
	s.Require().NoError(err)
	s.Equal(2, prev.CurrentTurn)
	s.Equal(2, prev.Round)
}

func (s *InitiativeTestSuite) TestNoActiveCombatants() {
	c := s.fourWay()
	for _, cb := range c.Combatants {
		cb.IsActive = false
	}

	_, err := initiative.Next(c)
	s.True(errors.IsFailedPrecondition(err))
	_, err = initiative.Prev(c)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *InitiativeTestSuite) TestRemoveBeforeCurrentDecrements() {
	c := s.fourWay()
	c.CurrentTurn = 2

	out, err := initiative.Remove(c, "b")
	s.Require().NoError(err)
	s.Equal(1, out.CurrentTurn)
	s.Equal("c", out.Current().ID)
}

func (s *InitiativeTestSuite) TestRemoveLastCurrentWraps() {
	c := s.fourWay()
	c.CurrentTurn = 3

	out, err := initiative.Remove(c, "d")
	s.Require().NoError(err)
	s.Equal(0, out.CurrentTurn)
	s.Len(out.Combatants, 3)
}

func (s *InitiativeTestSuite) TestRemoveUnknown() {
	_, err := initiative.Remove(s.fourWay(), "zzz")
	s.True(errors.IsNotFound(err))
}

func (s *InitiativeTestSuite) TestDamageToZeroLeavesRotation() {
	c := s.fourWay()

	out, err := initiative.Damage(c, "a", 25)
	s.Require().NoError(err)
	s.Equal(0, out.Combatants[0].HP)
	s.False(out.Combatants[0].IsActive)
	s.Equal(1, out.CurrentTurn, "turn moves off the downed combatant")
	s.Equal(1, out.Round)
}

func (s *InitiativeTestSuite) TestHealClampsAndReactivates() {
	c := s.fourWay()
	downed, err := initiative.Damage(c, "b", 10)
	s.Require().NoError(err)
	s.False(downed.Combatants[1].IsActive)

	healed, err := initiative.Heal(downed, "b", 50)
	s.Require().NoError(err)
	s.Equal(10, healed.Combatants[1].HP)
	s.True(healed.Combatants[1].IsActive)
}

func (s *InitiativeTestSuite) TestSetHPClamps() {
	out, err := initiative.SetHP(s.fourWay(), "c", -4)
	s.Require().NoError(err)
	s.Equal(0, out.Combatants[2].HP)
	s.False(out.Combatants[2].IsActive)
}

func (s *InitiativeTestSuite) TestAddKeepsCurrentCombatant() {
	c := s.fourWay()
	c.CurrentTurn = 1

	out, err := initiative.Add(c, initiative.Entry{
		ID: "e", Name: "Eve", Initiative: intPtr(18), HP: 4, MaxHP: 4,
	}, nil)
	s.Require().NoError(err)
	s.Equal([]string{"a", "e", "b", "c", "d"}, ids(out))
	s.Equal("b", out.Current().ID)
	s.Equal(2, out.CurrentTurn)
}

func (s *InitiativeTestSuite) TestAddTiesGoAfterExisting() {
	out, err := initiative.Add(s.fourWay(), initiative.Entry{
		ID: "e", Name: "Eve", Initiative: intPtr(15), HP: 4, MaxHP: 4,
	}, nil)
	s.Require().NoError(err)
	s.Equal([]string{"a", "b", "c", "e", "d"}, ids(out))
}

func (s *InitiativeTestSuite) TestAddDuplicate() {
	_, err := initiative.Add(s.fourWay(), initiative.Entry{ID: "a", Name: "Aria"}, nil)
	s.True(errors.IsAlreadyExists(err))
}

func (s *InitiativeTestSuite) TestUpdatePatch() {
	conditions := []string{"prone"}
	notes := "hiding behind the cart"
	out, err := initiative.Update(s.fourWay(), "c", initiative.Patch{
		Conditions: &conditions,
		Notes:      &notes,
		AC:         intPtr(17),
	})
	s.Require().NoError(err)
	s.Equal([]string{"prone"}, out.Combatants[2].Conditions)
	s.Equal(notes, out.Combatants[2].Notes)
	s.Equal(17, out.Combatants[2].AC)
}

func (s *InitiativeTestSuite) TestUpdateInitiativeResorts() {
	c := s.fourWay()
	out, err := initiative.Update(c, "d", initiative.Patch{Initiative: intPtr(30)})
	s.Require().NoError(err)
	s.Equal([]string{"d", "a", "b", "c"}, ids(out))
	s.Equal("a", out.Current().ID)
}

func (s *InitiativeTestSuite) TestEndKeepsHistory() {
	out, err := initiative.End(s.fourWay())
	s.Require().NoError(err)
	s.False(out.IsActive)
	s.Len(out.Combatants, 4)

	_, err = initiative.Next(out)
	s.True(errors.IsFailedPrecondition(err))
}
