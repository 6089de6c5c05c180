package directives_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/services/directives"
	"github.com/KirkDiggler/rpg-narrator/internal/testutils"
)

type ApplyTestSuite struct {
	suite.Suite
	aria *entities.Character
}

func TestApplySuite(t *testing.T) {
	suite.Run(t, new(ApplyTestSuite))
}

func (s *ApplyTestSuite) SetupTest() {
	s.aria = testutils.NewCaster("char-aria", testutils.TestSessionID, "Aria")
	s.aria.HP, s.aria.MaxHP = 30, 30
}

// applyText parses text and applies every directive to Aria in order
func (s *ApplyTestSuite) applyText(text string) []error {
	var errs []error
	result := directives.Parse(text)
	s.Require().Empty(result.Errors)
	for _, d := range result.Directives {
		if _, err := directives.Apply(s.aria, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (s *ApplyTestSuite) TestHPSetZero() {
	s.Empty(s.applyText("[HP: Aria =0]"))
	s.Equal(0, s.aria.HP)
}

func (s *ApplyTestSuite) TestHPHealClampsToMax() {
	s.aria.HP, s.aria.MaxHP = 5, 20
	s.Empty(s.applyText("[HP: Aria +100]"))
	s.Equal(20, s.aria.HP)
}

func (s *ApplyTestSuite) TestHPDamageFloorsAtZero() {
	s.Empty(s.applyText("[HP: Aria -45]"))
	s.Equal(0, s.aria.HP)
}

func (s *ApplyTestSuite) TestHPComposesInOrder() {
	s.Empty(s.applyText("[HP: Aria -10, Aria +4] [HP: Aria -1]"))
	s.Equal(23, s.aria.HP)
}

func (s *ApplyTestSuite) TestItemStackLifecycle() {
	s.Empty(s.applyText("[ITEM: Aria +Torch x3]"))
	s.Empty(s.applyText("[ITEM: Aria -Torch x2]"))
	s.Equal([]entities.InventoryItem{{Name: "Torch", Quantity: 1}}, s.aria.Inventory)

	s.Empty(s.applyText("[ITEM: Aria -torch]"))
	s.Empty(s.aria.Inventory)
}

func (s *ApplyTestSuite) TestItemMergesCaseInsensitive() {
	s.Empty(s.applyText("[ITEM: Aria +Rope, Aria +rope x2]"))
	s.Equal([]entities.InventoryItem{{Name: "Rope", Quantity: 3}}, s.aria.Inventory)
}

func (s *ApplyTestSuite) TestRemoveMissingItemIsPartial() {
	errs := s.applyText("[ITEM: Aria -Lantern]")
	s.Require().Len(errs, 1)
	var perr *directives.PartialTagError
	s.ErrorAs(errs[0], &perr)
	s.Equal("ITEM", perr.Tag)
}

func (s *ApplyTestSuite) TestMoneyFloorsAtZero() {
	s.Empty(s.applyText("[MONEY: Aria -3] [GOLD: Aria -100]"))
	s.Equal(0, s.aria.Gold)

	s.Empty(s.applyText("[GOLD: Aria +25 gp]"))
	s.Equal(25, s.aria.Gold)
}

func (s *ApplyTestSuite) TestXP() {
	s.Empty(s.applyText("[XP: Aria +50, Aria 25]"))
	s.Equal(75, s.aria.XP)
}

func (s *ApplyTestSuite) TestSpellSlots() {
	s.Empty(s.applyText("[SPELL: Aria -1st, Aria -1st]"))
	s.Equal(2, s.aria.SpellSlots[1].Used)

	errs := s.applyText("[SPELL: Aria -1st]")
	s.Len(errs, 1, "no free slot")

	s.Empty(s.applyText("[SPELL: Aria +1st]"))
	s.Equal(1, s.aria.SpellSlots[1].Used)

	s.Empty(s.applyText("[SPELL: Aria -2nd, Aria +REST]"))
	s.Equal(0, s.aria.SpellSlots[1].Used)
	s.Equal(0, s.aria.SpellSlots[2].Used)

	s.Len(s.applyText("[SPELL: Aria +1st]"), 1, "nothing to restore")
	s.Len(s.applyText("[SPELL: Aria -9th]"), 1, "unknown level")
}

func (s *ApplyTestSuite) TestArmorClass() {
	s.Empty(s.applyText("[AC: Aria base Mage Armor 13]"))
	s.Equal(entities.ACBase{Source: "Mage Armor", Value: 13}, s.aria.ArmorClass.Base)

	s.Empty(s.applyText("[AC: Aria +Shield +5 spell, Aria +Ring of Protection +1 item]"))
	s.Equal(19, s.aria.ArmorClass.Total())
	s.True(s.aria.ArmorClass.Effects[0].Temporary)
	s.False(s.aria.ArmorClass.Effects[1].Temporary)

	// Upsert replaces by name
	s.Empty(s.applyText("[AC: Aria +shield +2 condition]"))
	s.Len(s.aria.ArmorClass.Effects, 2)
	s.Equal(16, s.aria.ArmorClass.Total())

	s.Empty(s.applyText("[AC: Aria -Shield]"))
	s.Equal(14, s.aria.ArmorClass.Total())

	s.Len(s.applyText("[AC: Aria -Haste]"), 1)
}

func (s *ApplyTestSuite) TestCombatIsNotACharacterDirective() {
	result := directives.Parse("[COMBAT: NEXT]")
	s.Require().Len(result.Directives, 1)

	_, err := directives.Apply(s.aria, result.Directives[0])
	s.Error(err)
}
