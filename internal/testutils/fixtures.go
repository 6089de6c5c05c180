package testutils

import (
	"github.com/KirkDiggler/rpg-narrator/internal/entities"
)

// Default names used across suites; "Reinhard Lockeheart" exercises the
// multi-token name resolution tiers.
const (
	TestSessionID    = "session-test-001"
	TestReinhardID   = "char-reinhard"
	TestElaraID      = "char-elara"
	TestReinhardName = "Reinhard Lockeheart"
	TestElaraName    = "Elara"
)

// NewCharacter creates a level 1 character with sensible defaults
func NewCharacter(id, sessionID, name string) *entities.Character {
	return &entities.Character{
		ID:        id,
		SessionID: sessionID,
		Name:      name,
		Race:      "human",
		Class:     "fighter",
		Level:     1,
		AbilityScores: entities.AbilityScores{
			Strength:     15,
			Dexterity:    14,
			Constitution: 13,
			Intelligence: 10,
			Wisdom:       12,
			Charisma:     8,
		},
		HP:    20,
		MaxHP: 20,
		ArmorClass: entities.ArmorClass{
			Base: entities.ACBase{Source: "Chain Mail", Value: 16},
		},
		SpellSlots: map[int]*entities.SpellSlot{},
		Gold:       10,
	}
}

// NewCaster creates a wizard with two first-level and one second-level slot
func NewCaster(id, sessionID, name string) *entities.Character {
	c := NewCharacter(id, sessionID, name)
	c.Class = "wizard"
	c.HP, c.MaxHP = 12, 12
	c.ArmorClass = entities.ArmorClass{Base: entities.ACBase{Source: "Unarmored", Value: 12}}
	c.SpellSlots = map[int]*entities.SpellSlot{
		1: {Max: 2},
		2: {Max: 1},
	}
	c.Spells = []string{"Magic Missile", "Shield", "Misty Step"}
	return c
}

// NewParty returns Reinhard Lockeheart and Elara in TestSessionID
func NewParty() []*entities.Character {
	return []*entities.Character{
		NewCharacter(TestReinhardID, TestSessionID, TestReinhardName),
		NewCaster(TestElaraID, TestSessionID, TestElaraName),
	}
}
