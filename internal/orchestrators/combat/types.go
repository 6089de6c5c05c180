package combat

import (
	"github.com/KirkDiggler/rpg-narrator/internal/entities"
)

// CombatantInput describes one roster entry. When CharacterID is set the
// name, hit points, armor class and dexterity come from the character.
type CombatantInput struct {
	CharacterID string
	Name        string
	// Initiative skips the d20 roll when set
	Initiative      *int
	HP              int
	MaxHP           int
	AC              int
	Dexterity       int
	InitiativeBonus int
	Notes           string
}

// StartCombatInput defines the request for starting a combat
type StartCombatInput struct {
	SessionID  string
	Name       string
	Combatants []CombatantInput
}

// StartCombatOutput defines the response for starting a combat
type StartCombatOutput struct {
	Combat *entities.Combat
	// Ended is the combat that was active before, if any
	Ended *entities.Combat
}

// AddCombatantInput defines the request for adding a combatant
type AddCombatantInput struct {
	CombatID  string
	Combatant CombatantInput
}

// AddCombatantOutput defines the response for adding a combatant
type AddCombatantOutput struct {
	Combat      *entities.Combat
	CombatantID string
}

// NextTurnInput defines the request for advancing the turn
type NextTurnInput struct {
	CombatID string
}

// NextTurnOutput defines the response for advancing the turn
type NextTurnOutput struct {
	Combat *entities.Combat
}

// PreviousTurnInput defines the request for stepping the turn back
type PreviousTurnInput struct {
	CombatID string
}

// PreviousTurnOutput defines the response for stepping the turn back
type PreviousTurnOutput struct {
	Combat *entities.Combat
}

// DamageCombatantInput defines the request for damaging a combatant
type DamageCombatantInput struct {
	CombatID    string
	CombatantID string
	Amount      int
}

// DamageCombatantOutput defines the response for damaging a combatant
type DamageCombatantOutput struct {
	Combat *entities.Combat
	// Character is the linked character after propagation, nil when unlinked
	Character *entities.Character
}

// HealCombatantInput defines the request for healing a combatant
type HealCombatantInput struct {
	CombatID    string
	CombatantID string
	Amount      int
}

// HealCombatantOutput defines the response for healing a combatant
type HealCombatantOutput struct {
	Combat    *entities.Combat
	Character *entities.Character
}

// RemoveCombatantInput defines the request for removing a combatant
type RemoveCombatantInput struct {
	CombatID    string
	CombatantID string
}

// RemoveCombatantOutput defines the response for removing a combatant
type RemoveCombatantOutput struct {
	Combat *entities.Combat
}

// UpdateCombatantInput defines the request for editing a combatant.
// Nil fields are left unchanged.
type UpdateCombatantInput struct {
	CombatID    string
	CombatantID string
	Conditions  *[]string
	Notes       *string
	AC          *int
	Initiative  *int
}

// UpdateCombatantOutput defines the response for editing a combatant
type UpdateCombatantOutput struct {
	Combat *entities.Combat
}

// EndCombatInput defines the request for ending a combat
type EndCombatInput struct {
	CombatID string
}

// EndCombatOutput defines the response for ending a combat
type EndCombatOutput struct {
	Combat *entities.Combat
}

// GetCombatInput defines the request for fetching a combat
type GetCombatInput struct {
	CombatID string
}

// GetCombatOutput defines the response for fetching a combat
type GetCombatOutput struct {
	Combat *entities.Combat
}

// GetActiveCombatInput defines the request for the session's active combat
type GetActiveCombatInput struct {
	SessionID string
}

// GetActiveCombatOutput defines the response for the session's active combat
type GetActiveCombatOutput struct {
	Combat *entities.Combat
}

// ListCombatsInput defines the request for listing a session's combats
type ListCombatsInput struct {
	SessionID string
}

// ListCombatsOutput defines the response for listing a session's combats
type ListCombatsOutput struct {
	Combats []*entities.Combat
}

// SyncCharacterHPInput defines the request for mirroring a character's hit
// points onto the active combat
type SyncCharacterHPInput struct {
	SessionID   string
	CharacterID string
	HP          int
}

// SyncCharacterHPOutput defines the response for mirroring hit points
type SyncCharacterHPOutput struct {
	// Synced is false when no active combat links the character
	Synced bool
	Combat *entities.Combat
}
