package entities

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
)

// EntityTypeCombatant is the core.Entity type reported by combatants
const EntityTypeCombatant = "combatant"

// Combat is an initiative-ordered encounter inside a session
type Combat struct {
	ID         string       `json:"id"`
	SessionID  string       `json:"session_id"`
	Name       string       `json:"name"`
	IsActive   bool         `json:"is_active"`
	Combatants []*Combatant `json:"combatants"`
	// CurrentTurn indexes an active combatant whenever one exists
	CurrentTurn int   `json:"current_turn"`
	Round       int   `json:"round"`
	CreatedAt   int64 `json:"created_at"`
	UpdatedAt   int64 `json:"updated_at"`
}

// Combatant is one entry in the initiative order
type Combatant struct {
	ID          string   `json:"id"`
	CharacterID string   `json:"character_id,omitempty"`
	Name        string   `json:"name"`
	Initiative  int      `json:"initiative"`
	HP          int      `json:"hp"`
	MaxHP       int      `json:"max_hp"`
	AC          int      `json:"ac"`
	IsActive    bool     `json:"is_active"`
	Conditions  []string `json:"conditions,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

var _ core.Entity = (*Combatant)(nil)

// GetID implements core.Entity
func (c *Combatant) GetID() string {
	return c.ID
}

// GetType implements core.Entity
func (c *Combatant) GetType() string {
	return EntityTypeCombatant
}

// IsLinked reports whether the combatant mirrors a persisted character
func (c *Combatant) IsLinked() bool {
	return c.CharacterID != ""
}

// Current returns the combatant whose turn it is, or nil
func (c *Combat) Current() *Combatant {
	if c.CurrentTurn < 0 || c.CurrentTurn >= len(c.Combatants) {
		return nil
	}
	return c.Combatants[c.CurrentTurn]
}

// IndexOf returns the position of the combatant with id, or -1
func (c *Combat) IndexOf(id string) int {
	for i, cb := range c.Combatants {
		if cb.ID == id {
			return i
		}
	}
	return -1
}

// IndexOfCharacter returns the position of the combatant linked to characterID, or -1
func (c *Combat) IndexOfCharacter(characterID string) int {
	for i, cb := range c.Combatants {
		if cb.CharacterID == characterID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy
func (c *Combat) Clone() *Combat {
	if c == nil {
		return nil
	}
	out := *c
	out.Combatants = make([]*Combatant, len(c.Combatants))
	for i, cb := range c.Combatants {
		copied := *cb
		copied.Conditions = append([]string(nil), cb.Conditions...)
		out.Combatants[i] = &copied
	}
	return &out
}
