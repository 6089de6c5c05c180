// Package entities provides the core data structures of the narrator service.
package entities

import (
	"sort"
	"strings"
)

// Character is a party member as persisted in the character store
type Character struct {
	ID            string         `json:"id"`
	SessionID     string         `json:"session_id"`
	PlayerID      string         `json:"player_id,omitempty"`
	Name          string         `json:"name"`
	Race          string         `json:"race,omitempty"`
	Class         string         `json:"class,omitempty"`
	Level         int            `json:"level"`
	Multiclass    map[string]int `json:"multiclass,omitempty"`
	AbilityScores AbilityScores  `json:"ability_scores"`
	HP            int            `json:"hp"`
	MaxHP         int            `json:"max_hp"`
	ArmorClass    ArmorClass     `json:"armor_class"`
	// SpellSlots is keyed by spell level (1-9)
	SpellSlots      map[int]*SpellSlot `json:"spell_slots,omitempty"`
	Inventory       []InventoryItem    `json:"inventory,omitempty"`
	Gold            int                `json:"gold"`
	XP              int                `json:"xp"`
	InitiativeBonus int                `json:"initiative_bonus,omitempty"`
	Spells          []string           `json:"spells,omitempty"`
	Skills          []string           `json:"skills,omitempty"`
	Passives        []string           `json:"passives,omitempty"`
	ClassFeatures   []string           `json:"class_features,omitempty"`
	Feats           []string           `json:"feats,omitempty"`
	CreatedAt       int64              `json:"created_at"`
	UpdatedAt       int64              `json:"updated_at"`
}

// AbilityScores holds the six core ability scores
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Modifier returns the D&D 5e ability modifier, floor((score - 10) / 2)
func Modifier(score int) int {
	modifier := (score - 10) / 2
	if score < 10 && (score-10)%2 != 0 {
		modifier--
	}
	return modifier
}

// ArmorClass is a base value plus an ordered list of named effects
type ArmorClass struct {
	Base    ACBase     `json:"base"`
	Effects []ACEffect `json:"effects,omitempty"`
}

// ACBase records where the base armor value comes from
type ACBase struct {
	Source string `json:"source"`
	Value  int    `json:"value"`
}

// ACEffect is a named modifier layered on the base armor class
type ACEffect struct {
	Name      string `json:"name"`
	Value     int    `json:"value"`
	Type      string `json:"type"`
	Temporary bool   `json:"temporary"`
}

// Total returns base plus every effect
func (ac ArmorClass) Total() int {
	total := ac.Base.Value
	for _, e := range ac.Effects {
		total += e.Value
	}
	return total
}

// EffectIndex returns the index of the effect with a case-insensitive name
// match, or -1.
func (ac ArmorClass) EffectIndex(name string) int {
	for i, e := range ac.Effects {
		if strings.EqualFold(e.Name, name) {
			return i
		}
	}
	return -1
}

// SpellSlot tracks capacity and usage for one spell level
type SpellSlot struct {
	Max  int `json:"max"`
	Used int `json:"used"`
}

// Remaining returns unused slots
func (s SpellSlot) Remaining() int {
	return s.Max - s.Used
}

// SlotLevels returns the spell slot levels in ascending order
func (c *Character) SlotLevels() []int {
	levels := make([]int, 0, len(c.SpellSlots))
	for level := range c.SpellSlots {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

// InventoryItem is a stack of identical items
type InventoryItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ItemIndex returns the index of the stack with a case-insensitive name match, or -1
func (c *Character) ItemIndex(name string) int {
	for i, item := range c.Inventory {
		if strings.EqualFold(item.Name, name) {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can mutate without aliasing stored state
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	if c.Multiclass != nil {
		out.Multiclass = make(map[string]int, len(c.Multiclass))
		for k, v := range c.Multiclass {
			out.Multiclass[k] = v
		}
	}
	if c.SpellSlots != nil {
		out.SpellSlots = make(map[int]*SpellSlot, len(c.SpellSlots))
		for level, slot := range c.SpellSlots {
			if slot == nil {
				continue
			}
			copied := *slot
			out.SpellSlots[level] = &copied
		}
	}
	out.ArmorClass.Effects = append([]ACEffect(nil), c.ArmorClass.Effects...)
	out.Inventory = append([]InventoryItem(nil), c.Inventory...)
	out.Spells = append([]string(nil), c.Spells...)
	out.Skills = append([]string(nil), c.Skills...)
	out.Passives = append([]string(nil), c.Passives...)
	out.ClassFeatures = append([]string(nil), c.ClassFeatures...)
	out.Feats = append([]string(nil), c.Feats...)
	return &out
}
