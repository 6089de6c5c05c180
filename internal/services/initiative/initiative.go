// Package initiative holds the combat tracker state machine. Every transition
// takes a combat and returns a new one; the input is never modified.
//
// After each transition CurrentTurn indexes an active combatant whenever at
// least one exists.
package initiative

import (
	"sort"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
)

// Entry describes a combatant joining the order
type Entry struct {
	ID          string
	CharacterID string
	Name        string
	// Initiative is used as given when set, otherwise d20 + DEX modifier + Bonus
	Initiative *int
	Dexterity  int
	Bonus      int
	HP         int
	MaxHP      int
	AC         int
	Notes      string
}

// Patch carries optional combatant field updates
type Patch struct {
	Conditions *[]string
	Notes      *string
	AC         *int
	Initiative *int
}

// Start builds a fresh active combat from roster. base supplies the ID,
// session and name.
func Start(base *entities.Combat, roster []Entry, roller dice.Roller) (*entities.Combat, error) {
	if base == nil {
		return nil, errors.InvalidArgument("combat cannot be nil")
	}
	if len(roster) == 0 {
		return nil, errors.InvalidArgument("roster cannot be empty")
	}

	out := base.Clone()
	out.Combatants = make([]*entities.Combatant, 0, len(roster))
	for _, entry := range roster {
		cb, err := newCombatant(entry, roller)
		if err != nil {
			return nil, err
		}
		out.Combatants = append(out.Combatants, cb)
	}

	sortByInitiative(out.Combatants)
	out.IsActive = true
	out.Round = 1
	out.CurrentTurn = 0
	normalize(out)

	return out, nil
}

// Add inserts a combatant into a running combat. The combatant whose turn it
// is keeps the turn.
func Add(c *entities.Combat, entry Entry, roller dice.Roller) (*entities.Combat, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}
	if entry.ID != "" && c.IndexOf(entry.ID) >= 0 {
		return nil, errors.AlreadyExistsf("combatant %s already in combat", entry.ID)
	}

	out := c.Clone()
	var currentID string
	if cur := out.Current(); cur != nil && cur.IsActive {
		currentID = cur.ID
	}

	cb, err := newCombatant(entry, roller)
	if err != nil {
		return nil, err
	}
	out.Combatants = append(out.Combatants, cb)
	sortByInitiative(out.Combatants)

	if currentID != "" {
		out.CurrentTurn = out.IndexOf(currentID)
	}
	normalize(out)

	return out, nil
}

// Next advances to the next active combatant. Wrapping past the end starts a
// new round.
func Next(c *entities.Combat) (*entities.Combat, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}
	if !hasActive(c) {
		return nil, errors.FailedPrecondition("no active combatants")
	}

	out := c.Clone()
	if idx := findForward(out, out.CurrentTurn+1); idx >= 0 {
		out.CurrentTurn = idx
		return out, nil
	}

	out.Round++
	out.CurrentTurn = findForward(out, 0)
	return out, nil
}

// Prev retreats to the previous active combatant. Wrapping before the start
// goes back a round, never below round 1.
func Prev(c *entities.Combat) (*entities.Combat, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}
	if !hasActive(c) {
		return nil, errors.FailedPrecondition("no active combatants")
	}

	out := c.Clone()
	if idx := findBackward(out, out.CurrentTurn-1); idx >= 0 {
		out.CurrentTurn = idx
		return out, nil
	}

	out.Round = max(1, out.Round-1)
	out.CurrentTurn = findBackward(out, len(out.Combatants)-1)
	return out, nil
}

// Damage lowers hit points, floored at 0. A combatant at 0 leaves the rotation.
func Damage(c *entities.Combat, combatantID string, amount int) (*entities.Combat, error) {
	if amount < 0 {
		return nil, errors.InvalidArgument("damage amount cannot be negative")
	}
	return withCombatant(c, combatantID, func(cb *entities.Combatant) {
		setHP(cb, cb.HP-amount)
	})
}

// Heal raises hit points, capped at max. Healing above 0 returns a downed
// combatant to the rotation.
func Heal(c *entities.Combat, combatantID string, amount int) (*entities.Combat, error) {
	if amount < 0 {
		return nil, errors.InvalidArgument("heal amount cannot be negative")
	}
	return withCombatant(c, combatantID, func(cb *entities.Combatant) {
		setHP(cb, cb.HP+amount)
	})
}

// SetHP sets hit points directly, clamped to [0, max]
func SetHP(c *entities.Combat, combatantID string, hp int) (*entities.Combat, error) {
	return withCombatant(c, combatantID, func(cb *entities.Combatant) {
		setHP(cb, hp)
	})
}

// Update applies a patch to one combatant. A changed initiative re-sorts the
// order while the current combatant keeps the turn.
func Update(c *entities.Combat, combatantID string, patch Patch) (*entities.Combat, error) {
	out, err := withCombatant(c, combatantID, func(cb *entities.Combatant) {
		if patch.Conditions != nil {
			cb.Conditions = append([]string(nil), (*patch.Conditions)...)
		}
		if patch.Notes != nil {
			cb.Notes = *patch.Notes
		}
		if patch.AC != nil {
			cb.AC = *patch.AC
		}
		if patch.Initiative != nil {
			cb.Initiative = *patch.Initiative
		}
	})
	if err != nil || patch.Initiative == nil {
		return out, err
	}

	var currentID string
	if cur := out.Current(); cur != nil {
		currentID = cur.ID
	}
	sortByInitiative(out.Combatants)
	if currentID != "" {
		out.CurrentTurn = out.IndexOf(currentID)
	}
	normalize(out)
	return out, nil
}

// Remove deletes a combatant. The turn index follows the entries that stay.
func Remove(c *entities.Combat, combatantID string) (*entities.Combat, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}
	idx := c.IndexOf(combatantID)
	if idx < 0 {
		return nil, errors.NotFoundf("combatant %s not found", combatantID)
	}

	out := c.Clone()
	out.Combatants = append(out.Combatants[:idx], out.Combatants[idx+1:]...)

	if idx < out.CurrentTurn {
		out.CurrentTurn--
	}
	if out.CurrentTurn >= len(out.Combatants) {
		out.CurrentTurn = 0
	}
	normalize(out)

	return out, nil
}

// End deactivates the combat. Combatants and counters are kept as history.
func End(c *entities.Combat) (*entities.Combat, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}
	out := c.Clone()
	out.IsActive = false
	return out, nil
}

func newCombatant(entry Entry, roller dice.Roller) (*entities.Combatant, error) {
	if entry.Name == "" {
		return nil, errors.InvalidArgument("combatant name is required")
	}

	initiative := 0
	if entry.Initiative != nil {
		initiative = *entry.Initiative
	} else {
		if roller == nil {
			return nil, errors.Internal("no dice roller for initiative")
		}
		roll, err := roller.Roll(20)
		if err != nil {
			return nil, errors.Wrap(err, "failed to roll initiative")
		}
		initiative = roll + entities.Modifier(entry.Dexterity) + entry.Bonus
	}

	maxHP := entry.MaxHP
	if maxHP < entry.HP {
		maxHP = entry.HP
	}

	return &entities.Combatant{
		ID:          entry.ID,
		CharacterID: entry.CharacterID,
		Name:        entry.Name,
		Initiative:  initiative,
		HP:          entry.HP,
		MaxHP:       maxHP,
		AC:          entry.AC,
		IsActive:    maxHP == 0 || entry.HP > 0,
		Notes:       entry.Notes,
	}, nil
}

func withCombatant(c *entities.Combat, combatantID string, fn func(*entities.Combatant)) (*entities.Combat, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}
	idx := c.IndexOf(combatantID)
	if idx < 0 {
		return nil, errors.NotFoundf("combatant %s not found", combatantID)
	}

	out := c.Clone()
	fn(out.Combatants[idx])
	normalize(out)
	return out, nil
}

func setHP(cb *entities.Combatant, hp int) {
	cb.HP = min(max(0, hp), cb.MaxHP)
	cb.IsActive = cb.HP > 0
}

func requireActive(c *entities.Combat) error {
	if c == nil {
		return errors.InvalidArgument("combat cannot be nil")
	}
	if !c.IsActive {
		return errors.FailedPreconditionf("combat %s has ended", c.ID)
	}
	return nil
}

// sortByInitiative orders highest first, keeping insertion order on ties
func sortByInitiative(combatants []*entities.Combatant) {
	sort.SliceStable(combatants, func(i, j int) bool {
		return combatants[i].Initiative > combatants[j].Initiative
	})
}

// normalize moves CurrentTurn onto an active combatant without touching the round
func normalize(c *entities.Combat) {
	if len(c.Combatants) == 0 {
		c.CurrentTurn = 0
		return
	}
	if c.CurrentTurn < 0 || c.CurrentTurn >= len(c.Combatants) {
		c.CurrentTurn = 0
	}
	if c.Combatants[c.CurrentTurn].IsActive {
		return
	}
	if idx := findForward(c, c.CurrentTurn+1); idx >= 0 {
		c.CurrentTurn = idx
		return
	}
	if idx := findForward(c, 0); idx >= 0 {
		c.CurrentTurn = idx
	}
}

func hasActive(c *entities.Combat) bool {
	return findForward(c, 0) >= 0
}

func findForward(c *entities.Combat, from int) int {
	for i := max(0, from); i < len(c.Combatants); i++ {
		if c.Combatants[i].IsActive {
			return i
		}
	}
	return -1
}

func findBackward(c *entities.Combat, from int) int {
	for i := min(from, len(c.Combatants)-1); i >= 0; i-- {
		if c.Combatants[i].IsActive {
			return i
		}
	}
	return -1
}
