package directives

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
)

// Change describes one applied directive
type Change struct {
	Kind        Kind   `json:"kind"`
	CharacterID string `json:"character_id"`
	Description string `json:"description"`
}

// temporaryEffectTypes mark AC effects that lapse on their own
var temporaryEffectTypes = map[string]bool{
	"temp":      true,
	"temporary": true,
	"spell":     true,
	"condition": true,
}

// Apply mutates c according to d. Callers pass a clone when the original must
// stay untouched. Combat directives are not character changes and are rejected.
func Apply(c *entities.Character, d Directive) (*Change, error) {
	change := &Change{Kind: d.Kind(), CharacterID: c.ID}

	switch v := d.(type) {
	case XP:
		before := c.XP
		c.XP += v.Amount
		change.Description = fmt.Sprintf("xp %d -> %d", before, c.XP)

	case Money:
		before := c.Gold
		c.Gold = max(0, c.Gold+v.Delta)
		change.Description = fmt.Sprintf("gold %d -> %d", before, c.Gold)

	case Item:
		desc, err := applyItem(c, v)
		if err != nil {
			return nil, err
		}
		change.Description = desc

	case HP:
		before := c.HP
		switch v.Op {
		case HPDamage:
			c.HP = max(0, c.HP-v.Amount)
		case HPHeal:
			c.HP = min(c.MaxHP, c.HP+v.Amount)
		case HPSet:
			c.HP = clamp(v.Amount, 0, c.MaxHP)
		default:
			return nil, partial(string(KindHP), v.Source(), "unknown operator %q", v.Op)
		}
		change.Description = fmt.Sprintf("hp %d -> %d", before, c.HP)

	case Spell:
		desc, err := applySpell(c, v)
		if err != nil {
			return nil, err
		}
		change.Description = desc

	case AC:
		desc, err := applyAC(c, v)
		if err != nil {
			return nil, err
		}
		change.Description = desc

	default:
		return nil, partial(string(d.Kind()), d.Source(), "not a character directive")
	}

	return change, nil
}

func applyItem(c *entities.Character, v Item) (string, error) {
	idx := c.ItemIndex(v.Name)

	if !v.Remove {
		if idx >= 0 {
			c.Inventory[idx].Quantity += v.Quantity
			return fmt.Sprintf("%s x%d", c.Inventory[idx].Name, c.Inventory[idx].Quantity), nil
		}
		c.Inventory = append(c.Inventory, entities.InventoryItem{Name: v.Name, Quantity: v.Quantity})
		return fmt.Sprintf("%s x%d", v.Name, v.Quantity), nil
	}

	if idx < 0 {
		return "", partial(string(KindItem), v.Source(), "%s has no %s", c.Name, v.Name)
	}

	item := &c.Inventory[idx]
	item.Quantity -= v.Quantity
	if item.Quantity <= 0 {
		name := item.Name
		c.Inventory = append(c.Inventory[:idx], c.Inventory[idx+1:]...)
		return fmt.Sprintf("%s removed", name), nil
	}
	return fmt.Sprintf("%s x%d", item.Name, item.Quantity), nil
}

func applySpell(c *entities.Character, v Spell) (string, error) {
	if v.Rest {
		for _, slot := range c.SpellSlots {
			if slot != nil {
				slot.Used = 0
			}
		}
		return "spell slots restored", nil
	}

	slot, ok := c.SpellSlots[v.Level]
	if !ok || slot == nil {
		return "", partial(string(KindSpell), v.Source(), "%s has no level %d slots", c.Name, v.Level)
	}

	if v.Restore {
		if slot.Used == 0 {
			return "", partial(string(KindSpell), v.Source(), "no used level %d slot to restore", v.Level)
		}
		slot.Used--
	} else {
		if slot.Remaining() <= 0 {
			return "", partial(string(KindSpell), v.Source(), "no free level %d slot", v.Level)
		}
		slot.Used++
	}

	return fmt.Sprintf("level %d slots %d/%d", v.Level, slot.Remaining(), slot.Max), nil
}

func applyAC(c *entities.Character, v AC) (string, error) {
	switch v.Op {
	case ACSetBase:
		c.ArmorClass.Base = entities.ACBase{Source: v.Name, Value: v.Value}

	case ACAddEffect:
		effect := entities.ACEffect{
			Name:      v.Name,
			Value:     v.Value,
			Type:      v.Type,
			Temporary: temporaryEffectTypes[strings.ToLower(v.Type)],
		}
		if idx := c.ArmorClass.EffectIndex(v.Name); idx >= 0 {
			c.ArmorClass.Effects[idx] = effect
		} else {
			c.ArmorClass.Effects = append(c.ArmorClass.Effects, effect)
		}

	case ACRemoveEffect:
		idx := c.ArmorClass.EffectIndex(v.Name)
		if idx < 0 {
			return "", partial(string(KindAC), v.Source(), "%s has no effect %s", c.Name, v.Name)
		}
		c.ArmorClass.Effects = append(c.ArmorClass.Effects[:idx], c.ArmorClass.Effects[idx+1:]...)

	default:
		return "", partial(string(KindAC), v.Source(), "unknown operation %q", v.Op)
	}

	return fmt.Sprintf("ac %d", c.ArmorClass.Total()), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
