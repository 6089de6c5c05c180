// Package prompt renders party state and transcript history into the
// conversation sent to the narrator.
package prompt

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/KirkDiggler/rpg-narrator/internal/clients/narrator"
	"github.com/KirkDiggler/rpg-narrator/internal/entities"
)

const systemInstructions = `You are the narrator of a tabletop role-playing game shared by several players.
Each turn you receive every player's action. Resolve them together in a single
passage of narration, keep the world consistent with the summary and the party
sheet, and end with a hook that invites the next actions.

When the story changes a character's state, append tags using exactly this
grammar. Use the character's name as it appears on the party sheet.

[XP: Name +N]                    award experience
[MONEY: Name +N] or [MONEY: Name -N]
[ITEM: Name +Item xK] or [ITEM: Name -Item xK]
[HP: Name -N] damage, [HP: Name +N] heal, [HP: Name =N] set
[SPELL: Name -1st] spend a slot, [SPELL: Name +1st] restore one, [SPELL: Name +REST] restore all
[AC: Name base Armor N]          change worn armor
[AC: Name +Effect +N Type]       add or replace an AC effect
[AC: Name -Effect]               remove an AC effect
[COMBAT: START Encounter Name], [COMBAT: NEXT], [COMBAT: PREV], [COMBAT: END]

Several entries may share one tag, separated by commas: [XP: Aria +50, Bram +50].
Never invent characters that are not on the party sheet.`

const summaryInstructions = `You maintain the running summary of a role-playing campaign.
Merge the previous summary with the new transcript into one concise summary that keeps
names, places, unresolved threads, promises, injuries and items gained or lost.
Write plain prose in the past tense. Do not include bracketed tags.`

// SystemInstructions returns the narrator's standing rules
func SystemInstructions() string {
	return systemInstructions
}

// PartySnapshot renders the party sheet placed in the hidden context entry
func PartySnapshot(party []*entities.Character) string {
	var b strings.Builder
	b.WriteString("PARTY SHEET\n")

	for _, c := range party {
		fmt.Fprintf(&b, "\n## %s", c.Name)
		if desc := describeClass(c); desc != "" {
			fmt.Fprintf(&b, " (%s)", desc)
		}
		b.WriteString("\n")

		fmt.Fprintf(&b, "HP %d/%d | XP %d | Gold %d\n", c.HP, c.MaxHP, c.XP, c.Gold)
		fmt.Fprintf(&b, "AC %d = %s %d", c.ArmorClass.Total(), c.ArmorClass.Base.Source, c.ArmorClass.Base.Value)
		for _, e := range c.ArmorClass.Effects {
			fmt.Fprintf(&b, " %+d %s (%s)", e.Value, e.Name, e.Type)
		}
		b.WriteString("\n")

		a := c.AbilityScores
		fmt.Fprintf(&b, "STR %d DEX %d CON %d INT %d WIS %d CHA %d\n",
			a.Strength, a.Dexterity, a.Constitution, a.Intelligence, a.Wisdom, a.Charisma)

		if levels := c.SlotLevels(); len(levels) > 0 {
			parts := make([]string, 0, len(levels))
			for _, level := range levels {
				slot := c.SpellSlots[level]
				parts = append(parts, fmt.Sprintf("L%d %d/%d", level, slot.Remaining(), slot.Max))
			}
			fmt.Fprintf(&b, "Spell slots: %s\n", strings.Join(parts, ", "))
		}

		if len(c.Inventory) > 0 {
			items := make([]string, len(c.Inventory))
			for i, item := range c.Inventory {
				items[i] = fmt.Sprintf("%s x%d", item.Name, item.Quantity)
			}
			fmt.Fprintf(&b, "Inventory: %s\n", strings.Join(items, ", "))
		}

		writeList(&b, "Spells", c.Spells)
		writeList(&b, "Skills", c.Skills)
		writeList(&b, "Passives", c.Passives)
		writeList(&b, "Class features", c.ClassFeatures)
		writeList(&b, "Feats", c.Feats)
	}

	return b.String()
}

func describeClass(c *entities.Character) string {
	var parts []string
	if c.Race != "" {
		parts = append(parts, c.Race)
	}
	if len(c.Multiclass) > 0 {
		classes := make([]string, 0, len(c.Multiclass))
		for class := range c.Multiclass {
			classes = append(classes, class)
		}
		sort.Strings(classes)
		for _, class := range classes {
			parts = append(parts, fmt.Sprintf("%s %d", class, c.Multiclass[class]))
		}
	} else if c.Class != "" {
		parts = append(parts, fmt.Sprintf("%s %d", c.Class, c.Level))
	}
	return strings.Join(parts, " ")
}

func writeList(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(values, ", "))
}

// Conversation builds the narrator request: rules, the rolling summary and the
// uncompacted transcript collapsed into alternating turns. Only the newest
// party sheet is sent.
func Conversation(session *entities.Session) []narrator.Message {
	messages := []narrator.Message{{Role: narrator.RoleSystem, Content: systemInstructions}}
	if session.Summary != "" {
		messages = append(messages, narrator.Message{
			Role:    narrator.RoleSystem,
			Content: "STORY SO FAR\n" + session.Summary,
		})
	}
	return append(messages, Collapse(latestContext(session.Uncompacted()))...)
}

func latestContext(entries []entities.TranscriptEntry) []entities.TranscriptEntry {
	last := -1
	for i, e := range entries {
		if e.Type == entities.EntryTypeContext {
			last = i
		}
	}

	out := make([]entities.TranscriptEntry, 0, len(entries))
	for i, e := range entries {
		if e.Type == entities.EntryTypeContext && i != last {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Collapse maps narration to the assistant and everything else to the user,
// merging consecutive entries of the same speaker.
func Collapse(entries []entities.TranscriptEntry) []narrator.Message {
	var out []narrator.Message
	for _, e := range entries {
		role := narrator.RoleUser
		if e.Type == entities.EntryTypeNarration {
			role = narrator.RoleAssistant
		}
		content := renderEntry(e)

		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n\n" + content
			continue
		}
		out = append(out, narrator.Message{Role: role, Content: content})
	}
	return out
}

func renderEntry(e entities.TranscriptEntry) string {
	switch e.Type {
	case entities.EntryTypeAction:
		if e.CharacterName != "" {
			return fmt.Sprintf("%s: %s", e.CharacterName, e.Content)
		}
	case entities.EntryTypeGMNudge:
		return "GM NOTE: " + e.Content
	}
	return e.Content
}

// Summarization builds the compaction request over entries plus the prior summary
func Summarization(prior string, entries []entities.TranscriptEntry) []narrator.Message {
	var b strings.Builder
	if prior != "" {
		fmt.Fprintf(&b, "PREVIOUS SUMMARY\n%s\n\n", prior)
	}
	b.WriteString("NEW TRANSCRIPT\n")
	for _, e := range entries {
		if e.Type == entities.EntryTypeContext {
			continue
		}
		speaker := "Narrator"
		switch e.Type {
		case entities.EntryTypeAction:
			speaker = e.CharacterName
			if speaker == "" {
				speaker = "Player"
			}
		case entities.EntryTypeGMNudge:
			speaker = "GM"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, e.Content)
	}

	return []narrator.Message{
		{Role: narrator.RoleSystem, Content: summaryInstructions},
		{Role: narrator.RoleUser, Content: b.String()},
	}
}

// EstimateTokens approximates token use as ceil(characters / 4)
func EstimateTokens(messages []narrator.Message, extra ...string) int {
	chars := 0
	for _, m := range messages {
		chars += utf8.RuneCountInString(m.Content)
	}
	for _, s := range extra {
		chars += utf8.RuneCountInString(s)
	}
	return (chars + 3) / 4
}
