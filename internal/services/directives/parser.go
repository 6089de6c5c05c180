package directives

import (
	"regexp"
	"strconv"
	"strings"
)

var tagPattern = regexp.MustCompile(`\[(\w+):\s*([^\]]*)\]`)

var (
	xpEntry     = regexp.MustCompile(`^(.+?)\s+\+?(\d+)$`)
	moneyEntry  = regexp.MustCompile(`(?i)^(.+?)\s+([+-])\s*(\d+)\s*(?:gp|gold)?$`)
	itemEntry   = regexp.MustCompile(`(?i)^(.+?)\s+([+-])\s*(.+?)(?:\s+x\s*(\d+))?$`)
	hpEntry     = regexp.MustCompile(`^(.+?)\s+([+=-])\s*(\d+)$`)
	spellEntry  = regexp.MustCompile(`(?i)^(.+?)\s+([+-])\s*(rest|\d+(?:st|nd|rd|th)?)$`)
	acBaseEntry = regexp.MustCompile(`(?i)^(.+?)\s+base\s+(.+?)\s+(\d+)$`)
	acAddEntry  = regexp.MustCompile(`^(.+?)\s+\+(.+?)\s+([+-]?\d+)(?:\s+(\S+))?$`)
	acDropEntry = regexp.MustCompile(`^(.+?)\s+-(.+)$`)
	combatBody  = regexp.MustCompile(`(?i)^(START|END|NEXT|PREV)\b\s*(.*)$`)
)

// entryParser turns one comma-separated entry into a directive
type entryParser func(tag, entry string) (Directive, *PartialTagError)

type tagHandler struct {
	parse entryParser
	// whole passes the bracket body through without splitting on commas
	whole bool
}

var handlers = map[string]tagHandler{
	"XP":     {parse: parseXP},
	"MONEY":  {parse: parseMoney},
	"GOLD":   {parse: parseMoney},
	"ITEM":   {parse: parseItem},
	"HP":     {parse: parseHP},
	"SPELL":  {parse: parseSpell},
	"AC":     {parse: parseAC},
	"COMBAT": {parse: parseCombat, whole: true},
}

// Result holds everything found in one narration, in textual order
type Result struct {
	Directives []Directive
	Errors     []*PartialTagError
}

// Parse scans text for known tags. Unknown tag names are ignored.
func Parse(text string) *Result {
	result := &Result{}

	for _, match := range tagPattern.FindAllStringSubmatch(text, -1) {
		tag := strings.ToUpper(match[1])
		handler, ok := handlers[tag]
		if !ok {
			continue
		}

		body := strings.TrimSpace(match[2])
		entries := []string{body}
		if !handler.whole {
			entries = strings.Split(body, ",")
		}

		for _, entry := range entries {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			d, perr := handler.parse(tag, entry)
			if perr != nil {
				result.Errors = append(result.Errors, perr)
				continue
			}
			result.Directives = append(result.Directives, d)
		}
	}

	return result
}

func parseXP(tag, entry string) (Directive, *PartialTagError) {
	m := xpEntry.FindStringSubmatch(entry)
	if m == nil {
		return nil, partial(tag, entry, "expected 'Name +N'")
	}
	amount, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, partial(tag, entry, "invalid amount %q", m[2])
	}
	return XP{base: base{target: m[1], source: entry}, Amount: amount}, nil
}

func parseMoney(tag, entry string) (Directive, *PartialTagError) {
	m := moneyEntry.FindStringSubmatch(entry)
	if m == nil {
		return nil, partial(tag, entry, "expected 'Name +N' or 'Name -N'")
	}
	amount, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, partial(tag, entry, "invalid amount %q", m[3])
	}
	if m[2] == "-" {
		amount = -amount
	}
	return Money{base: base{target: m[1], source: entry}, Delta: amount, Tag: tag}, nil
}

func parseItem(tag, entry string) (Directive, *PartialTagError) {
	m := itemEntry.FindStringSubmatch(entry)
	if m == nil {
		return nil, partial(tag, entry, "expected 'Name +Item' or 'Name -Item'")
	}
	quantity := 1
	if m[4] != "" {
		q, err := strconv.Atoi(m[4])
		if err != nil || q <= 0 {
			return nil, partial(tag, entry, "invalid quantity %q", m[4])
		}
		quantity = q
	}
	name := strings.TrimSpace(m[3])
	if name == "" {
		return nil, partial(tag, entry, "missing item name")
	}
	return Item{
		base:     base{target: m[1], source: entry},
		Name:     name,
		Quantity: quantity,
		Remove:   m[2] == "-",
	}, nil
}

func parseHP(tag, entry string) (Directive, *PartialTagError) {
	m := hpEntry.FindStringSubmatch(entry)
	if m == nil {
		return nil, partial(tag, entry, "expected 'Name -N', 'Name +N' or 'Name =N'")
	}
	amount, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, partial(tag, entry, "invalid amount %q", m[3])
	}
	return HP{base: base{target: m[1], source: entry}, Op: HPOp(m[2]), Amount: amount}, nil
}

func parseSpell(tag, entry string) (Directive, *PartialTagError) {
	m := spellEntry.FindStringSubmatch(entry)
	if m == nil {
		return nil, partial(tag, entry, "expected 'Name -Lst', 'Name +Lst' or 'Name +REST'")
	}
	b := base{target: m[1], source: entry}
	value := strings.ToLower(m[3])

	if value == "rest" {
		if m[2] != "+" {
			return nil, partial(tag, entry, "rest can only restore")
		}
		return Spell{base: b, Rest: true}, nil
	}

	level, err := strconv.Atoi(strings.TrimRight(value, "stndrh"))
	if err != nil || level <= 0 {
		return nil, partial(tag, entry, "invalid slot level %q", m[3])
	}
	return Spell{base: b, Level: level, Restore: m[2] == "+"}, nil
}

func parseAC(tag, entry string) (Directive, *PartialTagError) {
	if m := acBaseEntry.FindStringSubmatch(entry); m != nil {
		value, err := strconv.Atoi(m[3])
		if err != nil {
			return nil, partial(tag, entry, "invalid armor value %q", m[3])
		}
		return AC{
			base:  base{target: m[1], source: entry},
			Op:    ACSetBase,
			Name:  strings.TrimSpace(m[2]),
			Value: value,
		}, nil
	}

	if m := acAddEntry.FindStringSubmatch(entry); m != nil {
		value, err := strconv.Atoi(m[3])
		if err != nil {
			return nil, partial(tag, entry, "invalid effect value %q", m[3])
		}
		effectType := m[4]
		if effectType == "" {
			effectType = "misc"
		}
		return AC{
			base:  base{target: m[1], source: entry},
			Op:    ACAddEffect,
			Name:  strings.TrimSpace(m[2]),
			Value: value,
			Type:  effectType,
		}, nil
	}

	if m := acDropEntry.FindStringSubmatch(entry); m != nil {
		return AC{
			base: base{target: m[1], source: entry},
			Op:   ACRemoveEffect,
			Name: strings.TrimSpace(m[2]),
		}, nil
	}

	return nil, partial(tag, entry, "expected 'Name base Armor N', 'Name +Effect +N Type' or 'Name -Effect'")
}

func parseCombat(tag, entry string) (Directive, *PartialTagError) {
	m := combatBody.FindStringSubmatch(entry)
	if m == nil {
		return nil, partial(tag, entry, "expected START, END, NEXT or PREV")
	}
	return Combat{
		base: base{source: entry},
		Op:   CombatOp(strings.ToUpper(m[1])),
		Name: strings.TrimSpace(m[2]),
	}, nil
}
