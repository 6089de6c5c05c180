package directives

import (
	"errors"
	"strings"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
)

// ErrNoMatch is returned when no tier resolves a name
var ErrNoMatch = errors.New("no character matches name")

// Resolve maps a free-text name to a party member. The tiers run in order and
// a later tier only fires when every earlier tier found nothing:
//  1. exact full name, case-insensitive
//  2. the term is the first name token, or a space-terminated prefix of the name
//  3. substring containment in either direction
//
// Within a tier the first party member wins.
func Resolve(term string, party []*entities.Character) (*entities.Character, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil, ErrNoMatch
	}

	for _, c := range party {
		if strings.ToLower(c.Name) == needle {
			return c, nil
		}
	}

	for _, c := range party {
		name := strings.ToLower(c.Name)
		fields := strings.Fields(name)
		if len(fields) > 0 && fields[0] == needle {
			return c, nil
		}
		if strings.HasPrefix(name, needle+" ") {
			return c, nil
		}
	}

	for _, c := range party {
		name := strings.ToLower(c.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, needle) || strings.Contains(needle, name) {
			return c, nil
		}
	}

	return nil, ErrNoMatch
}
