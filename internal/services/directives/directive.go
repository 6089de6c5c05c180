// Package directives turns bracketed tags in narration text into typed state
// changes. Parsing, name resolution and application are pure; persistence and
// notification belong to the mutation orchestrator.
//
// Grammar (case-insensitive, comma-separated entries per bracket):
//
//	[XP: Name +N]
//	[MONEY: Name +N|-N]            GOLD is an alias
//	[ITEM: Name +Item[ xK]|-Item[ xK]]
//	[HP: Name -N|+N|=N]
//	[SPELL: Name -Lst|+Lst|+REST]
//	[AC: Name base Armor Value]
//	[AC: Name +Effect +Value Type]
//	[AC: Name -Effect]
//	[COMBAT: START Name|END|NEXT|PREV]
package directives

import (
	"fmt"
)

// Kind names a directive family
type Kind string

// Directive kinds
const (
	KindXP     Kind = "XP"
	KindMoney  Kind = "MONEY"
	KindItem   Kind = "ITEM"
	KindHP     Kind = "HP"
	KindSpell  Kind = "SPELL"
	KindAC     Kind = "AC"
	KindCombat Kind = "COMBAT"
)

// Directive is one parsed entry. Target is the free-text character name and is
// empty for combat control.
type Directive interface {
	Kind() Kind
	Target() string
	// Source is the raw entry text as it appeared inside the bracket
	Source() string
}

type base struct {
	target string
	source string
}

func (b base) Target() string { return b.target }
func (b base) Source() string { return b.source }

// XP adds experience
type XP struct {
	base
	Amount int
}

// Kind implements Directive
func (XP) Kind() Kind { return KindXP }

// Money adds or subtracts gold. The result never drops below zero.
type Money struct {
	base
	Delta int
	// Tag is MONEY or GOLD
	Tag string
}

// Kind implements Directive
func (Money) Kind() Kind { return KindMoney }

// Item adds or removes a stack of items
type Item struct {
	base
	Name     string
	Quantity int
	Remove   bool
}

// Kind implements Directive
func (Item) Kind() Kind { return KindItem }

// HPOp is the hit point operator
type HPOp string

// Hit point operators
const (
	HPDamage HPOp = "-"
	HPHeal   HPOp = "+"
	HPSet    HPOp = "="
)

// HP damages, heals or sets hit points
type HP struct {
	base
	Op     HPOp
	Amount int
}

// Kind implements Directive
func (HP) Kind() Kind { return KindHP }

// Spell consumes or restores one slot, or resets every slot on a rest
type Spell struct {
	base
	Level   int
	Restore bool
	Rest    bool
}

// Kind implements Directive
func (Spell) Kind() Kind { return KindSpell }

// ACOp selects the armor class change
type ACOp string

// Armor class operations
const (
	ACSetBase      ACOp = "set_base"
	ACAddEffect    ACOp = "add_effect"
	ACRemoveEffect ACOp = "remove_effect"
)

// AC changes the armor base or its effect list
type AC struct {
	base
	Op ACOp
	// Name is the armor source for ACSetBase and the effect name otherwise
	Name  string
	Value int
	Type  string
}

// Kind implements Directive
func (AC) Kind() Kind { return KindAC }

// CombatOp is the combat control verb
type CombatOp string

// Combat control verbs
const (
	CombatStart CombatOp = "START"
	CombatEnd   CombatOp = "END"
	CombatNext  CombatOp = "NEXT"
	CombatPrev  CombatOp = "PREV"
)

// Combat controls the session's combat tracker
type Combat struct {
	base
	Op CombatOp
	// Name is the encounter name for START
	Name string
}

// Kind implements Directive
func (Combat) Kind() Kind { return KindCombat }

// PartialTagError reports one directive that was skipped. Sibling directives
// in the same narration are unaffected.
type PartialTagError struct {
	Tag    string `json:"tag"`
	Entry  string `json:"entry"`
	Reason string `json:"reason"`
}

// Error implements error
func (e *PartialTagError) Error() string {
	return fmt.Sprintf("skipped [%s: %s]: %s", e.Tag, e.Entry, e.Reason)
}

func partial(tag, entry, format string, args ...any) *PartialTagError {
	return &PartialTagError{Tag: tag, Entry: entry, Reason: fmt.Sprintf(format, args...)}
}
