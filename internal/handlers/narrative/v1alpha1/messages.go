package v1alpha1

import (
	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/services/directives"
)

// CreateSessionRequest starts a new story
type CreateSessionRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Name      string `json:"name"`
}

// GetSessionRequest reads a session transcript
type GetSessionRequest struct {
	SessionID     string `json:"session_id"`
	IncludeHidden bool   `json:"include_hidden,omitempty"`
}

// SessionResponse carries a session
type SessionResponse struct {
	Session *entities.Session `json:"session"`
}

// SessionRequest addresses a session
type SessionRequest struct {
	SessionID string `json:"session_id"`
}

// SubmitActionRequest queues a character's action
type SubmitActionRequest struct {
	SessionID   string `json:"session_id"`
	CharacterID string `json:"character_id"`
	Text        string `json:"text"`
}

// SubmitActionResponse reports whether the turn ran
type SubmitActionResponse struct {
	Processed bool        `json:"processed"`
	Waiting   int         `json:"waiting"`
	Turn      *TurnResult `json:"turn,omitempty"`
}

// ForceProcessResponse carries a forced turn
type ForceProcessResponse struct {
	Turn *TurnResult `json:"turn"`
}

// TurnResult describes a processed turn
type TurnResult struct {
	Turn          int                           `json:"turn"`
	Narration     string                        `json:"narration"`
	TokensUsed    int                           `json:"tokens_used"`
	Changes       []*directives.Change          `json:"changes,omitempty"`
	Skipped       []*directives.PartialTagError `json:"skipped,omitempty"`
	Compacted     bool                          `json:"compacted,omitempty"`
	SummaryFailed bool                          `json:"summary_failed,omitempty"`
}

// GetPendingActionsResponse lists queued actions
type GetPendingActionsResponse struct {
	Actions   []*entities.PendingAction `json:"actions"`
	PartySize int                       `json:"party_size"`
	Waiting   int                       `json:"waiting"`
}

// AddNudgeRequest adds an operator note for the narrator
type AddNudgeRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// AddNudgeResponse carries the stored note
type AddNudgeResponse struct {
	Entry entities.TranscriptEntry `json:"entry"`
}

// Combatant is one roster entry. Linked entries need only character_id.
type Combatant struct {
	CharacterID     string `json:"character_id,omitempty"`
	Name            string `json:"name,omitempty"`
	Initiative      *int   `json:"initiative,omitempty"`
	HP              int    `json:"hp,omitempty"`
	MaxHP           int    `json:"max_hp,omitempty"`
	AC              int    `json:"ac,omitempty"`
	Dexterity       int    `json:"dexterity,omitempty"`
	InitiativeBonus int    `json:"initiative_bonus,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// StartCombatRequest starts a combat for a session
type StartCombatRequest struct {
	SessionID  string      `json:"session_id"`
	Name       string      `json:"name"`
	Combatants []Combatant `json:"combatants"`
}

// AddCombatantRequest joins a combatant mid-combat
type AddCombatantRequest struct {
	CombatID  string    `json:"combat_id"`
	Combatant Combatant `json:"combatant"`
}

// CombatRequest addresses a combat
type CombatRequest struct {
	CombatID string `json:"combat_id"`
}

// CombatantRequest addresses one combatant, with an amount for damage and healing
type CombatantRequest struct {
	CombatID    string `json:"combat_id"`
	CombatantID string `json:"combatant_id"`
	Amount      int    `json:"amount,omitempty"`
}

// UpdateCombatantRequest edits a combatant. Absent fields are unchanged.
type UpdateCombatantRequest struct {
	CombatID    string    `json:"combat_id"`
	CombatantID string    `json:"combatant_id"`
	Conditions  *[]string `json:"conditions,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	AC          *int      `json:"ac,omitempty"`
	Initiative  *int      `json:"initiative,omitempty"`
}

// CombatResponse carries a combat and whatever else the call touched
type CombatResponse struct {
	Combat      *entities.Combat    `json:"combat"`
	Ended       *entities.Combat    `json:"ended,omitempty"`
	Character   *entities.Character `json:"character,omitempty"`
	CombatantID string              `json:"combatant_id,omitempty"`
}

// ListCombatsResponse lists a session's combats, newest first
type ListCombatsResponse struct {
	Combats []*entities.Combat `json:"combats"`
}
