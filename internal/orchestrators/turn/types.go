package turn

import (
	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/services/directives"
)

// CreateSessionInput defines the request for starting a story
type CreateSessionInput struct {
	// ID is generated when empty
	ID   string
	Name string
}

// CreateSessionOutput defines the response for starting a story
type CreateSessionOutput struct {
	Session *entities.Session
}

// GetSessionInput defines the request for reading a session
type GetSessionInput struct {
	SessionID string
	// IncludeHidden keeps the party sheets sent to the narrator
	IncludeHidden bool
}

// GetSessionOutput defines the response for reading a session
type GetSessionOutput struct {
	Session *entities.Session
}

// SubmitActionInput defines the request for queueing a character's action
type SubmitActionInput struct {
	SessionID   string
	CharacterID string
	Text        string
}

// SubmitActionOutput defines the response for queueing an action
type SubmitActionOutput struct {
	// Processed is true when this submission completed the barrier
	Processed bool
	// Waiting is the number of party members still to act
	Waiting int
	Result  *TurnResult
}

// ForceProcessInput defines the request for processing with missing actions
type ForceProcessInput struct {
	SessionID string
}

// ForceProcessOutput defines the response for a forced turn
type ForceProcessOutput struct {
	Result *TurnResult
}

// GetPendingActionsInput defines the request for listing queued actions
type GetPendingActionsInput struct {
	SessionID string
}

// GetPendingActionsOutput defines the response for listing queued actions
type GetPendingActionsOutput struct {
	Actions   []*entities.PendingAction
	PartySize int
	Waiting   int
}

// AddNudgeInput defines the request for an operator note to the narrator
type AddNudgeInput struct {
	SessionID string
	Text      string
}

// AddNudgeOutput defines the response for an operator note
type AddNudgeOutput struct {
	Entry entities.TranscriptEntry
}

// TurnResult describes one processed turn
type TurnResult struct {
	Turn       int
	Narration  string
	TokensUsed int
	Changes    []*directives.Change
	Skipped    []*directives.PartialTagError
	// Compacted is true when the history was summarized this turn
	Compacted bool
	// SummaryFailed is true when summarization was due but failed
	SummaryFailed bool
}
