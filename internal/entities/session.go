package entities

// Transcript roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// EntryType classifies a transcript entry
type EntryType string

// Transcript entry types
const (
	EntryTypeContext   EntryType = "context"
	EntryTypeAction    EntryType = "action"
	EntryTypeNarration EntryType = "narration"
	EntryTypeGMNudge   EntryType = "gm_nudge"
)

// Session is a running story: the full transcript plus the rolling summary
// that stands in for its compacted prefix.
type Session struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Transcript []TranscriptEntry `json:"transcript"`
	Summary    string            `json:"summary,omitempty"`
	// CompactedCount is the transcript prefix already folded into Summary.
	// It never exceeds len(Transcript).
	CompactedCount int   `json:"compacted_count"`
	TotalTokens    int   `json:"total_tokens"`
	CurrentTurn    int   `json:"current_turn"`
	CreatedAt      int64 `json:"created_at"`
	UpdatedAt      int64 `json:"updated_at"`
}

// TranscriptEntry is one line of the story log
type TranscriptEntry struct {
	ID            string    `json:"id"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	Type          EntryType `json:"type"`
	Hidden        bool      `json:"hidden,omitempty"`
	CharacterID   string    `json:"character_id,omitempty"`
	CharacterName string    `json:"character_name,omitempty"`
	Turn          int       `json:"turn"`
	CreatedAt     int64     `json:"created_at"`
}

// Uncompacted returns the entries after the compacted prefix
func (s *Session) Uncompacted() []TranscriptEntry {
	start := s.CompactedCount
	if start < 0 {
		start = 0
	}
	if start > len(s.Transcript) {
		start = len(s.Transcript)
	}
	return s.Transcript[start:]
}

// Visible returns the entries a player should see
func (s *Session) Visible() []TranscriptEntry {
	out := make([]TranscriptEntry, 0, len(s.Transcript))
	for _, e := range s.Transcript {
		if !e.Hidden {
			out = append(out, e)
		}
	}
	return out
}

// PendingAction is a queued action for one character in one session
type PendingAction struct {
	SessionID   string `json:"session_id"`
	CharacterID string `json:"character_id"`
	Text        string `json:"text"`
	SubmittedAt int64  `json:"submitted_at"`
}
