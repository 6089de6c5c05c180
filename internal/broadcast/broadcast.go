// Package broadcast pushes change notifications to connected clients.
// Delivery is at-most-once: a slow subscriber loses messages rather than
// holding up turn processing. Clients reconcile by re-fetching on reconnect.
package broadcast

//go:generate mockgen -destination=mock/mock_broadcaster.go -package=broadcastmock github.com/KirkDiggler/rpg-narrator/internal/broadcast Broadcaster

import (
	"context"
)

// Event names
const (
	EventActionSubmitted  = "action_submitted"
	EventTurnStarted      = "turn_started"
	EventNarration        = "narration"
	EventTurnProcessed    = "turn_processed"
	EventCharacterUpdated = "character_updated"
	EventSessionUpdated   = "session_updated"
	EventCombatUpdated    = "combat_updated"
	EventCombatEnded      = "combat_ended"
)

// EventNames lists every event the hub forwards
var EventNames = []string{
	EventActionSubmitted,
	EventTurnStarted,
	EventNarration,
	EventTurnProcessed,
	EventCharacterUpdated,
	EventSessionUpdated,
	EventCombatUpdated,
	EventCombatEnded,
}

// Broadcaster emits notifications. Emit never fails the caller.
type Broadcaster interface {
	Emit(ctx context.Context, msg *Message)
}

// Message is one notification for a session
type Message struct {
	Event     string `json:"event"`
	SessionID string `json:"session_id"`
	Payload   any    `json:"payload,omitempty"`
	EmittedAt int64  `json:"emitted_at"`
}
