// Package pendingaction stores the actions submitted for the turn that has not run yet
package pendingaction

//go:generate mockgen -destination=mock/mock_repository.go -package=pendingactionmock github.com/KirkDiggler/rpg-narrator/internal/repositories/pending_action Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
)

// Repository holds at most one pending action per character per session
type Repository interface {
	// Upsert stores the action, replacing any earlier one from the same character
	Upsert(ctx context.Context, input UpsertInput) (*UpsertOutput, error)

	// List returns pending actions ordered by submission time
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Clear removes the given actions or characters' actions, or all actions when both are empty
	Clear(ctx context.Context, input ClearInput) (*ClearOutput, error)
}

// UpsertInput defines the input for storing an action
type UpsertInput struct {
	Action *entities.PendingAction
}

// UpsertOutput defines the output for storing an action
type UpsertOutput struct {
	// Replaced is true when the character already had a pending action
	Replaced bool
}

// ListInput defines the input for listing actions
type ListInput struct {
	SessionID string
}

// ListOutput defines the output for listing actions
type ListOutput struct {
	Actions []*entities.PendingAction
}

// ClearInput defines the input for clearing actions
type ClearInput struct {
	SessionID    string
	CharacterIDs []string
	// Actions removes each action only while it is still the stored one,
	// so a replacement upserted after List survives
	Actions []*entities.PendingAction
}

// ClearOutput defines the output for clearing actions
type ClearOutput struct {
	Removed int64
}
