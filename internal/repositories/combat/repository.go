// Package combat persists initiative trackers and the per-session active pointer
package combat

//go:generate mockgen -destination=mock/mock_repository.go -package=combatmock github.com/KirkDiggler/rpg-narrator/internal/repositories/combat Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
)

// Repository defines the interface for combat persistence
type Repository interface {
	// Create stores a new combat and indexes it under its session
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a combat by ID
	// Returns errors.NotFound if the combat doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces the stored combat
	// Returns errors.NotFound if the combat doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// GetActive returns the session's active combat
	// Returns errors.NotFound when no combat is active
	GetActive(ctx context.Context, input GetActiveInput) (*GetActiveOutput, error)

	// SetActive points the session at a combat
	SetActive(ctx context.Context, input SetActiveInput) error

	// ClearActive drops the session's active pointer if it still names CombatID
	ClearActive(ctx context.Context, input ClearActiveInput) error

	// ListBySession returns every combat recorded for a session, newest first
	ListBySession(ctx context.Context, input ListBySessionInput) (*ListBySessionOutput, error)
}

// CreateInput defines the input for creating a combat
type CreateInput struct {
	Combat *entities.Combat
}

// CreateOutput defines the output for creating a combat
type CreateOutput struct {
	Combat *entities.Combat
}

// GetInput defines the input for getting a combat
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a combat
type GetOutput struct {
	Combat *entities.Combat
}

// UpdateInput defines the input for updating a combat
type UpdateInput struct {
	Combat *entities.Combat
}

// UpdateOutput defines the output for updating a combat
type UpdateOutput struct {
	Combat *entities.Combat
}

// GetActiveInput defines the input for getting the active combat
type GetActiveInput struct {
	SessionID string
}

// GetActiveOutput defines the output for getting the active combat
type GetActiveOutput struct {
	Combat *entities.Combat
}

// SetActiveInput defines the input for setting the active combat
type SetActiveInput struct {
	SessionID string
	CombatID  string
}

// ClearActiveInput defines the input for clearing the active combat
type ClearActiveInput struct {
	SessionID string
	CombatID  string
}

// ListBySessionInput defines the input for listing combats
type ListBySessionInput struct {
	SessionID string
}

// ListBySessionOutput defines the output for listing combats
type ListBySessionOutput struct {
	Combats []*entities.Combat
}
