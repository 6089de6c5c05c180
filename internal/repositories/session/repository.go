// Package session provides persistence for session transcripts and counters
package session

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionmock github.com/KirkDiggler/rpg-narrator/internal/repositories/session Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
)

// Repository defines the interface for session persistence
type Repository interface {
	// Create stores a new session
	// Returns errors.AlreadyExists if a session with the same ID exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a session by ID
	// Returns errors.NotFound if the session doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces transcript, summary and counters
	// Returns errors.NotFound if the session doesn't exist
	// Returns errors.InvalidArgument if compacted_count exceeds the transcript
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)
}

// CreateInput defines the input for creating a session
type CreateInput struct {
	Session *entities.Session
}

// CreateOutput defines the output for creating a session
type CreateOutput struct {
	Session *entities.Session
}

// GetInput defines the input for getting a session
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a session
type GetOutput struct {
	Session *entities.Session
}

// UpdateInput defines the input for updating a session
type UpdateInput struct {
	Session *entities.Session
}

// UpdateOutput defines the output for updating a session
type UpdateOutput struct {
	Session *entities.Session
}
