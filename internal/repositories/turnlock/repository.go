// Package turnlock provides the per-session processing lock that keeps at most
// one turn in flight. Each acquisition carries a monotonically increasing
// generation so a late release can never free a newer holder's lock.
package turnlock

//go:generate mockgen -destination=mock/mock_repository.go -package=turnlockmock github.com/KirkDiggler/rpg-narrator/internal/repositories/turnlock Repository

import (
	"context"
	"time"
)

// Repository defines the turn lock operations
type Repository interface {
	// Acquire takes the session lock
	// Returns errors.Conflict if another turn holds it
	Acquire(ctx context.Context, input AcquireInput) (*AcquireOutput, error)

	// Renew resets the lock's TTL if Generation still owns it
	Renew(ctx context.Context, input RenewInput) (*RenewOutput, error)

	// Release frees the lock if Generation still owns it
	Release(ctx context.Context, input ReleaseInput) (*ReleaseOutput, error)

	// Held reports whether a turn is in flight for the session
	Held(ctx context.Context, input HeldInput) (*HeldOutput, error)
}

// AcquireInput defines the input for taking the lock
type AcquireInput struct {
	SessionID string
	// TTL bounds how long a crashed holder can block the session
	TTL time.Duration
}

// AcquireOutput defines the output for taking the lock
type AcquireOutput struct {
	Generation int64
}

// RenewInput defines the input for extending the lock
type RenewInput struct {
	SessionID  string
	Generation int64
	TTL        time.Duration
}

// RenewOutput defines the output for extending the lock
type RenewOutput struct {
	// Renewed is false when the lock had expired or moved to a newer generation
	Renewed bool
}

// ReleaseInput defines the input for freeing the lock
type ReleaseInput struct {
	SessionID  string
	Generation int64
}

// ReleaseOutput defines the output for freeing the lock
type ReleaseOutput struct {
	// Released is false when the lock had expired or moved to a newer generation
	Released bool
}

// HeldInput defines the input for checking the lock
type HeldInput struct {
	SessionID string
}

// HeldOutput defines the output for checking the lock
type HeldOutput struct {
	Held bool
}
