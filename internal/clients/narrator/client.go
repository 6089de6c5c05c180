// Package narrator is the client for the story generation service
package narrator

//go:generate mockgen -destination=mock/mock_client.go -package=narratormock github.com/KirkDiggler/rpg-narrator/internal/clients/narrator Client

import (
	"context"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client generates narration from an ordered conversation
type Client interface {
	// Generate returns the next assistant message
	// Returns errors.Upstream when the service fails or returns no text
	Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error)
}

// Message is one conversation turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateInput defines the input for a generation call
type GenerateInput struct {
	Messages  []Message
	MaxTokens int
}

// GenerateOutput defines the output of a generation call
type GenerateOutput struct {
	Text string
	// TokensUsed is the service's own count, 0 when it did not report one
	TokensUsed int
}
