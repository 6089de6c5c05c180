package narrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-narrator/internal/errors"
)

type echoClient struct{}

// NewEcho returns an offline Client that narrates the last user message back.
// It is deterministic and never emits directives.
func NewEcho() Client {
	return &echoClient{}
}

func (c *echoClient) Generate(_ context.Context, input *GenerateInput) (*GenerateOutput, error) {
	if input == nil || len(input.Messages) == 0 {
		return nil, errors.InvalidArgument("at least one message is required")
	}

	var last string
	for i := len(input.Messages) - 1; i >= 0; i-- {
		if input.Messages[i].Role == RoleUser {
			last = input.Messages[i].Content
			break
		}
	}
	if last == "" {
		return nil, errors.Upstream(nil, "echo narrator has nothing to answer")
	}

	lines := strings.Split(strings.TrimSpace(last), "\n")
	return &GenerateOutput{
		Text: fmt.Sprintf("The world answers: %s", strings.TrimSpace(lines[len(lines)-1])),
	}, nil
}
