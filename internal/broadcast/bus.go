package broadcast

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/pkg/clock"
)

const envelopeType = "broadcast"

// envelope rides as the game event source so handlers get the message back
type envelope struct {
	msg *Message
}

func (e *envelope) GetID() string   { return e.msg.SessionID }
func (e *envelope) GetType() string { return envelopeType }

// BusConfig holds the dependencies for the event bus broadcaster
type BusConfig struct {
	EventBus events.EventBus
	Clock    clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *BusConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	return vb.Build()
}

type bus struct {
	eventBus events.EventBus
	clock    clock.Clock
}

// NewBus creates a Broadcaster that publishes onto an rpg-toolkit event bus
func NewBus(cfg *BusConfig) (Broadcaster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &bus{eventBus: cfg.EventBus, clock: c}, nil
}

func (b *bus) Emit(ctx context.Context, msg *Message) {
	if msg == nil || msg.Event == "" {
		return
	}

	out := *msg
	if out.EmittedAt == 0 {
		out.EmittedAt = b.clock.Now().UnixMilli()
	}

	event := events.NewGameEvent(out.Event, &envelope{msg: &out}, nil)
	if err := b.eventBus.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "Dropped broadcast",
			"event", out.Event,
			"session_id", out.SessionID,
			"error", err)
	}
}

// messageFrom recovers the message carried by a published game event
func messageFrom(event events.Event) (*Message, bool) {
	if event == nil {
		return nil, false
	}
	env, ok := event.Source().(*envelope)
	if !ok || env.msg == nil {
		return nil, false
	}
	return env.msg, true
}
