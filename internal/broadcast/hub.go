package broadcast

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-narrator/internal/errors"
)

// DefaultSubscriberBuffer is the per-subscriber queue length
const DefaultSubscriberBuffer = 32

// HubConfig holds the dependencies for the hub
type HubConfig struct {
	EventBus events.EventBus
	Buffer   int
}

// Validate ensures all required dependencies are provided
func (c *HubConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Buffer < 0 {
		vb.Field("Buffer", "cannot be negative")
	}
	return vb.Build()
}

// Subscription receives the messages of one session until cancelled
type Subscription struct {
	C         <-chan *Message
	SessionID string

	ch chan *Message
	id uint64
}

// Hub fans bus events out to per-session subscribers
type Hub struct {
	eventBus events.EventBus
	buffer   int

	mu      sync.Mutex
	nextID  uint64
	subs    map[string]map[uint64]*Subscription
	busSubs []string
	closed  bool
}

// NewHub creates a hub listening for every event in EventNames
func NewHub(cfg *HubConfig) (*Hub, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	buffer := cfg.Buffer
	if buffer == 0 {
		buffer = DefaultSubscriberBuffer
	}

	h := &Hub{
		eventBus: cfg.EventBus,
		buffer:   buffer,
		subs:     make(map[string]map[uint64]*Subscription),
	}
	for _, name := range EventNames {
		h.busSubs = append(h.busSubs, cfg.EventBus.SubscribeFunc(name, 0, h.handle))
	}

	return h, nil
}

// Subscribe registers for a session's messages
func (h *Hub) Subscribe(sessionID string) (*Subscription, error) {
	if sessionID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, errors.FailedPrecondition("hub is closed")
	}

	h.nextID++
	ch := make(chan *Message, h.buffer)
	sub := &Subscription{C: ch, SessionID: sessionID, ch: ch, id: h.nextID}

	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[uint64]*Subscription)
	}
	h.subs[sessionID][sub.id] = sub

	return sub, nil
}

// Unsubscribe stops delivery and closes the subscription channel
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.subs[sub.SessionID]
	if !ok {
		return
	}
	if _, ok := session[sub.id]; !ok {
		return
	}
	delete(session, sub.id)
	if len(session) == 0 {
		delete(h.subs, sub.SessionID)
	}
	close(sub.ch)
}

// Subscribers returns the number of live subscriptions for a session
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sessionID])
}

// Close detaches from the bus and closes every subscription
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	busSubs := h.busSubs
	h.busSubs = nil
	for sessionID, session := range h.subs {
		for _, sub := range session {
			close(sub.ch)
		}
		delete(h.subs, sessionID)
	}
	h.mu.Unlock()

	// Unsubscribe outside the lock; the bus may be delivering to handle
	for _, id := range busSubs {
		if err := h.eventBus.Unsubscribe(id); err != nil {
			slog.Warn("Failed to unsubscribe hub from event bus", "subscription_id", id, "error", err)
		}
	}
}

func (h *Hub) handle(ctx context.Context, event events.Event) error {
	msg, ok := messageFrom(event)
	if !ok {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs[msg.SessionID] {
		select {
		case sub.ch <- msg:
		default:
			slog.WarnContext(ctx, "Subscriber queue full, dropping message",
				"session_id", msg.SessionID,
				"event", msg.Event)
		}
	}
	return nil
}
