// Package turn implements the turn barrier: it gathers one action per party
// member, asks the narrator for the next passage, applies the tags it
// contains and keeps the narrator's context window inside its token budget.
package turn

//go:generate mockgen -destination=mock/mock_service.go -package=turnmock github.com/KirkDiggler/rpg-narrator/internal/orchestrators/turn Service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-narrator/internal/broadcast"
	"github.com/KirkDiggler/rpg-narrator/internal/clients/narrator"
	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/orchestrators/mutation"
	"github.com/KirkDiggler/rpg-narrator/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-narrator/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/character"
	pendingaction "github.com/KirkDiggler/rpg-narrator/internal/repositories/pending_action"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/session"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/turnlock"
)

// Defaults applied when the config leaves a limit at zero
const (
	DefaultTokenCeiling     = 8000
	DefaultNarratorTimeout  = 60 * time.Second
	DefaultMaxOutputTokens  = 1024
	DefaultSummaryMaxTokens = 512
	MaxActionLength         = 2000

	// LockMargin is added to two narrator timeouts to size the default turn lock
	LockMargin = 30 * time.Second
)

// Service defines the interface for turn operations
type Service interface {
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)

	// SubmitAction queues the character's action, replacing any earlier one,
	// and processes the turn once every party member has acted.
	// Returns errors.Conflict while the session is processing a turn
	SubmitAction(ctx context.Context, input *SubmitActionInput) (*SubmitActionOutput, error)

	// ForceProcess runs the turn with whatever actions are queued
	// Returns errors.FailedPrecondition when nothing is queued
	ForceProcess(ctx context.Context, input *ForceProcessInput) (*ForceProcessOutput, error)

	GetPendingActions(ctx context.Context, input *GetPendingActionsInput) (*GetPendingActionsOutput, error)

	// AddNudge appends an operator note the narrator sees on the next turn
	AddNudge(ctx context.Context, input *AddNudgeInput) (*AddNudgeOutput, error)
}

// Config holds the dependencies for the turn orchestrator
type Config struct {
	SessionRepo   session.Repository
	CharacterRepo character.Repository
	PendingRepo   pendingaction.Repository
	TurnLock      turnlock.Repository
	Narrator      narrator.Client
	Mutator       mutation.Service
	Broadcaster   broadcast.Broadcaster
	IDGenerator   idgen.Generator
	Clock         clock.Clock

	// TokenCeiling is the running total that triggers compaction
	TokenCeiling     int
	NarratorTimeout  time.Duration
	MaxOutputTokens  int
	SummaryMaxTokens int
	// LockTTL must outlast a narration call plus a summary call.
	// Zero derives it from NarratorTimeout.
	LockTTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.PendingRepo == nil {
		vb.RequiredField("PendingRepo")
	}
	if c.TurnLock == nil {
		vb.RequiredField("TurnLock")
	}
	if c.Narrator == nil {
		vb.RequiredField("Narrator")
	}
	if c.Mutator == nil {
		vb.RequiredField("Mutator")
	}
	if c.Broadcaster == nil {
		vb.RequiredField("Broadcaster")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.TokenCeiling < 0 {
		vb.Field("TokenCeiling", "cannot be negative")
	}
	timeout := c.NarratorTimeout
	if timeout <= 0 {
		timeout = DefaultNarratorTimeout
	}
	if c.LockTTL > 0 && c.LockTTL <= 2*timeout {
		vb.Fieldf("LockTTL", "must exceed twice the narrator timeout (%s)", 2*timeout)
	}

	return vb.Build()
}

type orchestrator struct {
	sessionRepo   session.Repository
	characterRepo character.Repository
	pendingRepo   pendingaction.Repository
	turnLock      turnlock.Repository
	narrator      narrator.Client
	mutator       mutation.Service
	broadcaster   broadcast.Broadcaster
	idGen         idgen.Generator
	clock         clock.Clock

	tokenCeiling     int
	narratorTimeout  time.Duration
	maxOutputTokens  int
	summaryMaxTokens int
	lockTTL          time.Duration
}

// NewOrchestrator creates a new turn orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		sessionRepo:      cfg.SessionRepo,
		characterRepo:    cfg.CharacterRepo,
		pendingRepo:      cfg.PendingRepo,
		turnLock:         cfg.TurnLock,
		narrator:         cfg.Narrator,
		mutator:          cfg.Mutator,
		broadcaster:      cfg.Broadcaster,
		idGen:            cfg.IDGenerator,
		clock:            cfg.Clock,
		tokenCeiling:     cfg.TokenCeiling,
		narratorTimeout:  cfg.NarratorTimeout,
		maxOutputTokens:  cfg.MaxOutputTokens,
		summaryMaxTokens: cfg.SummaryMaxTokens,
		lockTTL:          cfg.LockTTL,
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.tokenCeiling == 0 {
		o.tokenCeiling = DefaultTokenCeiling
	}
	if o.narratorTimeout <= 0 {
		o.narratorTimeout = DefaultNarratorTimeout
	}
	if o.maxOutputTokens <= 0 {
		o.maxOutputTokens = DefaultMaxOutputTokens
	}
	if o.summaryMaxTokens <= 0 {
		o.summaryMaxTokens = DefaultSummaryMaxTokens
	}
	if o.lockTTL <= 0 {
		o.lockTTL = 2*o.narratorTimeout + LockMargin
	}

	return o, nil
}

func (o *orchestrator) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	id := input.ID
	if id == "" {
		id = o.idGen.Generate()
	}

	created, err := o.sessionRepo.Create(ctx, session.CreateInput{
		Session: &entities.Session{ID: id, Name: input.Name},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create session %s", id)
	}

	slog.InfoContext(ctx, "Created session", "session_id", id, "name", input.Name)

	return &CreateSessionOutput{Session: created.Session}, nil
}

func (o *orchestrator) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	got, err := o.sessionRepo.Get(ctx, session.GetInput{ID: input.SessionID})
	if err != nil {
		return nil, err
	}

	out := got.Session
	if !input.IncludeHidden {
		out.Transcript = out.Visible()
		// CompactedCount indexes the full transcript
		out.CompactedCount = 0
	}

	return &GetSessionOutput{Session: out}, nil
}

func (o *orchestrator) SubmitAction(ctx context.Context, input *SubmitActionInput) (*SubmitActionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	text := strings.TrimSpace(input.Text)
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("sessionID", input.SessionID, vb)
	errors.ValidateRequired("characterID", input.CharacterID, vb)
	errors.ValidateRequired("text", text, vb)
	errors.ValidateMaxLength("text", text, MaxActionLength, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if _, err := o.sessionRepo.Get(ctx, session.GetInput{ID: input.SessionID}); err != nil {
		return nil, err
	}

	char, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	if char.Character.SessionID != input.SessionID {
		return nil, errors.NotFoundf("character %s is not in session %s", input.CharacterID, input.SessionID)
	}

	if err := o.rejectInFlight(ctx, input.SessionID); err != nil {
		return nil, err
	}

	if _, err := o.pendingRepo.Upsert(ctx, pendingaction.UpsertInput{
		Action: &entities.PendingAction{
			SessionID:   input.SessionID,
			CharacterID: input.CharacterID,
			Text:        text,
		},
	}); err != nil {
		return nil, errors.Wrap(err, "failed to queue action")
	}

	o.broadcaster.Emit(ctx, &broadcast.Message{
		Event:     broadcast.EventActionSubmitted,
		SessionID: input.SessionID,
		Payload: map[string]any{
			"character_id":   char.Character.ID,
			"character_name": char.Character.Name,
		},
	})

	pending, err := o.GetPendingActions(ctx, &GetPendingActionsInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Action submitted",
		"session_id", input.SessionID,
		"character_id", input.CharacterID,
		"waiting", pending.Waiting)

	if pending.PartySize == 0 || pending.Waiting > 0 {
		return &SubmitActionOutput{Waiting: pending.Waiting}, nil
	}

	result, err := o.process(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	return &SubmitActionOutput{Processed: true, Result: result}, nil
}

func (o *orchestrator) ForceProcess(ctx context.Context, input *ForceProcessInput) (*ForceProcessOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	slog.InfoContext(ctx, "Forcing turn", "session_id", input.SessionID)

	result, err := o.process(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	return &ForceProcessOutput{Result: result}, nil
}

func (o *orchestrator) GetPendingActions(ctx context.Context, input *GetPendingActionsInput) (*GetPendingActionsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	party, err := o.characterRepo.ListBySessionID(ctx, character.ListBySessionIDInput{SessionID: input.SessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load party")
	}

	listed, err := o.pendingRepo.List(ctx, pendingaction.ListInput{SessionID: input.SessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending actions")
	}

	members := make(map[string]bool, len(party.Characters))
	for _, c := range party.Characters {
		members[c.ID] = true
	}
	acted := 0
	for _, a := range listed.Actions {
		if members[a.CharacterID] {
			acted++
		}
	}

	return &GetPendingActionsOutput{
		Actions:   listed.Actions,
		PartySize: len(party.Characters),
		Waiting:   max(0, len(party.Characters)-acted),
	}, nil
}

func (o *orchestrator) AddNudge(ctx context.Context, input *AddNudgeInput) (*AddNudgeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	text := strings.TrimSpace(input.Text)
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("sessionID", input.SessionID, vb)
	errors.ValidateRequired("text", text, vb)
	errors.ValidateMaxLength("text", text, MaxActionLength, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if err := o.rejectInFlight(ctx, input.SessionID); err != nil {
		return nil, err
	}

	got, err := o.sessionRepo.Get(ctx, session.GetInput{ID: input.SessionID})
	if err != nil {
		return nil, err
	}
	sess := got.Session

	entry := o.entry(sess, entities.EntryTypeGMNudge, text)
	sess.Transcript = append(sess.Transcript, entry)
	if _, err := o.sessionRepo.Update(ctx, session.UpdateInput{Session: sess}); err != nil {
		return nil, errors.Wrap(err, "failed to save nudge")
	}

	slog.InfoContext(ctx, "Added GM nudge", "session_id", sess.ID, "entry_id", entry.ID)

	o.broadcaster.Emit(ctx, &broadcast.Message{
		Event:     broadcast.EventSessionUpdated,
		SessionID: sess.ID,
		Payload:   map[string]any{"current_turn": sess.CurrentTurn},
	})

	return &AddNudgeOutput{Entry: entry}, nil
}

func (o *orchestrator) rejectInFlight(ctx context.Context, sessionID string) error {
	held, err := o.turnLock.Held(ctx, turnlock.HeldInput{SessionID: sessionID})
	if err != nil {
		return errors.Wrap(err, "failed to check turn lock")
	}
	if held.Held {
		return errors.Conflictf("session %s is processing a turn", sessionID).
			WithMeta("session_id", sessionID)
	}
	return nil
}

func (o *orchestrator) entry(sess *entities.Session, entryType entities.EntryType, content string) entities.TranscriptEntry {
	role := entities.RoleUser
	if entryType == entities.EntryTypeNarration {
		role = entities.RoleAssistant
	}
	return entities.TranscriptEntry{
		ID:        o.idGen.Generate(),
		Role:      role,
		Content:   content,
		Type:      entryType,
		Turn:      sess.CurrentTurn + 1,
		CreatedAt: o.clock.Now().UnixNano(),
	}
}
