// Package v1alpha1 serves the narrative game API over gRPC
package v1alpha1

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"

	"github.com/KirkDiggler/rpg-narrator/internal/broadcast"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/orchestrators/combat"
	"github.com/KirkDiggler/rpg-narrator/internal/orchestrators/turn"
)

// HandlerConfig holds dependencies for the game handler
type HandlerConfig struct {
	TurnService   turn.Service
	CombatService combat.Service
	Hub           *broadcast.Hub
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.TurnService == nil {
		vb.RequiredField("TurnService")
	}
	if c.CombatService == nil {
		vb.RequiredField("CombatService")
	}
	if c.Hub == nil {
		vb.RequiredField("Hub")
	}
	return vb.Build()
}

// Handler implements GameServiceServer
type Handler struct {
	turnService   turn.Service
	combatService combat.Service
	hub           *broadcast.Hub
}

var _ GameServiceServer = (*Handler)(nil)

// NewHandler creates a new game handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		turnService:   cfg.TurnService,
		combatService: cfg.CombatService,
		hub:           cfg.Hub,
	}, nil
}

// CreateSession starts a new story
func (h *Handler) CreateSession(ctx context.Context, req *CreateSessionRequest) (*SessionResponse, error) {
	out, err := h.turnService.CreateSession(ctx, &turn.CreateSessionInput{
		ID:   req.SessionID,
		Name: req.Name,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &SessionResponse{Session: out.Session}, nil
}

// GetSession returns the transcript and counters of a session
func (h *Handler) GetSession(ctx context.Context, req *GetSessionRequest) (*SessionResponse, error) {
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	out, err := h.turnService.GetSession(ctx, &turn.GetSessionInput{
		SessionID:     req.SessionID,
		IncludeHidden: req.IncludeHidden,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &SessionResponse{Session: out.Session}, nil
}

// SubmitAction queues an action and runs the turn when the party is complete
func (h *Handler) SubmitAction(ctx context.Context, req *SubmitActionRequest) (*SubmitActionResponse, error) {
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}
	if req.CharacterID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("character_id is required"))
	}

	out, err := h.turnService.SubmitAction(ctx, &turn.SubmitActionInput{
		SessionID:   req.SessionID,
		CharacterID: req.CharacterID,
		Text:        req.Text,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &SubmitActionResponse{
		Processed: out.Processed,
		Waiting:   out.Waiting,
		Turn:      convertTurnResult(out.Result),
	}, nil
}

// ForceProcess runs the turn without waiting for the rest of the party
func (h *Handler) ForceProcess(ctx context.Context, req *SessionRequest) (*ForceProcessResponse, error) {
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}

	out, err := h.turnService.ForceProcess(ctx, &turn.ForceProcessInput{SessionID: req.SessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &ForceProcessResponse{Turn: convertTurnResult(out.Result)}, nil
}

// GetPendingActions lists queued actions and who is still to act
func (h *Handler) GetPendingActions(ctx context.Context, req *SessionRequest) (*GetPendingActionsResponse, error) {
	out, err := h.turnService.GetPendingActions(ctx, &turn.GetPendingActionsInput{SessionID: req.SessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &GetPendingActionsResponse{
		Actions:   out.Actions,
		PartySize: out.PartySize,
		Waiting:   out.Waiting,
	}, nil
}

// AddNudge stores an operator note for the next turn
func (h *Handler) AddNudge(ctx context.Context, req *AddNudgeRequest) (*AddNudgeResponse, error) {
	out, err := h.turnService.AddNudge(ctx, &turn.AddNudgeInput{
		SessionID: req.SessionID,
		Text:      req.Text,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &AddNudgeResponse{Entry: out.Entry}, nil
}

// StartCombat starts a combat, ending any active one
func (h *Handler) StartCombat(ctx context.Context, req *StartCombatRequest) (*CombatResponse, error) {
	if req.SessionID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("session_id is required"))
	}
	if len(req.Combatants) == 0 {
		return nil, errors.ToGRPCError(errors.InvalidArgument("combatants are required"))
	}

	roster := make([]combat.CombatantInput, len(req.Combatants))
	for i, c := range req.Combatants {
		roster[i] = convertCombatant(c)
	}

	out, err := h.combatService.StartCombat(ctx, &combat.StartCombatInput{
		SessionID:  req.SessionID,
		Name:       req.Name,
		Combatants: roster,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &CombatResponse{Combat: out.Combat, Ended: out.Ended}, nil
}

// AddCombatant joins a combatant to a running combat
func (h *Handler) AddCombatant(ctx context.Context, req *AddCombatantRequest) (*CombatResponse, error) {
	out, err := h.combatService.AddCombatant(ctx, &combat.AddCombatantInput{
		CombatID:  req.CombatID,
		Combatant: convertCombatant(req.Combatant),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &CombatResponse{Combat: out.Combat, CombatantID: out.CombatantID}, nil
}

// NextTurn advances to the next active combatant
func (h *Handler) NextTurn(ctx context.Context, req *CombatRequest) (*CombatResponse, error) {
	out, err := h.combatService.NextTurn(ctx, &combat.NextTurnInput{CombatID: req.CombatID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &CombatResponse{Combat: out.Combat}, nil
}

// PreviousTurn steps back to the previous active combatant
func (h *Handler) PreviousTurn(ctx context.Context, req *CombatRequest) (*CombatResponse, error) {
	out, err := h.combatService.PreviousTurn(ctx, &combat.PreviousTurnInput{CombatID: req.CombatID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &CombatResponse{Combat: out.Combat}, nil
}

// DamageCombatant lowers a combatant's hit points
func (h *Handler) DamageCombatant(ctx context.Context, req *CombatantRequest) (*CombatResponse, error) {
	out, err := h.combatService.DamageCombatant(ctx, &combat.DamageCombatantInput{
		CombatID:    req.CombatID,
		CombatantID: req.CombatantID,
		Amount:      req.Amount,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &CombatResponse{Combat: out.Combat, Character: out.Character}, nil
}

// HealCombatant raises a combatant's hit points
func (h *Handler) HealCombatant(ctx context.Context, req *CombatantRequest) (*CombatResponse, error) {
	out, err := h.combatService.HealCombatant(ctx, &combat.HealCombatantInput{
		CombatID:    req.CombatID,
		CombatantID: req.CombatantID,
		Amount:      req.Amount,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &CombatResponse{Combat: out.Combat, Character: out.Character}, nil
}

// RemoveCombatant drops a combatant from the order
func (h *Handler) RemoveCombatant(ctx context.Context, req *CombatantRequest) (*CombatResponse, error) {
	out, err := h.combatService.RemoveCombatant(ctx, &combat.RemoveCombatantInput{
		CombatID:    req.CombatID,
		CombatantID: req.CombatantID,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &CombatResponse{Combat: out.Combat}, nil
}

// UpdateCombatant edits conditions, notes, armor class or initiative
func (h *Handler) UpdateCombatant(ctx context.Context, req *UpdateCombatantRequest) (*CombatResponse, error) {
	out, err := h.combatService.UpdateCombatant(ctx, &combat.UpdateCombatantInput{
		CombatID:    req.CombatID,
		CombatantID: req.CombatantID,
		Conditions:  req.Conditions,
		Notes:       req.Notes,
		AC:          req.AC,
		Initiative:  req.Initiative,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &CombatResponse{Combat: out.Combat}, nil
}

// EndCombat deactivates a combat
func (h *Handler) EndCombat(ctx context.Context, req *CombatRequest) (*CombatResponse, error) {
	out, err := h.combatService.EndCombat(ctx, &combat.EndCombatInput{CombatID: req.CombatID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &CombatResponse{Combat: out.Combat}, nil
}

// GetCombat reads a combat by ID
func (h *Handler) GetCombat(ctx context.Context, req *CombatRequest) (*CombatResponse, error) {
	out, err := h.combatService.GetCombat(ctx, &combat.GetCombatInput{CombatID: req.CombatID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &CombatResponse{Combat: out.Combat}, nil
}

// GetActiveCombat reads the session's running combat
func (h *Handler) GetActiveCombat(ctx context.Context, req *SessionRequest) (*CombatResponse, error) {
	out, err := h.combatService.GetActiveCombat(ctx, &combat.GetActiveCombatInput{SessionID: req.SessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &CombatResponse{Combat: out.Combat}, nil
}

// ListCombats lists a session's combats
func (h *Handler) ListCombats(ctx context.Context, req *SessionRequest) (*ListCombatsResponse, error) {
	out, err := h.combatService.ListCombats(ctx, &combat.ListCombatsInput{SessionID: req.SessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &ListCombatsResponse{Combats: out.Combats}, nil
}

// WatchSession streams notifications for one session. Messages dropped for
// a slow reader are not replayed.
func (h *Handler) WatchSession(req *SessionRequest, stream grpc.ServerStreamingServer[broadcast.Message]) error {
	ctx := stream.Context()

	sub, err := h.hub.Subscribe(req.SessionID)
	if err != nil {
		return errors.ToGRPCError(err)
	}
	defer h.hub.Unsubscribe(sub)

	slog.InfoContext(ctx, "Watcher connected", "session_id", req.SessionID, "transport", "grpc")
	defer slog.InfoContext(ctx, "Watcher disconnected", "session_id", req.SessionID, "transport", "grpc")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-sub.C:
			if !ok {
				return nil
			}
			if err := stream.Send(msg); err != nil {
				return err
			}
		}
	}
}

func convertTurnResult(r *turn.TurnResult) *TurnResult {
	if r == nil {
		return nil
	}
	return &TurnResult{
		Turn:          r.Turn,
		Narration:     r.Narration,
		TokensUsed:    r.TokensUsed,
		Changes:       r.Changes,
		Skipped:       r.Skipped,
		Compacted:     r.Compacted,
		SummaryFailed: r.SummaryFailed,
	}
}

func convertCombatant(c Combatant) combat.CombatantInput {
	return combat.CombatantInput{
		CharacterID:     c.CharacterID,
		Name:            c.Name,
		Initiative:      c.Initiative,
		HP:              c.HP,
		MaxHP:           c.MaxHP,
		AC:              c.AC,
		Dexterity:       c.Dexterity,
		InitiativeBonus: c.InitiativeBonus,
		Notes:           c.Notes,
	}
}
