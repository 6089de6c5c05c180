// Package combat implements the combat tracker orchestrator: initiative order,
// turn rotation and hit point bookkeeping for a session's encounters
package combat

//go:generate mockgen -destination=mock/mock_service.go -package=combatmock github.com/KirkDiggler/rpg-narrator/internal/orchestrators/combat Service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-narrator/internal/broadcast"
	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/character"
	combatrepo "github.com/KirkDiggler/rpg-narrator/internal/repositories/combat"
	"github.com/KirkDiggler/rpg-narrator/internal/services/initiative"
)

// Service defines the interface for combat operations
type Service interface {
	StartCombat(ctx context.Context, input *StartCombatInput) (*StartCombatOutput, error)
	AddCombatant(ctx context.Context, input *AddCombatantInput) (*AddCombatantOutput, error)
	NextTurn(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error)
	PreviousTurn(ctx context.Context, input *PreviousTurnInput) (*PreviousTurnOutput, error)
	DamageCombatant(ctx context.Context, input *DamageCombatantInput) (*DamageCombatantOutput, error)
	HealCombatant(ctx context.Context, input *HealCombatantInput) (*HealCombatantOutput, error)
	RemoveCombatant(ctx context.Context, input *RemoveCombatantInput) (*RemoveCombatantOutput, error)
	UpdateCombatant(ctx context.Context, input *UpdateCombatantInput) (*UpdateCombatantOutput, error)
	EndCombat(ctx context.Context, input *EndCombatInput) (*EndCombatOutput, error)

	GetCombat(ctx context.Context, input *GetCombatInput) (*GetCombatOutput, error)
	GetActiveCombat(ctx context.Context, input *GetActiveCombatInput) (*GetActiveCombatOutput, error)
	ListCombats(ctx context.Context, input *ListCombatsInput) (*ListCombatsOutput, error)

	// SyncCharacterHP mirrors a character's new hit points onto its entry in
	// the session's active combat. The character itself is not written.
	SyncCharacterHP(ctx context.Context, input *SyncCharacterHPInput) (*SyncCharacterHPOutput, error)
}

// Config holds the dependencies for the combat orchestrator
type Config struct {
	CombatRepo    combatrepo.Repository
	CharacterRepo character.Repository
	Broadcaster   broadcast.Broadcaster
	IDGenerator   idgen.Generator
	// DiceRoller defaults to dice.DefaultRoller
	DiceRoller dice.Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CombatRepo == nil {
		vb.RequiredField("CombatRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.Broadcaster == nil {
		vb.RequiredField("Broadcaster")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	combatRepo    combatrepo.Repository
	characterRepo character.Repository
	broadcaster   broadcast.Broadcaster
	idGen         idgen.Generator
	roller        dice.Roller

	// Serializes read-modify-write of combat records within this process
	mu sync.Mutex
}

// NewOrchestrator creates a new combat orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	roller := cfg.DiceRoller
	if roller == nil {
		roller = dice.DefaultRoller
	}

	return &orchestrator{
		combatRepo:    cfg.CombatRepo,
		characterRepo: cfg.CharacterRepo,
		broadcaster:   cfg.Broadcaster,
		idGen:         cfg.IDGenerator,
		roller:        roller,
	}, nil
}

func (o *orchestrator) StartCombat(ctx context.Context, input *StartCombatInput) (*StartCombatOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("session_id", input.SessionID, vb)
	if len(input.Combatants) == 0 {
		vb.RequiredField("combatants")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	roster := make([]initiative.Entry, 0, len(input.Combatants))
	for _, ci := range input.Combatants {
		entry, err := o.resolveEntry(ctx, input.SessionID, ci)
		if err != nil {
			return nil, err
		}
		roster = append(roster, entry)
	}

	name := input.Name
	if name == "" {
		name = "Combat"
	}

	started, err := initiative.Start(&entities.Combat{
		ID:        o.idGen.Generate(),
		SessionID: input.SessionID,
		Name:      name,
	}, roster, o.roller)
	if err != nil {
		return nil, err
	}

	output := &StartCombatOutput{}

	prior, err := o.combatRepo.GetActive(ctx, combatrepo.GetActiveInput{SessionID: input.SessionID})
	switch {
	case err == nil:
		ended, err := o.end(ctx, prior.Combat)
		if err != nil {
			return nil, err
		}
		output.Ended = ended
	case !errors.IsNotFound(err):
		return nil, errors.Wrap(err, "failed to check active combat")
	}

	created, err := o.combatRepo.Create(ctx, combatrepo.CreateInput{Combat: started})
	if err != nil {
		return nil, errors.Wrap(err, "failed to save combat")
	}
	if err := o.combatRepo.SetActive(ctx, combatrepo.SetActiveInput{
		SessionID: input.SessionID,
		CombatID:  created.Combat.ID,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to mark combat active")
	}

	slog.InfoContext(ctx, "Combat started",
		"session_id", input.SessionID,
		"combat_id", created.Combat.ID,
		"combatants", len(created.Combat.Combatants))

	o.emitCombat(ctx, broadcast.EventCombatUpdated, created.Combat)
	output.Combat = created.Combat

	return output, nil
}

func (o *orchestrator) AddCombatant(ctx context.Context, input *AddCombatantInput) (*AddCombatantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	current, err := o.load(ctx, input.CombatID)
	if err != nil {
		return nil, err
	}

	entry, err := o.resolveEntry(ctx, current.SessionID, input.Combatant)
	if err != nil {
		return nil, err
	}
	if entry.CharacterID != "" && current.IndexOfCharacter(entry.CharacterID) >= 0 {
		return nil, errors.AlreadyExistsf("character %s is already in combat", entry.CharacterID)
	}

	next, err := initiative.Add(current, entry, o.roller)
	if err != nil {
		return nil, err
	}

	saved, err := o.save(ctx, next)
	if err != nil {
		return nil, err
	}

	return &AddCombatantOutput{Combat: saved, CombatantID: entry.ID}, nil
}

func (o *orchestrator) NextTurn(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	saved, err := o.transition(ctx, input.CombatID, initiative.Next)
	if err != nil {
		return nil, err
	}
	return &NextTurnOutput{Combat: saved}, nil
}

func (o *orchestrator) PreviousTurn(ctx context.Context, input *PreviousTurnInput) (*PreviousTurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	saved, err := o.transition(ctx, input.CombatID, initiative.Prev)
	if err != nil {
		return nil, err
	}
	return &PreviousTurnOutput{Combat: saved}, nil
}

func (o *orchestrator) DamageCombatant(ctx context.Context, input *DamageCombatantInput) (*DamageCombatantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	saved, char, err := o.changeHP(ctx, input.CombatID, input.CombatantID, func(c *entities.Combat) (*entities.Combat, error) {
		return initiative.Damage(c, input.CombatantID, input.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &DamageCombatantOutput{Combat: saved, Character: char}, nil
}

func (o *orchestrator) HealCombatant(ctx context.Context, input *HealCombatantInput) (*HealCombatantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	saved, char, err := o.changeHP(ctx, input.CombatID, input.CombatantID, func(c *entities.Combat) (*entities.Combat, error) {
		return initiative.Heal(c, input.CombatantID, input.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &HealCombatantOutput{Combat: saved, Character: char}, nil
}

func (o *orchestrator) RemoveCombatant(ctx context.Context, input *RemoveCombatantInput) (*RemoveCombatantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	saved, err := o.transition(ctx, input.CombatID, func(c *entities.Combat) (*entities.Combat, error) {
		return initiative.Remove(c, input.CombatantID)
	})
	if err != nil {
		return nil, err
	}
	return &RemoveCombatantOutput{Combat: saved}, nil
}

func (o *orchestrator) UpdateCombatant(ctx context.Context, input *UpdateCombatantInput) (*UpdateCombatantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	patch := initiative.Patch{
		Conditions: input.Conditions,
		Notes:      input.Notes,
		AC:         input.AC,
		Initiative: input.Initiative,
	}
	saved, err := o.transition(ctx, input.CombatID, func(c *entities.Combat) (*entities.Combat, error) {
		return initiative.Update(c, input.CombatantID, patch)
	})
	if err != nil {
		return nil, err
	}
	return &UpdateCombatantOutput{Combat: saved}, nil
}

func (o *orchestrator) EndCombat(ctx context.Context, input *EndCombatInput) (*EndCombatOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	current, err := o.load(ctx, input.CombatID)
	if err != nil {
		return nil, err
	}

	ended, err := o.end(ctx, current)
	if err != nil {
		return nil, err
	}

	return &EndCombatOutput{Combat: ended}, nil
}

func (o *orchestrator) GetCombat(ctx context.Context, input *GetCombatInput) (*GetCombatOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	c, err := o.load(ctx, input.CombatID)
	if err != nil {
		return nil, err
	}
	return &GetCombatOutput{Combat: c}, nil
}

func (o *orchestrator) GetActiveCombat(ctx context.Context, input *GetActiveCombatInput) (*GetActiveCombatOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	out, err := o.combatRepo.GetActive(ctx, combatrepo.GetActiveInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}
	return &GetActiveCombatOutput{Combat: out.Combat}, nil
}

func (o *orchestrator) ListCombats(ctx context.Context, input *ListCombatsInput) (*ListCombatsOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	out, err := o.combatRepo.ListBySession(ctx, combatrepo.ListBySessionInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}
	return &ListCombatsOutput{Combats: out.Combats}, nil
}

func (o *orchestrator) SyncCharacterHP(ctx context.Context, input *SyncCharacterHPInput) (*SyncCharacterHPOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	active, err := o.combatRepo.GetActive(ctx, combatrepo.GetActiveInput{SessionID: input.SessionID})
	if err != nil {
		if errors.IsNotFound(err) {
			return &SyncCharacterHPOutput{}, nil
		}
		return nil, err
	}

	idx := active.Combat.IndexOfCharacter(input.CharacterID)
	if idx < 0 {
		return &SyncCharacterHPOutput{}, nil
	}

	next, err := initiative.SetHP(active.Combat, active.Combat.Combatants[idx].ID, input.HP)
	if err != nil {
		return nil, err
	}

	saved, err := o.save(ctx, next)
	if err != nil {
		return nil, err
	}

	return &SyncCharacterHPOutput{Synced: true, Combat: saved}, nil
}

// resolveEntry fills a roster entry from the linked character when there is one
func (o *orchestrator) resolveEntry(ctx context.Context, sessionID string, in CombatantInput) (initiative.Entry, error) {
	entry := initiative.Entry{
		ID:          o.idGen.Generate(),
		CharacterID: in.CharacterID,
		Name:        in.Name,
		Initiative:  in.Initiative,
		Dexterity:   in.Dexterity,
		Bonus:       in.InitiativeBonus,
		HP:          in.HP,
		MaxHP:       in.MaxHP,
		AC:          in.AC,
		Notes:       in.Notes,
	}

	if in.CharacterID == "" {
		if in.Name == "" {
			return entry, errors.InvalidArgument("combatant needs a name or a character ID")
		}
		if entry.Dexterity == 0 {
			entry.Dexterity = 10
		}
		return entry, nil
	}

	out, err := o.characterRepo.Get(ctx, character.GetInput{ID: in.CharacterID})
	if err != nil {
		return entry, err
	}
	c := out.Character
	if c.SessionID != sessionID {
		return entry, errors.InvalidArgumentf("character %s is not in session %s", c.ID, sessionID)
	}

	if entry.Name == "" {
		entry.Name = c.Name
	}
	entry.HP = c.HP
	entry.MaxHP = c.MaxHP
	entry.AC = c.ArmorClass.Total()
	entry.Dexterity = c.AbilityScores.Dexterity
	entry.Bonus = c.InitiativeBonus

	return entry, nil
}

// transition loads, applies fn, saves and notifies
func (o *orchestrator) transition(ctx context.Context, combatID string, fn func(*entities.Combat) (*entities.Combat, error)) (*entities.Combat, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	current, err := o.load(ctx, combatID)
	if err != nil {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	return o.save(ctx, next)
}

// changeHP runs an hp transition and pushes the result to a linked character
func (o *orchestrator) changeHP(ctx context.Context, combatID, combatantID string,
	fn func(*entities.Combat) (*entities.Combat, error)) (*entities.Combat, *entities.Character, error) {
	saved, err := o.transition(ctx, combatID, fn)
	if err != nil {
		return nil, nil, err
	}

	idx := saved.IndexOf(combatantID)
	if idx < 0 || !saved.Combatants[idx].IsLinked() {
		return saved, nil, nil
	}
	cb := saved.Combatants[idx]

	got, err := o.characterRepo.Get(ctx, character.GetInput{ID: cb.CharacterID})
	if err != nil {
		if errors.IsNotFound(err) {
			slog.WarnContext(ctx, "Linked character missing, hp not propagated",
				"combat_id", combatID,
				"character_id", cb.CharacterID)
			return saved, nil, nil
		}
		return nil, nil, err
	}

	char := got.Character
	if char.HP == cb.HP {
		return saved, char, nil
	}
	char.HP = cb.HP

	updated, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to propagate hp to character")
	}

	o.broadcaster.Emit(ctx, &broadcast.Message{
		Event:     broadcast.EventCharacterUpdated,
		SessionID: updated.Character.SessionID,
		Payload:   updated.Character,
	})

	return saved, updated.Character, nil
}

func (o *orchestrator) end(ctx context.Context, c *entities.Combat) (*entities.Combat, error) {
	ended, err := initiative.End(c)
	if err != nil {
		return nil, err
	}

	out, err := o.combatRepo.Update(ctx, combatrepo.UpdateInput{Combat: ended})
	if err != nil {
		return nil, errors.Wrap(err, "failed to save ended combat")
	}
	if err := o.combatRepo.ClearActive(ctx, combatrepo.ClearActiveInput{
		SessionID: ended.SessionID,
		CombatID:  ended.ID,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to clear active combat")
	}

	slog.InfoContext(ctx, "Combat ended",
		"session_id", ended.SessionID,
		"combat_id", ended.ID,
		"rounds", ended.Round)

	o.emitCombat(ctx, broadcast.EventCombatEnded, out.Combat)
	return out.Combat, nil
}

func (o *orchestrator) load(ctx context.Context, combatID string) (*entities.Combat, error) {
	if combatID == "" {
		return nil, errors.InvalidArgument("combat ID is required")
	}
	out, err := o.combatRepo.Get(ctx, combatrepo.GetInput{ID: combatID})
	if err != nil {
		return nil, err
	}
	return out.Combat, nil
}

func (o *orchestrator) save(ctx context.Context, c *entities.Combat) (*entities.Combat, error) {
	out, err := o.combatRepo.Update(ctx, combatrepo.UpdateInput{Combat: c})
	if err != nil {
		return nil, errors.Wrap(err, "failed to save combat")
	}
	o.emitCombat(ctx, broadcast.EventCombatUpdated, out.Combat)
	return out.Combat, nil
}

func (o *orchestrator) emitCombat(ctx context.Context, event string, c *entities.Combat) {
	o.broadcaster.Emit(ctx, &broadcast.Message{
		Event:     event,
		SessionID: c.SessionID,
		Payload:   c,
	})
}
