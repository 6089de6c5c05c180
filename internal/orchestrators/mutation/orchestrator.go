// Package mutation applies parsed narration directives to characters and the
// combat tracker. Each directive stands alone: a failure is recorded and the
// rest of the batch continues.
package mutation

//go:generate mockgen -destination=mock/mock_service.go -package=mutationmock github.com/KirkDiggler/rpg-narrator/internal/orchestrators/mutation Service

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/KirkDiggler/rpg-narrator/internal/broadcast"
	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/orchestrators/combat"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/character"
	"github.com/KirkDiggler/rpg-narrator/internal/services/directives"
)

// Service defines the interface for applying directives
type Service interface {
	Apply(ctx context.Context, input *ApplyInput) (*ApplyOutput, error)
}

// ApplyInput defines the request for applying a batch of directives
type ApplyInput struct {
	SessionID  string
	Party      []*entities.Character
	Directives []directives.Directive
}

// ApplyOutput defines the result of applying a batch
type ApplyOutput struct {
	Changes []*directives.Change
	Skipped []*directives.PartialTagError
	// Party holds the characters as they stand after the batch
	Party []*entities.Character
}

// Config holds the dependencies for the mutation orchestrator
type Config struct {
	CharacterRepo character.Repository
	CombatService combat.Service
	Broadcaster   broadcast.Broadcaster
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.CombatService == nil {
		vb.RequiredField("CombatService")
	}
	if c.Broadcaster == nil {
		vb.RequiredField("Broadcaster")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo character.Repository
	combatService combat.Service
	broadcaster   broadcast.Broadcaster
}

// NewOrchestrator creates a new mutation orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		combatService: cfg.CombatService,
		broadcaster:   cfg.Broadcaster,
	}, nil
}

func (o *orchestrator) Apply(ctx context.Context, input *ApplyInput) (*ApplyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	// Working copies so later directives see earlier results
	party := make([]*entities.Character, len(input.Party))
	for i, c := range input.Party {
		party[i] = c.Clone()
	}

	output := &ApplyOutput{Party: party}

	for _, d := range input.Directives {
		var err error
		if cd, ok := d.(directives.Combat); ok {
			err = o.applyCombat(ctx, input.SessionID, party, cd)
		} else {
			var change *directives.Change
			change, err = o.applyCharacter(ctx, input.SessionID, party, d)
			if change != nil {
				output.Changes = append(output.Changes, change)
			}
		}

		if err == nil {
			continue
		}

		var perr *directives.PartialTagError
		if !stderrors.As(err, &perr) {
			perr = &directives.PartialTagError{Tag: string(d.Kind()), Entry: d.Source(), Reason: err.Error()}
		}
		slog.WarnContext(ctx, "Skipped directive",
			"session_id", input.SessionID,
			"tag", perr.Tag,
			"entry", perr.Entry,
			"reason", perr.Reason)
		output.Skipped = append(output.Skipped, perr)
	}

	return output, nil
}

func (o *orchestrator) applyCharacter(ctx context.Context, sessionID string, party []*entities.Character,
	d directives.Directive) (*directives.Change, error) {
	target, err := directives.Resolve(d.Target(), party)
	if err != nil {
		return nil, &directives.PartialTagError{
			Tag:    string(d.Kind()),
			Entry:  d.Source(),
			Reason: "no party member matches " + d.Target(),
		}
	}

	working := target.Clone()
	change, err := directives.Apply(working, d)
	if err != nil {
		return nil, err
	}

	updated, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: working})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save %s", working.Name)
	}
	*target = *updated.Character

	slog.InfoContext(ctx, "Applied directive",
		"session_id", sessionID,
		"character_id", target.ID,
		"kind", change.Kind,
		"change", change.Description)

	o.broadcaster.Emit(ctx, &broadcast.Message{
		Event:     broadcast.EventCharacterUpdated,
		SessionID: sessionID,
		Payload:   target,
	})

	if d.Kind() == directives.KindHP {
		if _, err := o.combatService.SyncCharacterHP(ctx, &combat.SyncCharacterHPInput{
			SessionID:   sessionID,
			CharacterID: target.ID,
			HP:          target.HP,
		}); err != nil {
			slog.WarnContext(ctx, "Failed to mirror hp into combat",
				"session_id", sessionID,
				"character_id", target.ID,
				"error", err)
		}
	}

	return change, nil
}

func (o *orchestrator) applyCombat(ctx context.Context, sessionID string, party []*entities.Character,
	d directives.Combat) error {
	if d.Op == directives.CombatStart {
		if len(party) == 0 {
			return errors.FailedPrecondition("no party to start combat with")
		}
		roster := make([]combat.CombatantInput, len(party))
		for i, c := range party {
			roster[i] = combat.CombatantInput{CharacterID: c.ID}
		}
		_, err := o.combatService.StartCombat(ctx, &combat.StartCombatInput{
			SessionID:  sessionID,
			Name:       d.Name,
			Combatants: roster,
		})
		return err
	}

	active, err := o.combatService.GetActiveCombat(ctx, &combat.GetActiveCombatInput{SessionID: sessionID})
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.FailedPrecondition("no active combat")
		}
		return err
	}
	combatID := active.Combat.ID

	switch d.Op {
	case directives.CombatEnd:
		_, err = o.combatService.EndCombat(ctx, &combat.EndCombatInput{CombatID: combatID})
	case directives.CombatNext:
		_, err = o.combatService.NextTurn(ctx, &combat.NextTurnInput{CombatID: combatID})
	case directives.CombatPrev:
		_, err = o.combatService.PreviousTurn(ctx, &combat.PreviousTurnInput{CombatID: combatID})
	default:
		err = errors.InvalidArgumentf("unknown combat verb %s", d.Op)
	}
	return err
}
