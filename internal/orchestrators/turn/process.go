package turn

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-narrator/internal/broadcast"
	"github.com/KirkDiggler/rpg-narrator/internal/clients/narrator"
	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/orchestrators/mutation"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/character"
	pendingaction "github.com/KirkDiggler/rpg-narrator/internal/repositories/pending_action"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/session"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/turnlock"
	"github.com/KirkDiggler/rpg-narrator/internal/services/directives"
	"github.com/KirkDiggler/rpg-narrator/internal/services/prompt"
)

const summaryFailedMarker = "[Summary update failed"

// process runs one turn while holding the session's turn lock
func (o *orchestrator) process(ctx context.Context, sessionID string) (*TurnResult, error) {
	lock, err := o.turnLock.Acquire(ctx, turnlock.AcquireInput{SessionID: sessionID, TTL: o.lockTTL})
	if err != nil {
		return nil, err
	}
	defer func() {
		released, err := o.turnLock.Release(context.WithoutCancel(ctx), turnlock.ReleaseInput{
			SessionID:  sessionID,
			Generation: lock.Generation,
		})
		if err != nil {
			slog.ErrorContext(ctx, "Failed to release turn lock",
				"session_id", sessionID,
				"generation", lock.Generation,
				"error", err)
			return
		}
		if !released.Released {
			slog.WarnContext(ctx, "Turn lock expired before release",
				"session_id", sessionID,
				"generation", lock.Generation)
		}
	}()

	got, err := o.sessionRepo.Get(ctx, session.GetInput{ID: sessionID})
	if err != nil {
		return nil, err
	}
	sess := got.Session

	listed, err := o.pendingRepo.List(ctx, pendingaction.ListInput{SessionID: sessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending actions")
	}
	if len(listed.Actions) == 0 {
		return nil, errors.FailedPreconditionf("session %s has no pending actions", sessionID)
	}

	party, err := o.characterRepo.ListBySessionID(ctx, character.ListBySessionIDInput{SessionID: sessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load party")
	}

	turn := sess.CurrentTurn + 1
	slog.InfoContext(ctx, "Processing turn",
		"session_id", sessionID,
		"turn", turn,
		"generation", lock.Generation,
		"actions", len(listed.Actions),
		"party_size", len(party.Characters))

	o.broadcaster.Emit(ctx, &broadcast.Message{
		Event:     broadcast.EventTurnStarted,
		SessionID: sessionID,
		Payload:   map[string]any{"turn": turn},
	})

	// The narrator sees these even when the call fails
	o.appendActions(sess, party.Characters, listed.Actions)
	if _, err := o.sessionRepo.Update(ctx, session.UpdateInput{Session: sess}); err != nil {
		return nil, errors.Wrap(err, "failed to save turn actions")
	}

	messages := prompt.Conversation(sess)
	narrated, err := o.generate(ctx, messages, o.maxOutputTokens)
	if err != nil {
		slog.ErrorContext(ctx, "Narrator call failed, actions stay queued",
			"session_id", sessionID,
			"turn", turn,
			"error", err)
		return nil, err
	}

	if err := o.holdLock(ctx, sessionID, lock.Generation); err != nil {
		return nil, err
	}

	tokens := narrated.TokensUsed
	if tokens <= 0 {
		tokens = prompt.EstimateTokens(messages, narrated.Text)
	}

	sess.Transcript = append(sess.Transcript, o.entry(sess, entities.EntryTypeNarration, narrated.Text))
	sess.CurrentTurn = turn
	sess.TotalTokens += tokens
	if _, err := o.sessionRepo.Update(ctx, session.UpdateInput{Session: sess}); err != nil {
		return nil, errors.Wrap(err, "failed to save narration")
	}

	// Clear exactly the listed actions, before any tag applies
	if _, err := o.pendingRepo.Clear(ctx, pendingaction.ClearInput{
		SessionID: sessionID,
		Actions:   listed.Actions,
	}); err != nil {
		slog.ErrorContext(ctx, "Failed to clear processed actions, tags not applied",
			"session_id", sessionID,
			"turn", turn,
			"error", err)
		return nil, errors.Wrap(err, "failed to clear processed actions")
	}

	result := &TurnResult{Turn: turn, Narration: narrated.Text, TokensUsed: tokens}

	parsed := directives.Parse(narrated.Text)
	for _, perr := range parsed.Errors {
		slog.WarnContext(ctx, "Skipped directive",
			"session_id", sessionID,
			"tag", perr.Tag,
			"entry", perr.Entry,
			"reason", perr.Reason)
	}
	result.Skipped = append(result.Skipped, parsed.Errors...)

	if len(parsed.Directives) > 0 {
		applied, err := o.mutator.Apply(ctx, &mutation.ApplyInput{
			SessionID:  sessionID,
			Party:      party.Characters,
			Directives: parsed.Directives,
		})
		if err != nil {
			// Narration is already committed; the turn still completes
			slog.ErrorContext(ctx, "Failed to apply directives",
				"session_id", sessionID,
				"turn", turn,
				"error", err)
		} else {
			result.Changes = applied.Changes
			result.Skipped = append(result.Skipped, applied.Skipped...)
		}
	}

	if sess.TotalTokens > o.tokenCeiling {
		if err := o.holdLock(ctx, sessionID, lock.Generation); err != nil {
			return nil, err
		}
		result.Compacted, result.SummaryFailed = o.compact(ctx, sess)
		if err := o.holdLock(ctx, sessionID, lock.Generation); err != nil {
			return nil, err
		}
		if _, err := o.sessionRepo.Update(ctx, session.UpdateInput{Session: sess}); err != nil {
			return nil, errors.Wrap(err, "failed to save summary")
		}
	}

	o.broadcaster.Emit(ctx, &broadcast.Message{
		Event:     broadcast.EventNarration,
		SessionID: sessionID,
		Payload:   map[string]any{"turn": turn, "text": narrated.Text},
	})
	o.broadcaster.Emit(ctx, &broadcast.Message{
		Event:     broadcast.EventSessionUpdated,
		SessionID: sessionID,
		Payload: map[string]any{
			"current_turn":    sess.CurrentTurn,
			"compacted_count": sess.CompactedCount,
			"total_tokens":    sess.TotalTokens,
		},
	})
	o.broadcaster.Emit(ctx, &broadcast.Message{
		Event:     broadcast.EventTurnProcessed,
		SessionID: sessionID,
		Payload: map[string]any{
			"turn":    turn,
			"changes": len(result.Changes),
			"skipped": len(result.Skipped),
		},
	})

	slog.InfoContext(ctx, "Turn processed",
		"session_id", sessionID,
		"turn", turn,
		"tokens", tokens,
		"total_tokens", sess.TotalTokens,
		"changes", len(result.Changes),
		"skipped", len(result.Skipped),
		"compacted", result.Compacted)

	return result, nil
}

// holdLock renews the turn lock for this generation. A lock that expired or
// moved on means another writer may have touched the session, so the turn stops.
func (o *orchestrator) holdLock(ctx context.Context, sessionID string, generation int64) error {
	out, err := o.turnLock.Renew(ctx, turnlock.RenewInput{
		SessionID:  sessionID,
		Generation: generation,
		TTL:        o.lockTTL,
	})
	if err != nil {
		return errors.Wrap(err, "failed to renew turn lock")
	}
	if !out.Renewed {
		slog.ErrorContext(ctx, "Turn lock lost mid-turn",
			"session_id", sessionID,
			"generation", generation)
		return errors.Conflictf("turn lock for session %s expired before the turn finished", sessionID).
			WithMeta("session_id", sessionID)
	}
	return nil
}

// appendActions adds the hidden party sheet and one entry per queued action
func (o *orchestrator) appendActions(sess *entities.Session, party []*entities.Character, actions []*entities.PendingAction) {
	names := make(map[string]string, len(party))
	for _, c := range party {
		names[c.ID] = c.Name
	}

	sheet := o.entry(sess, entities.EntryTypeContext, prompt.PartySnapshot(party))
	sheet.Hidden = true
	sess.Transcript = append(sess.Transcript, sheet)

	for _, a := range actions {
		e := o.entry(sess, entities.EntryTypeAction, a.Text)
		e.CharacterID = a.CharacterID
		e.CharacterName = names[a.CharacterID]
		if e.CharacterName == "" {
			e.CharacterName = a.CharacterID
		}
		sess.Transcript = append(sess.Transcript, e)
	}
}

// compact folds the uncompacted transcript into the summary. On failure the
// old summary is kept with a marker and the same tail is retried next turn.
func (o *orchestrator) compact(ctx context.Context, sess *entities.Session) (compacted, failed bool) {
	tail := sess.Uncompacted()
	slog.InfoContext(ctx, "Compacting history",
		"session_id", sess.ID,
		"entries", len(tail),
		"total_tokens", sess.TotalTokens,
		"ceiling", o.tokenCeiling)

	prior := stripFailureMarker(sess.Summary)
	summarized, err := o.generate(ctx, prompt.Summarization(prior, tail), o.summaryMaxTokens)
	if err != nil {
		slog.WarnContext(ctx, "Summary update failed",
			"session_id", sess.ID,
			"error", err)
		marker := fmt.Sprintf("%s: %s]", summaryFailedMarker, errors.GetMessage(err))
		if prior == "" {
			sess.Summary = marker
		} else {
			sess.Summary = prior + "\n\n" + marker
		}
		return false, true
	}

	sess.Summary = strings.TrimSpace(summarized.Text)
	sess.CompactedCount = len(sess.Transcript)
	sess.TotalTokens = 0
	return true, false
}

func stripFailureMarker(summary string) string {
	if i := strings.LastIndex(summary, summaryFailedMarker); i >= 0 {
		return strings.TrimSpace(summary[:i])
	}
	return summary
}

// generate calls the narrator under the configured timeout
func (o *orchestrator) generate(ctx context.Context, messages []narrator.Message, maxTokens int) (*narrator.GenerateOutput, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.narratorTimeout)
	defer cancel()

	out, err := o.narrator.Generate(callCtx, &narrator.GenerateInput{
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		if errors.IsUpstream(err) {
			return nil, err
		}
		return nil, errors.Upstream(err, "narrator call failed")
	}
	if strings.TrimSpace(out.Text) == "" {
		return nil, errors.Upstream(nil, "narrator returned no text")
	}

	return out, nil
}
