// Package errors provides the structured error type shared by every layer of the
// narrator service.
//
// Errors carry a Code, a user-facing message, an optional cause and metadata:
//
//	err := errors.NotFoundf("character %s not found", id).
//	    WithMeta("session_id", sessionID)
//
// The turn pipeline relies on four kinds:
//   - InvalidArgument: malformed input, rejected before any state changes
//   - NotFound: unknown session, character, combat or combatant
//   - Conflict: a turn is already processing for the session (retryable)
//   - Upstream: the generation service failed (retryable, pending actions kept)
//
// Retryable errors carry the "retryable" metadata key; use IsRetryable to check.
//
// Wrapping preserves the code of a wrapped *Error:
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to load session")
//	}
//
// Handlers convert with ToGRPCError; clients reverse with FromGRPCError.
package errors
