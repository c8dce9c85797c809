// Package errors provides the structured error type used across certquest.
//
// Errors carry a Code, a human readable Message, an optional Cause and
// free-form Meta. Codes map onto gRPC status codes for the transport layer
// and onto HTTP status codes for the websocket endpoint.
//
// # Basic Usage
//
//	err := errors.NotFound("session not found").
//	    WithMeta("session_id", id)
//
//	if err := repo.Seed(ctx, doc); err != nil {
//	    return errors.Wrap(err, "failed to seed quiz bank")
//	}
//
// # Game Conditions
//
// The battle and movement code reports recoverable game conditions with
// dedicated constructors so callers can tell them apart from real failures:
//
//   - MissingQuizData: no questions for the category nor its fallback
//   - OutOfBoundsMove: a tile lookup outside the area grid
//   - InvalidAnswerIndex: an answer index outside the option list
//   - StaleBattleInput: an answer with no matching battle session
//
// None of these are fatal. The game logs them, emits a notice when the
// player should see one, and leaves state untouched.
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	if cfg.QuizRepo == nil {
//	    vb.RequiredField("QuizRepo")
//	}
//	return vb.Build()
package errors
