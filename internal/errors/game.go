package errors

// Meta keys attached to game condition errors
const (
	MetaKind     = "kind"
	MetaCategory = "category"
	MetaFallback = "fallback"
	MetaIndex    = "index"
	MetaOptions  = "options"
	MetaTileX    = "tile_x"
	MetaTileY    = "tile_y"
)

// Game condition kinds stored under MetaKind
const (
	KindMissingQuizData    = "missing_quiz_data"
	KindOutOfBoundsMove    = "out_of_bounds_move"
	KindInvalidAnswerIndex = "invalid_answer_index"
	KindStaleBattleInput   = "stale_battle_input"
)

// MissingQuizData reports that neither the category nor the fallback has questions
func MissingQuizData(category, fallback string) *Error {
	return NotFoundf("no quiz questions for category %q (fallback %q)", category, fallback).
		WithMeta(MetaKind, KindMissingQuizData).
		WithMeta(MetaCategory, category).
		WithMeta(MetaFallback, fallback)
}

// OutOfBoundsMove reports a tile coordinate outside the area grid
func OutOfBoundsMove(tileX, tileY int) *Error {
	return OutOfRangef("tile (%d,%d) is outside the area", tileX, tileY).
		WithMeta(MetaKind, KindOutOfBoundsMove).
		WithMeta(MetaTileX, tileX).
		WithMeta(MetaTileY, tileY)
}

// InvalidAnswerIndex reports an answer index outside the option list
func InvalidAnswerIndex(index, options int) *Error {
	return OutOfRangef("answer index %d outside [0,%d)", index, options).
		WithMeta(MetaKind, KindInvalidAnswerIndex).
		WithMeta(MetaIndex, index).
		WithMeta(MetaOptions, options)
}

// StaleBattleInput reports an answer that does not match an active battle
func StaleBattleInput(reason string) *Error {
	return New(CodeFailedPrecondition, reason).
		WithMeta(MetaKind, KindStaleBattleInput)
}

// IsMissingQuizData checks if an error is a MissingQuizData condition
func IsMissingQuizData(err error) bool {
	return kindOf(err) == KindMissingQuizData
}

// IsOutOfBoundsMove checks if an error is an OutOfBoundsMove condition
func IsOutOfBoundsMove(err error) bool {
	return kindOf(err) == KindOutOfBoundsMove
}

// IsInvalidAnswerIndex checks if an error is an InvalidAnswerIndex condition
func IsInvalidAnswerIndex(err error) bool {
	return kindOf(err) == KindInvalidAnswerIndex
}

// IsStaleBattleInput checks if an error is a StaleBattleInput condition
func IsStaleBattleInput(err error) bool {
	return kindOf(err) == KindStaleBattleInput
}

func kindOf(err error) string {
	kind, _ := GetMeta(err)[MetaKind].(string)
	return kind
}
