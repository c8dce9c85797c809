package battle

import (
	"github.com/KirkDiggler/certquest/internal/config"
	"github.com/KirkDiggler/certquest/internal/entities"
)

// Phase is where the battle state machine is
type Phase string

// Phases
const (
	PhaseIdle            Phase = "idle"
	PhaseQuestionPending Phase = "question_pending"
	PhaseResolved        Phase = "resolved"
)

// Outcome is the result of an answer or of ending a battle
type Outcome string

// Outcomes
const (
	// The battle goes on with a fresh question
	OutcomeContinue Outcome = "continue"
	OutcomeVictory  Outcome = "victory"
	OutcomeDefeat   Outcome = "defeat"
	// Single-shot battle lost without losing all health
	OutcomeRetreat Outcome = "retreat"
	OutcomeFled    Outcome = "fled"
	// No further question could be drawn
	OutcomeAborted Outcome = "aborted"
)

// Terminal reports whether the outcome ends the battle
func (o Outcome) Terminal() bool {
	return o != OutcomeContinue && o != ""
}

// Session is the transient state of one battle
type Session struct {
	ID       string
	Opponent *entities.Opponent
	Style    config.BattleStyle
	// Category the questions are drawn from, after any fallback
	Category string
	Question *entities.Question
	Phase    Phase
	Round    int
	Outcome  Outcome

	LastAnswer *AnswerResult
}

// AnswerResult records what one answer did
type AnswerResult struct {
	Index        int    `json:"index"`
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation,omitempty"`

	OpponentDamage int     `json:"opponent_damage"`
	PlayerDamage   int     `json:"player_damage"`
	Outcome        Outcome `json:"outcome"`
}
