// Package battle runs the quiz battle state machine:
// Idle -> QuestionPending -> Resolved -> Idle, looping back to
// QuestionPending while both sides still stand in a health-pool battle.
package battle

//go:generate mockgen -destination=mock/mock_picker.go -package=battlemock github.com/KirkDiggler/certquest/internal/battle QuestionPicker

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/certquest/internal/config"
	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
	"github.com/KirkDiggler/certquest/internal/pkg/idgen"
	"github.com/KirkDiggler/certquest/internal/pkg/roller"
)

// QuestionPicker draws one question for a category. It returns the category
// the question actually came from, which differs when a fallback was used.
type QuestionPicker interface {
	PickQuestion(ctx context.Context, category string) (*entities.Question, string, error)
}

// Config holds the dependencies for a battle machine
type Config struct {
	Picker      QuestionPicker
	Roller      dice.Roller
	Balance     *config.Balance
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Picker == nil {
		vb.RequiredField("Picker")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Balance == nil {
		vb.RequiredField("Balance")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// Machine holds at most one battle session at a time
type Machine struct {
	picker  QuestionPicker
	roller  dice.Roller
	balance *config.Balance
	idGen   idgen.Generator

	session *Session
}

// NewMachine creates an idle battle machine
func NewMachine(cfg *Config) (*Machine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("battle config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Machine{
		picker:  cfg.Picker,
		roller:  cfg.Roller,
		balance: cfg.Balance,
		idGen:   cfg.IDGenerator,
	}, nil
}

// Phase returns the current phase; Idle when there is no session
func (m *Machine) Phase() Phase {
	if m.session == nil {
		return PhaseIdle
	}
	return m.session.Phase
}

// Session returns the active session or nil
func (m *Machine) Session() *Session {
	return m.session
}

// Start opens a battle against opponent. When no question can be drawn the
// machine stays idle and the MissingQuizData error is returned.
func (m *Machine) Start(ctx context.Context, opponent *entities.Opponent) (*Session, error) {
	if opponent == nil {
		return nil, errors.InvalidArgument("opponent is required")
	}
	if m.session != nil {
		return nil, errors.FailedPreconditionf("battle %s is still active", m.session.ID)
	}

	category := m.balance.DefaultCategory
	if n := len(opponent.Categories); n > 0 {
		idx, err := roller.Pick(m.roller, n)
		if err != nil {
			return nil, errors.Wrap(err, "failed to pick category")
		}
		category = opponent.Categories[idx]
	}

	question, used, err := m.picker.PickQuestion(ctx, category)
	if err != nil {
		if errors.IsMissingQuizData(err) {
			slog.Warn("Battle aborted, no questions",
				"opponent", opponent.Name,
				"category", category)
		}
		return nil, err
	}

	m.session = &Session{
		ID:       m.idGen.Generate(),
		Opponent: opponent,
		Style:    m.balance.StyleFor(opponent.Kind == entities.EncounterNPC),
		Category: used,
		Question: question,
		Phase:    PhaseQuestionPending,
		Round:    1,
	}

	slog.Debug("Battle started",
		"battle_id", m.session.ID,
		"opponent", opponent.Name,
		"kind", opponent.Kind,
		"style", m.session.Style,
		"category", used)

	return m.session, nil
}

// Answer resolves the pending question. Stale or invalid input returns an
// error and leaves every piece of state untouched.
func (m *Machine) Answer(ctx context.Context, player *entities.Player, battleID string, index int) (*AnswerResult, error) {
	s := m.session
	switch {
	case s == nil:
		return nil, errors.StaleBattleInput("no active battle")
	case battleID != s.ID:
		return nil, errors.StaleBattleInput("answer for battle " + battleID + " does not match " + s.ID)
	case s.Opponent == nil:
		return nil, errors.StaleBattleInput("battle " + s.ID + " has no opponent")
	case s.Phase != PhaseQuestionPending:
		return nil, errors.StaleBattleInput("battle " + s.ID + " is not waiting for an answer")
	case player == nil:
		return nil, errors.InvalidArgument("player is required")
	}
	if index < 0 || index >= len(s.Question.Options) {
		return nil, errors.InvalidAnswerIndex(index, len(s.Question.Options))
	}

	res := &AnswerResult{
		Index:        index,
		Correct:      s.Question.IsCorrect(index),
		CorrectIndex: s.Question.CorrectIndex,
		Explanation:  s.Question.Explanation,
	}

	if res.Correct {
		damage := m.balance.PlayerDamage
		if s.Style == config.BattleSingleShot {
			damage = s.Opponent.Health
		}
		res.OpponentDamage = s.Opponent.TakeDamage(damage)
		if s.Opponent.Defeated() {
			res.Outcome = OutcomeVictory
		}
	} else {
		res.PlayerDamage = player.TakeDamage(m.balance.OpponentDamage(s.Opponent.Level))
		switch {
		case !player.Alive():
			res.Outcome = OutcomeDefeat
		case s.Style == config.BattleSingleShot:
			res.Outcome = OutcomeRetreat
		}
	}
	if res.Outcome == "" {
		res.Outcome = OutcomeContinue
	}

	s.LastAnswer = res
	s.Phase = PhaseResolved

	if res.Outcome == OutcomeContinue {
		next, _, err := m.picker.PickQuestion(ctx, s.Category)
		if err != nil {
			slog.Warn("Battle aborted, could not draw next question",
				"battle_id", s.ID,
				"category", s.Category,
				"error", err)
			res.Outcome = OutcomeAborted
		} else {
			s.Question = next
			s.Round++
			s.Phase = PhaseQuestionPending
		}
	}
	s.Outcome = res.Outcome

	slog.Debug("Battle answer",
		"battle_id", s.ID,
		"index", index,
		"correct", res.Correct,
		"outcome", res.Outcome,
		"opponent_health", s.Opponent.Health,
		"player_health", player.Health)

	return res, nil
}

// Flee resolves the pending battle with no reward and no penalty
func (m *Machine) Flee(battleID string) (*Session, error) {
	s := m.session
	switch {
	case s == nil:
		return nil, errors.StaleBattleInput("no active battle")
	case battleID != s.ID:
		return nil, errors.StaleBattleInput("flee for battle " + battleID + " does not match " + s.ID)
	case s.Phase != PhaseQuestionPending:
		return nil, errors.StaleBattleInput("battle " + s.ID + " is not waiting for an answer")
	}

	s.Phase = PhaseResolved
	s.Outcome = OutcomeFled
	return s, nil
}

// End clears a resolved session and returns it. Ending while a question is
// pending is rejected.
func (m *Machine) End() (*Session, error) {
	s := m.session
	if s == nil {
		return nil, nil
	}
	if s.Phase != PhaseResolved {
		return nil, errors.FailedPreconditionf("battle %s is not resolved", s.ID)
	}
	m.session = nil
	return s, nil
}

// Reset drops any session without resolving it. The opponent reference is
// cleared first so an answer racing the reset sees a stale session.
func (m *Machine) Reset() {
	if m.session != nil {
		m.session.Opponent = nil
	}
	m.session = nil
}
