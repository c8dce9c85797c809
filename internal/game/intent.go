package game

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
)

// IntentKind is the kind of an already-debounced player input
type IntentKind string

// Intent kinds
const (
	IntentMove     IntentKind = "move"
	IntentInteract IntentKind = "interact"
	IntentAnswer   IntentKind = "answer"
	IntentFlee     IntentKind = "flee"
)

const answerPrefix = "answer:"

// Intent is one input event applied during a tick
type Intent struct {
	Kind      IntentKind
	Direction entities.Direction
	// Zero-based option index for answer intents
	Index int
}

// Move returns a movement intent
func Move(dir entities.Direction) Intent {
	return Intent{Kind: IntentMove, Direction: dir}
}

// Interact returns an interact intent
func Interact() Intent {
	return Intent{Kind: IntentInteract}
}

// Answer returns an answer intent for option index
func Answer(index int) Intent {
	return Intent{Kind: IntentAnswer, Index: index}
}

// Flee returns a flee intent
func Flee() Intent {
	return Intent{Kind: IntentFlee}
}

// String returns the wire form of the intent
func (i Intent) String() string {
	switch i.Kind {
	case IntentMove:
		return string(i.Direction)
	case IntentAnswer:
		return answerPrefix + strconv.Itoa(i.Index)
	default:
		return string(i.Kind)
	}
}

// ParseIntent parses up|down|left|right, interact, answer:<n> or flee
func ParseIntent(raw string) (Intent, error) {
	s := strings.ToLower(strings.TrimSpace(raw))

	if dir := entities.Direction(s); dir.Valid() {
		return Move(dir), nil
	}

	switch {
	case s == string(IntentInteract):
		return Interact(), nil
	case s == string(IntentFlee):
		return Flee(), nil
	case strings.HasPrefix(s, answerPrefix):
		n, err := strconv.Atoi(strings.TrimPrefix(s, answerPrefix))
		if err != nil {
			return Intent{}, errors.InvalidArgumentf("invalid answer intent %q", raw)
		}
		return Answer(n), nil
	}

	return Intent{}, errors.InvalidArgumentf("unknown intent %q", raw)
}

// ParseIntents parses every intent, failing on the first bad one
func ParseIntents(raw []string) ([]Intent, error) {
	out := make([]Intent, 0, len(raw))
	for _, r := range raw {
		intent, err := ParseIntent(r)
		if err != nil {
			return nil, err
		}
		out = append(out, intent)
	}
	return out, nil
}
