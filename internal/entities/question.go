package entities

import (
	"strconv"

	"github.com/KirkDiggler/certquest/internal/errors"
)

// Question is a single multiple-choice quiz question
type Question struct {
	ID           string   `json:"id,omitempty" jsonschema:"description=Optional stable identifier"`
	Prompt       string   `json:"prompt" jsonschema:"required,minLength=1"`
	Options      []string `json:"options" jsonschema:"required,minItems=2"`
	CorrectIndex int      `json:"correct_index" jsonschema:"minimum=0"`
	Explanation  string   `json:"explanation,omitempty"`
}

// Validate checks the question is answerable
func (q *Question) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("prompt", q.Prompt, vb)
	if len(q.Options) < 2 {
		vb.Fieldf("options", "needs at least 2 options, got %d", len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		vb.Fieldf("correct_index", "must point at one of the %d options", len(q.Options))
	}
	for i, opt := range q.Options {
		errors.ValidateRequired(optionField(i), opt, vb)
	}

	return vb.Build()
}

// IsCorrect reports whether index selects the correct option
func (q *Question) IsCorrect(index int) bool {
	return index == q.CorrectIndex
}

// Clone returns a deep copy
func (q *Question) Clone() *Question {
	c := *q
	c.Options = append([]string(nil), q.Options...)
	return &c
}

func optionField(i int) string {
	return "options[" + strconv.Itoa(i) + "]"
}
