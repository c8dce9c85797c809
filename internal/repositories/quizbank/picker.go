package quizbank

import (
	"context"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
	"github.com/KirkDiggler/certquest/internal/pkg/roller"
)

// PickerConfig holds the dependencies for a Picker
type PickerConfig struct {
	Repository      Repository
	Roller          dice.Roller
	DefaultCategory string
}

// Validate ensures all required dependencies are provided
func (c *PickerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	errors.ValidateRequired("DefaultCategory", c.DefaultCategory, vb)

	return vb.Build()
}

// Picker draws a uniformly random question for a category, falling back to
// the default category when the requested one is empty
type Picker struct {
	repo            Repository
	roller          dice.Roller
	defaultCategory string
}

// NewPicker creates a Picker
func NewPicker(cfg *PickerConfig) (*Picker, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("picker config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Picker{
		repo:            cfg.Repository,
		roller:          cfg.Roller,
		defaultCategory: cfg.DefaultCategory,
	}, nil
}

// PickQuestion returns a question and the category it was drawn from
func (p *Picker) PickQuestion(ctx context.Context, category string) (*entities.Question, string, error) {
	used := category
	questions, err := p.repo.GetQuestions(ctx, category)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to load questions for %s", category)
	}

	if len(questions) == 0 && category != p.defaultCategory {
		used = p.defaultCategory
		questions, err = p.repo.GetQuestions(ctx, p.defaultCategory)
		if err != nil {
			return nil, "", errors.Wrapf(err, "failed to load fallback questions for %s", p.defaultCategory)
		}
	}

	if len(questions) == 0 {
		return nil, "", errors.MissingQuizData(category, p.defaultCategory)
	}

	idx, err := roller.Pick(p.roller, len(questions))
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to pick question")
	}
	return questions[idx].Clone(), used, nil
}
