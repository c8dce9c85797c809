// Package quizbank stores the quiz questions keyed by certification
// category. Every backend is a read-mostly lookup table; the game never
// writes to it.
package quizbank

//go:generate mockgen -destination=mock/mock_repository.go -package=quizbankmock github.com/KirkDiggler/certquest/internal/repositories/quizbank Repository

import (
	"context"

	"github.com/KirkDiggler/certquest/internal/entities"
)

// Repository looks up questions by category
type Repository interface {
	// GetQuestions returns a copy of the questions for category. An unknown
	// category yields an empty slice and no error.
	GetQuestions(ctx context.Context, category string) ([]*entities.Question, error)

	// ListCategories returns the categories that have questions, sorted
	ListCategories(ctx context.Context) ([]string, error)
}

// Seeder is implemented by backends that can be loaded from a document
type Seeder interface {
	Seed(ctx context.Context, doc *Document) error
}

func cloneQuestions(in []*entities.Question) []*entities.Question {
	out := make([]*entities.Question, len(in))
	for i, q := range in {
		out[i] = q.Clone()
	}
	return out
}
