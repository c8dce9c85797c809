package quizbank

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
)

type memoryRepository struct {
	mu         sync.RWMutex
	categories map[string][]*entities.Question
}

// NewMemoryRepository creates an in-memory bank holding a copy of doc
func NewMemoryRepository(doc *Document) (Repository, error) {
	r := &memoryRepository{}
	if err := r.Seed(context.Background(), doc); err != nil {
		return nil, err
	}
	return r, nil
}

// NewDefaultRepository creates an in-memory bank from the bundled questions
func NewDefaultRepository() (Repository, error) {
	doc, err := DefaultDocument()
	if err != nil {
		return nil, err
	}
	return NewMemoryRepository(doc)
}

// Ensure memoryRepository implements Repository and Seeder
var (
	_ Repository = (*memoryRepository)(nil)
	_ Seeder     = (*memoryRepository)(nil)
)

// Seed replaces the contents with doc
func (r *memoryRepository) Seed(_ context.Context, doc *Document) error {
	if doc == nil {
		return errors.InvalidArgument("document is required")
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	categories := make(map[string][]*entities.Question, len(doc.Categories))
	for name, qs := range doc.Categories {
		if len(qs) == 0 {
			continue
		}
		categories[name] = cloneQuestions(qs)
	}

	r.mu.Lock()
	r.categories = categories
	r.mu.Unlock()
	return nil
}

func (r *memoryRepository) GetQuestions(_ context.Context, category string) ([]*entities.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneQuestions(r.categories[category]), nil
}

func (r *memoryRepository) ListCategories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.categories))
	for name := range r.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
