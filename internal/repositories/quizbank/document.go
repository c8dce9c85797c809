package quizbank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
)

//go:embed default_bank.json
var defaultBank []byte

// Document is the on-disk format of a question bank
type Document struct {
	Categories map[string][]*entities.Question `json:"categories" jsonschema:"required,description=Questions keyed by certification code"`
}

// LoadDocument decodes and validates a bank
func LoadDocument(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode quiz bank")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DefaultDocument returns the bundled bank
func DefaultDocument() (*Document, error) {
	doc, err := LoadDocument(bytes.NewReader(defaultBank))
	if err != nil {
		return nil, errors.Wrap(err, "bundled quiz bank is invalid")
	}
	return doc, nil
}

// Validate checks every question in every category
func (d *Document) Validate() error {
	vb := errors.NewValidationBuilder()

	for _, category := range d.CategoryNames() {
		if category == "" {
			vb.Field("categories", "category name must not be empty")
		}
		for i, q := range d.Categories[category] {
			if q == nil {
				vb.Fieldf(category, "question %d is empty", i)
				continue
			}
			if err := q.Validate(); err != nil {
				vb.Fieldf(category, "question %d: %s", i, errors.GetMessage(err))
			}
		}
	}

	return vb.Build()
}

// CategoryNames returns the category keys, sorted
func (d *Document) CategoryNames() []string {
	names := make([]string, 0, len(d.Categories))
	for name := range d.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of questions across all categories
func (d *Document) Count() int {
	n := 0
	for _, qs := range d.Categories {
		n += len(qs)
	}
	return n
}

// Schema returns the JSON schema of the bank format
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	s := r.Reflect(&Document{})
	s.Title = "certquest quiz bank"
	return s
}
