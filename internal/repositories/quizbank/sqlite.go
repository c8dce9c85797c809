package quizbank

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS questions (
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  category      TEXT    NOT NULL,
  position      INTEGER NOT NULL,
  question_id   TEXT    NOT NULL DEFAULT '',
  prompt        TEXT    NOT NULL,
  options       TEXT    NOT NULL,
  correct_index INTEGER NOT NULL,
  explanation   TEXT    NOT NULL DEFAULT '',
  UNIQUE (category, position)
);
CREATE INDEX IF NOT EXISTS questions_category ON questions (category);`

// OpenSQLite opens (creating if needed) a SQLite database file. Use
// ":memory:" for a throwaway database.
func OpenSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create directory for %s", path)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite %s", path)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// SQLConfig holds the configuration for the SQL repository
type SQLConfig struct {
	DB *sql.DB
}

// Validate ensures all required dependencies are provided
func (c *SQLConfig) Validate() error {
	if c.DB == nil {
		return errors.InvalidArgument("database is required")
	}
	return nil
}

type sqlRepository struct {
	db *sql.DB
}

// SQLRepository is a SQL-backed bank that can also be seeded
type SQLRepository interface {
	Repository
	Seeder
}

// NewSQLRepository creates a SQL-backed quiz bank and ensures its table exists
func NewSQLRepository(ctx context.Context, cfg *SQLConfig) (SQLRepository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("sql config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	if _, err := cfg.DB.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, errors.Wrap(err, "failed to create questions table")
	}
	return &sqlRepository{db: cfg.DB}, nil
}

// Ensure sqlRepository implements SQLRepository
var _ SQLRepository = (*sqlRepository)(nil)

// Seed replaces every question with the contents of doc
func (r *sqlRepository) Seed(ctx context.Context, doc *Document) error {
	if doc == nil {
		return errors.InvalidArgument("document is required")
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin seed transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return errors.Wrap(err, "failed to clear questions")
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO questions (category, position, question_id, prompt, options, correct_index, explanation)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare insert")
	}
	defer func() { _ = stmt.Close() }()

	for _, category := range doc.CategoryNames() {
		for pos, q := range doc.Categories[category] {
			options, err := json.Marshal(q.Options)
			if err != nil {
				return errors.Wrapf(err, "failed to marshal options for %s/%d", category, pos)
			}
			if _, err := stmt.ExecContext(ctx, category, pos, q.ID, q.Prompt, string(options), q.CorrectIndex, q.Explanation); err != nil {
				return errors.Wrapf(err, "failed to insert %s/%d", category, pos)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit seed")
	}
	return nil
}

func (r *sqlRepository) GetQuestions(ctx context.Context, category string) ([]*entities.Question, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT question_id, prompt, options, correct_index, explanation
FROM questions WHERE category = ? ORDER BY position`, category)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query questions for %s", category)
	}
	defer func() { _ = rows.Close() }()

	questions := []*entities.Question{}
	for rows.Next() {
		var (
			q       entities.Question
			options string
		)
		if err := rows.Scan(&q.ID, &q.Prompt, &options, &q.CorrectIndex, &q.Explanation); err != nil {
			return nil, errors.Wrap(err, "failed to scan question")
		}
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return nil, errors.Wrapf(err, "corrupt options for question in %s", category)
		}
		questions = append(questions, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read questions")
	}
	return questions, nil
}

func (r *sqlRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM questions ORDER BY category`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}
	defer func() { _ = rows.Close() }()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "failed to scan category")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read categories")
	}
	return names, nil
}
