package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/certquest/internal/config"
	redisclient "github.com/KirkDiggler/certquest/internal/redis"
	"github.com/KirkDiggler/certquest/internal/repositories/quizbank"
)

// bankFlags selects the quiz bank backend shared by server, play and quiz
type bankFlags struct {
	redisAddr  string
	sqlitePath string
	file       string
}

func (f *bankFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.redisAddr, "redis-addr", config.EnvString(config.EnvRedisAddr, ""), "Redis address or redis:// URL for the quiz bank")
	cmd.Flags().StringVar(&f.sqlitePath, "sqlite-path", config.EnvString(config.EnvSQLitePath, ""), "SQLite file for the quiz bank")
	cmd.Flags().StringVar(&f.file, "quiz-file", "", "Quiz bank JSON document (default: bundled bank)")
}

func (f *bankFlags) document() (*quizbank.Document, error) {
	if f.file == "" {
		return quizbank.DefaultDocument()
	}

	file, err := os.Open(f.file)
	if err != nil {
		return nil, fmt.Errorf("failed to open quiz file: %w", err)
	}
	defer func() {
		_ = file.Close() // nolint:errcheck // read-only
	}()

	doc, err := quizbank.LoadDocument(file)
	if err != nil {
		return nil, fmt.Errorf("invalid quiz file %s: %w", f.file, err)
	}
	return doc, nil
}

func newRedisClient(addr string) (redisclient.Client, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		return redisclient.NewClientFromURL(addr)
	}
	return redisclient.NewClient(addr, nil)
}

// open returns the configured bank. Redis and SQLite banks that hold no
// categories are seeded from the document first.
func (f *bankFlags) open(ctx context.Context) (quizbank.Repository, func(), error) {
	noop := func() {}

	switch {
	case f.redisAddr != "":
		client, err := newRedisClient(f.redisAddr)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create redis client: %w", err)
		}
		cleanup := func() {
			_ = client.Close() // nolint:errcheck // shutdown
		}
		if err := client.Ping(ctx).Err(); err != nil {
			cleanup()
			return nil, noop, fmt.Errorf("failed to reach redis at %s: %w", f.redisAddr, err)
		}
		repo, err := quizbank.NewRedisRepository(&quizbank.RedisConfig{Client: client})
		if err != nil {
			cleanup()
			return nil, noop, fmt.Errorf("failed to create redis quiz bank: %w", err)
		}
		if err := f.seedIfEmpty(ctx, repo); err != nil {
			cleanup()
			return nil, noop, err
		}
		slog.Info("Using redis quiz bank", "addr", f.redisAddr)
		return repo, cleanup, nil

	case f.sqlitePath != "":
		db, err := quizbank.OpenSQLite(f.sqlitePath)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() {
			_ = db.Close() // nolint:errcheck // shutdown
		}
		repo, err := quizbank.NewSQLRepository(ctx, &quizbank.SQLConfig{DB: db})
		if err != nil {
			cleanup()
			return nil, noop, fmt.Errorf("failed to create sqlite quiz bank: %w", err)
		}
		if err := f.seedIfEmpty(ctx, repo); err != nil {
			cleanup()
			return nil, noop, err
		}
		slog.Info("Using sqlite quiz bank", "path", f.sqlitePath)
		return repo, cleanup, nil

	default:
		doc, err := f.document()
		if err != nil {
			return nil, noop, err
		}
		repo, err := quizbank.NewMemoryRepository(doc)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create quiz bank: %w", err)
		}
		slog.Info("Using in-memory quiz bank", "categories", len(doc.Categories), "questions", doc.Count())
		return repo, noop, nil
	}
}

type seedableRepository interface {
	quizbank.Repository
	quizbank.Seeder
}

func (f *bankFlags) seedIfEmpty(ctx context.Context, repo seedableRepository) error {
	categories, err := repo.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list quiz categories: %w", err)
	}
	if len(categories) > 0 {
		return nil
	}

	doc, err := f.document()
	if err != nil {
		return err
	}
	if err := repo.Seed(ctx, doc); err != nil {
		return fmt.Errorf("failed to seed quiz bank: %w", err)
	}
	slog.Info("Seeded empty quiz bank", "questions", doc.Count())
	return nil
}
