package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/certquest/internal/repositories/quizbank"
)

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Quiz bank tools",
	}

	cmd.AddCommand(newQuizSeedCmd())
	cmd.AddCommand(newQuizSchemaCmd())
	cmd.AddCommand(newQuizValidateCmd())
	cmd.AddCommand(newQuizListCmd())

	return cmd
}

func newQuizSeedCmd() *cobra.Command {
	f := &bankFlags{}

	cmd := &cobra.Command{
		Use:   "seed [redis|sqlite]",
		Short: "Replace the contents of a Redis or SQLite quiz bank",
		Long: `Load a quiz document (the bundled bank unless --quiz-file is set) into a
Redis or SQLite quiz bank, replacing everything already stored there.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"redis", "sqlite"},
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := f.document()
			if err != nil {
				return err
			}

			target := *f
			switch args[0] {
			case "redis":
				if target.redisAddr == "" {
					return fmt.Errorf("--redis-addr is required")
				}
				target.sqlitePath = ""
			case "sqlite":
				if target.sqlitePath == "" {
					return fmt.Errorf("--sqlite-path is required")
				}
				target.redisAddr = ""
			default:
				return fmt.Errorf("unknown backend %q, want redis or sqlite", args[0])
			}

			// Opening an empty bank seeds it; seed again so a populated bank is replaced too
			repo, closeBank, err := target.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBank()

			seeder, ok := repo.(quizbank.Seeder)
			if !ok {
				return fmt.Errorf("%s bank cannot be seeded", args[0])
			}
			if err := seeder.Seed(cmd.Context(), doc); err != nil {
				return fmt.Errorf("failed to seed %s bank: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d questions in %d categories into %s\n",
				doc.Count(), len(doc.Categories), args[0])
			return nil
		},
	}
	f.register(cmd)

	return cmd
}

func newQuizSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of quiz documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), quizbank.Schema())
		},
	}
}

func newQuizValidateCmd() *cobra.Command {
	f := &bankFlags{}

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a quiz document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.file = args[0]
			doc, err := f.document()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d questions in %d categories\n", args[0], doc.Count(), len(doc.Categories))
			return nil
		},
	}

	return cmd
}

func newQuizListCmd() *cobra.Command {
	f := &bankFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the categories of the configured quiz bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeBank, err := f.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBank()

			categories, err := repo.ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}
			for _, category := range categories {
				questions, err := repo.GetQuestions(cmd.Context(), category)
				if err != nil {
					return fmt.Errorf("failed to load %s: %w", category, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d\n", category, len(questions))
			}
			return nil
		},
	}
	f.register(cmd)

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
