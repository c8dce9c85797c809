// Package main is the entry point for the certquest server and tools
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/certquest/cmd/server/client"
	"github.com/KirkDiggler/certquest/internal/config"
)

var (
	logLevel string
	envFile  string
)

var rootCmd = &cobra.Command{
	Use:   "certquest",
	Short: "Certquest game server",
	Long:  `Certquest is a tile-based certification quiz game. Walk the overworld, meet trainers and wild monsters, and answer exam questions to win.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevel)
	},
}

func main() {
	// Env defaults must be in place before flags register their defaults
	config.LoadDotEnv(envFileFromArgs(os.Args[1:])...)

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Env file loaded before flags are parsed (default .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.EnvString("CERTQUEST_LOG_LEVEL", "info"), "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newServerCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newQuizCmd())
	rootCmd.AddCommand(client.NewClientCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// envFileFromArgs finds --env-file ahead of cobra so its values can seed flag defaults
func envFileFromArgs(args []string) []string {
	for i, arg := range args {
		if v, ok := strings.CutPrefix(arg, "--env-file="); ok {
			return []string{v}
		}
		if arg == "--env-file" && i+1 < len(args) {
			return []string{args[i+1]}
		}
	}
	return nil
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
	return nil
}
