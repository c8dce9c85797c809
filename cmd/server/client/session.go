package client

import (
	"fmt"

	"github.com/spf13/cobra"

	gamev1alpha1 "github.com/KirkDiggler/certquest/internal/handlers/game/v1alpha1"
)

func newStartCmd() *cobra.Command {
	var (
		seed string
		lang string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new game session",
		Long: `Start a new game and print its session id and first snapshot. Examples:

  start
  start --seed 42 --lang de`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]any{}
			if seed != "" {
				fields["seed"] = seed
			}
			if lang != "" {
				fields["lang"] = lang
			}
			return call(cmd.OutOrStdout(), fields, gamev1alpha1.GameServiceClient.StartSession)
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "Random seed as a decimal number")
	cmd.Flags().StringVar(&lang, "lang", "", "Notice language")

	return cmd
}

func newInputCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "input [session-id] [intent...]",
		Short: "Apply one tick of intents",
		Long: `Send intents for one tick. Examples:

  input session_abc right right down
  input session_abc answer:2
  input session_abc flee`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			intents := make([]any, 0, len(args)-1)
			for _, intent := range args[1:] {
				intents = append(intents, intent)
			}
			return call(cmd.OutOrStdout(), map[string]any{
				"session_id": args[0],
				"intents":    intents,
			}, gamev1alpha1.GameServiceClient.SendInput)
		},
	}
}

func sessionCmd(use, short string, method rpc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [session-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.OutOrStdout(), map[string]any{"session_id": args[0]}, method)
		},
	}
}

func newSnapshotCmd() *cobra.Command {
	return sessionCmd("snapshot", "Print the current snapshot of a session", gamev1alpha1.GameServiceClient.GetSnapshot)
}

func newResetCmd() *cobra.Command {
	return sessionCmd("reset", "Restart a session from scratch", gamev1alpha1.GameServiceClient.ResetSession)
}

func newEndCmd() *cobra.Command {
	return sessionCmd("end", "End a session", gamev1alpha1.GameServiceClient.EndSession)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List running sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := call(cmd.OutOrStdout(), map[string]any{}, gamev1alpha1.GameServiceClient.ListSessions); err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			return nil
		},
	}
}
