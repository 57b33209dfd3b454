package cli

import (
	"time"

	"github.com/spf13/cobra"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/view"
)

// NewScoresCmd prints the persisted top scores.
func NewScoresCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "Print the top scores from the configured storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			b, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			rows := view.Leaderboard(b.scoreStore(cfg).Load(cmd.Context()), time.Local)
			return view.RenderLeaderboard(cmd.OutOrStdout(), rows)
		},
	}
}
