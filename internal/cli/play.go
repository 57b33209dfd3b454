package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/view"
)

// NewPlayCmd plays the quiz in the terminal against the configured score storage.
func NewPlayCmd(configPath *string) *cobra.Command {
	var bankID string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the trivia quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if bankID == "" {
				bankID = cfg.Quiz.Bank
			}
			b, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			bank, err := b.banks.GetBank(cmd.Context(), bankID)
			if err != nil {
				return err
			}
			engine, err := app.NewEngine("terminal", bank, b.scoreStore(cfg),
				app.WithRevealDelay(config.TTLDuration(cfg.Quiz.RevealDelay, app.DefaultRevealDelay)))
			if err != nil {
				return err
			}
			defer engine.Close()

			return playQuiz(cmd.InOrStdin(), cmd.OutOrStdout(), engine)
		},
	}
	cmd.Flags().StringVar(&bankID, "bank", "", "question bank id (defaults to quiz.bank)")
	return cmd
}

// playQuiz drives engine from numbered answers read from in until the player declines a rematch.
func playQuiz(in io.Reader, out io.Writer, engine *app.Engine) error {
	scanner := bufio.NewScanner(in)
	updates, cancel := engine.Subscribe()
	defer cancel()

	prompted := 0
	for state := range updates {
		switch {
		case state.Complete:
			if err := view.RenderText(out, state.Percentage, view.Leaderboard(state.TopScores, time.Local)); err != nil {
				return err
			}
			fmt.Fprint(out, "\nPlay again? [y/N] ")
			if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
				return nil
			}
			prompted = 0
			if _, err := engine.Restart(); err != nil {
				return err
			}
		case state.Selected != "":
			if state.Correct != nil && *state.Correct {
				fmt.Fprintln(out, "Correct!")
			} else {
				fmt.Fprintf(out, "Wrong, the answer was %s\n", state.Question.CorrectAnswer)
			}
		case state.Question != nil && state.QuestionNumber != prompted:
			prompted = state.QuestionNumber
			answer, err := promptAnswer(scanner, out, state)
			if err != nil {
				return err
			}
			if _, err := engine.SelectAnswer(answer); err != nil {
				return err
			}
		}
	}
	return nil
}

func promptAnswer(scanner *bufio.Scanner, out io.Writer, state domain.SessionState) (string, error) {
	q := state.Question
	fmt.Fprintf(out, "\nQuestion %d of %d (score %d)\n%s\n", state.QuestionNumber, state.QuestionCount, state.Score, q.Prompt)
	for i, option := range q.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, option)
	}
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err == nil && n >= 1 && n <= len(q.Options) {
			return q.Options[n-1], nil
		}
		fmt.Fprintf(out, "pick a number from 1 to %d\n", len(q.Options))
	}
}
