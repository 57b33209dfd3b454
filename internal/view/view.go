// Package view renders the quiz result screen: the leaderboard and the perfect-score badge.
package view

import (
	"fmt"
	"io"
	"time"

	"trivia-quiz-service/internal/domain"
)

// DateLayout matches how the leaderboard has always shown dates (month/day/year).
const DateLayout = "1/2/2006"

// LeaderboardRow is one rendered leaderboard line.
type LeaderboardRow struct {
	Rank       int    `json:"rank"`
	Date       string `json:"date"`
	Percentage int    `json:"percentage"`
}

// Badge is the perfect-score achievement.
type Badge struct {
	Visible bool   `json:"visible"`
	Title   string `json:"title,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Leaderboard ranks records in the order given, dates shown in loc.
func Leaderboard(records []domain.ScoreRecord, loc *time.Location) []LeaderboardRow {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]LeaderboardRow, 0, len(records))
	for i, r := range records {
		rows = append(rows, LeaderboardRow{
			Rank:       i + 1,
			Date:       r.RecordedAt.In(loc).Format(DateLayout),
			Percentage: r.Percentage,
		})
	}
	return rows
}

// BadgeFor shows the badge only for exactly 100 percent.
func BadgeFor(percentage int) Badge {
	if percentage != 100 {
		return Badge{}
	}
	return Badge{
		Visible: true,
		Title:   "Jetpack Genius!",
		Caption: "Perfect Score Achievement Unlocked",
	}
}

// RenderText writes the result screen for a terminal.
func RenderText(w io.Writer, percentage int, rows []LeaderboardRow) error {
	if _, err := fmt.Fprintf(w, "Quiz Complete!\nYour Score: %d%%\n", percentage); err != nil {
		return err
	}
	if badge := BadgeFor(percentage); badge.Visible {
		if _, err := fmt.Fprintf(w, "\n%s\n%s\n", badge.Title, badge.Caption); err != nil {
			return err
		}
	}
	return RenderLeaderboard(w, rows)
}

// RenderLeaderboard writes the top scores table.
func RenderLeaderboard(w io.Writer, rows []LeaderboardRow) error {
	if _, err := fmt.Fprintln(w, "\nTop Scores"); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "  no scores yet")
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "  %d  %-10s %3d%%\n", row.Rank, row.Date, row.Percentage); err != nil {
			return err
		}
	}
	return nil
}
