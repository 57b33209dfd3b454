package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/content"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
)

func correctInput(bank domain.QuestionBank) []string {
	lines := make([]string, 0, len(bank.Questions))
	for _, q := range bank.Questions {
		for i, option := range q.Options {
			if option == q.CorrectAnswer {
				lines = append(lines, strconv.Itoa(i+1))
			}
		}
	}
	return lines
}

func newTerminalEngine(t *testing.T, store app.ScoreStore) *app.Engine {
	t.Helper()
	engine, err := app.NewEngine("terminal", content.DefaultBank(), store, app.WithRevealDelay(0))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func TestPlayQuizPerfectRun(t *testing.T) {
	store := app.NewLocalScoreStore(memory.NewStorage(), app.DefaultScoreKey)
	engine := newTerminalEngine(t, store)

	input := strings.Join(append(correctInput(content.DefaultBank()), "n"), "\n") + "\n"
	var out bytes.Buffer
	if err := playQuiz(strings.NewReader(input), &out, engine); err != nil {
		t.Fatalf("play: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Your Score: 100%", "Jetpack Genius!", "Top Scores", "100%"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if scores := store.Load(context.Background()); len(scores) != 1 || scores[0].Percentage != 100 {
		t.Fatalf("expected one stored score of 100, got %+v", scores)
	}
}

func TestPlayQuizRepromptsOnBadInput(t *testing.T) {
	store := app.NewLocalScoreStore(memory.NewStorage(), app.DefaultScoreKey)
	engine := newTerminalEngine(t, store)

	answers := correctInput(content.DefaultBank())
	lines := append([]string{"9", "abc"}, answers...)
	lines = append(lines, "")
	var out bytes.Buffer
	if err := playQuiz(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, engine); err != nil {
		t.Fatalf("play: %v", err)
	}
	if n := strings.Count(out.String(), "pick a number from 1 to 4"); n != 2 {
		t.Fatalf("expected 2 re-prompts, got %d", n)
	}
}

func TestPlayQuizStopsOnClosedInput(t *testing.T) {
	store := app.NewLocalScoreStore(memory.NewStorage(), app.DefaultScoreKey)
	engine := newTerminalEngine(t, store)

	var out bytes.Buffer
	err := playQuiz(strings.NewReader(""), &out, engine)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
	if len(store.Load(context.Background())) != 0 {
		t.Fatalf("no score should be stored for an abandoned quiz")
	}
}

func TestPlayQuizRestart(t *testing.T) {
	store := app.NewLocalScoreStore(memory.NewStorage(), app.DefaultScoreKey)
	engine := newTerminalEngine(t, store)

	answers := correctInput(content.DefaultBank())
	lines := append(append([]string{}, answers...), "y")
	lines = append(lines, answers...)
	lines = append(lines, "n")
	var out bytes.Buffer
	if err := playQuiz(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, engine); err != nil {
		t.Fatalf("play: %v", err)
	}
	if n := strings.Count(out.String(), "Quiz Complete!"); n != 2 {
		t.Fatalf("expected two completed runs, got %d", n)
	}
	if scores := store.Load(context.Background()); len(scores) != 2 {
		t.Fatalf("expected two stored scores, got %+v", scores)
	}
}
