package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/content"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
)

func TestStartAndFinishSession(t *testing.T) {
	ctx := context.Background()
	sched := &manualScheduler{}

	var mu sync.Mutex
	var finished []string
	service := app.NewQuizService(memory.NewSessionStore(), newBankRepo(), newScoreStoreOnly(),
		app.WithEngineOptions(app.WithScheduler(sched), app.WithClock(func() time.Time { return fixedNow })),
		app.WithIDGenerator(func() string { return "s-1" }),
		app.WithCompletionHook(func(id string, _ int) {
			mu.Lock()
			finished = append(finished, id)
			mu.Unlock()
		}),
	)

	state, err := service.Start(ctx, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if state.SessionID != "s-1" || state.QuestionNumber != 1 || state.QuestionCount != 5 {
		t.Fatalf("unexpected initial state %+v", state)
	}

	for _, q := range content.DefaultBank().Questions {
		if _, err := service.SelectAnswer(ctx, "s-1", q.CorrectAnswer); err != nil {
			t.Fatalf("select: %v", err)
		}
		sched.FireAll()
	}

	final, err := service.State(ctx, "s-1")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if !final.Complete || final.Percentage != 100 {
		t.Fatalf("expected perfect completion, got %+v", final)
	}
	if len(finished) != 1 || finished[0] != "s-1" {
		t.Fatalf("expected completion hook for s-1, got %v", finished)
	}
	if lb := service.Leaderboard(ctx); len(lb) != 1 || lb[0].Percentage != 100 {
		t.Fatalf("expected leaderboard with 100, got %v", scoresOf(lb))
	}
}

func TestUnknownSessionAndBank(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService()

	if _, err := service.SelectAnswer(ctx, "missing", "x"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := service.Restart(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, _, err := service.Subscribe(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := service.Start(ctx, "no-such-bank"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
	service.End(ctx, "missing")
}

func TestEndStopsPendingTransition(t *testing.T) {
	ctx := context.Background()
	service, sched, sessions := newTestService()

	state, err := service.Start(ctx, content.DefaultBankID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	updates, cancel, err := service.Subscribe(ctx, state.SessionID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()
	<-updates // initial snapshot

	if _, err := service.SelectAnswer(ctx, state.SessionID, "Los Santos"); err != nil {
		t.Fatalf("select: %v", err)
	}
	service.End(ctx, state.SessionID)
	sched.FireEvenStopped()

	if sessions.Len() != 0 {
		t.Fatalf("expected session removed, %d left", sessions.Len())
	}
	if _, err := service.State(ctx, state.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ended session to be gone, got %v", err)
	}
	for update := range updates {
		if update.QuestionNumber != 1 {
			t.Fatalf("ended session advanced: %+v", update)
		}
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	service, sched, _ := newTestService()

	a, err := service.Start(ctx, "")
	if err != nil {
		t.Fatalf("start a: %v", err)
	}
	b, err := service.Start(ctx, "")
	if err != nil {
		t.Fatalf("start b: %v", err)
	}
	if a.SessionID == b.SessionID {
		t.Fatalf("expected distinct session ids")
	}

	if _, err := service.SelectAnswer(ctx, a.SessionID, "Los Santos"); err != nil {
		t.Fatalf("select a: %v", err)
	}
	if _, err := service.SelectAnswer(ctx, b.SessionID, "Vice City"); err != nil {
		t.Fatalf("select b: %v", err)
	}
	sched.FireAll()

	sa, _ := service.State(ctx, a.SessionID)
	sb, _ := service.State(ctx, b.SessionID)
	if sa.Score != 1 || sb.Score != 0 || sa.QuestionNumber != 2 || sb.QuestionNumber != 2 {
		t.Fatalf("unexpected states a=%+v b=%+v", sa, sb)
	}
}

func newTestService() (*app.QuizService, *manualScheduler, *memory.SessionStore) {
	sched := &manualScheduler{}
	sessions := memory.NewSessionStore()
	service := app.NewQuizService(sessions, newBankRepo(), newScoreStoreOnly(),
		app.WithEngineOptions(app.WithScheduler(sched), app.WithClock(func() time.Time { return fixedNow })),
	)
	return service, sched, sessions
}

func newBankRepo() *memory.BankRepository {
	return memory.NewBankRepository(memory.NewStaticBankLoader(content.Banks()), 5*time.Minute)
}

func newScoreStoreOnly() *app.LocalScoreStore {
	store, _ := newScoreStore()
	return store
}
