package app_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/content"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
)

// manualScheduler holds callbacks until the test fires them.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	mu      sync.Mutex
	f       func()
	delay   time.Duration
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) app.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{f: f, delay: d}
	s.pending = append(s.pending, t)
	return t
}

// fire runs every scheduled callback, including ones that were stopped when force is set.
// Forcing models a timer that had already fired when Stop was called.
func (s *manualScheduler) fire(force bool) int {
	s.mu.Lock()
	timers := s.pending
	s.pending = nil
	s.mu.Unlock()

	ran := 0
	for _, t := range timers {
		t.mu.Lock()
		run := !t.fired && (force || !t.stopped)
		t.fired = true
		t.mu.Unlock()
		if run {
			t.f()
			ran++
		}
	}
	return ran
}

func (s *manualScheduler) FireAll() int {
	return s.fire(false)
}

func (s *manualScheduler) FireEvenStopped() int {
	return s.fire(true)
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestEngine(scores app.ScoreStore, sched *manualScheduler, opts ...app.EngineOption) *app.Engine {
	opts = append([]app.EngineOption{
		app.WithScheduler(sched),
		app.WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	engine, err := app.NewEngine("session-1", content.DefaultBank(), scores, opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

func newScoreStore() (*app.LocalScoreStore, *memory.Storage) {
	storage := memory.NewStorage()
	return app.NewLocalScoreStore(storage, app.DefaultScoreKey), storage
}

// playAnswers answers each question with correct or a wrong option and lets the delay elapse.
func playAnswers(engine *app.Engine, sched *manualScheduler, correct []bool) error {
	bank := content.DefaultBank()
	for i, ok := range correct {
		q := bank.Questions[i]
		answer := q.CorrectAnswer
		if !ok {
			for _, opt := range q.Options {
				if opt != q.CorrectAnswer {
					answer = opt
					break
				}
			}
		}
		if _, err := engine.SelectAnswer(answer); err != nil {
			return err
		}
		sched.FireAll()
	}
	return nil
}

// blockingScores holds Record until release is closed.
type blockingScores struct {
	app.ScoreStore
	entered chan struct{}
	release chan struct{}
}

func (b *blockingScores) Record(ctx context.Context, entry domain.ScoreRecord) ([]domain.ScoreRecord, error) {
	close(b.entered)
	<-b.release
	return b.ScoreStore.Record(ctx, entry)
}

type failingStorage struct{}

var errStorageDown = errors.New("storage down")

func (failingStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errStorageDown
}

func (failingStorage) Set(context.Context, string, string) error {
	return errStorageDown
}

// flakyStorage fails the next failGets reads, then delegates to the wrapped storage.
type flakyStorage struct {
	app.Storage
	mu       sync.Mutex
	failGets int
	sets     int
}

func (f *flakyStorage) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	if f.failGets > 0 {
		f.failGets--
		f.mu.Unlock()
		return "", false, errStorageDown
	}
	f.mu.Unlock()
	return f.Storage.Get(ctx, key)
}

func (f *flakyStorage) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	f.sets++
	f.mu.Unlock()
	return f.Storage.Set(ctx, key, value)
}

func scoresOf(records []domain.ScoreRecord) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Percentage
	}
	return out
}
