package app

import (
	"context"
	"log"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

const (
	// DefaultRevealDelay is how long a selected answer stays on screen before the quiz moves on.
	DefaultRevealDelay  = time.Second
	defaultStoreTimeout = 5 * time.Second
)

// CompletionFunc is called once per finished play-through with its percentage.
type CompletionFunc func(percentage int)

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithScheduler replaces the runtime timer, mainly for tests.
func WithScheduler(s Scheduler) EngineOption {
	return func(e *Engine) { e.scheduler = s }
}

// WithRevealDelay sets the pause between answering and advancing.
func WithRevealDelay(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d >= 0 {
			e.delay = d
		}
	}
}

// WithClock sets the time source for score timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithCompletion registers the completion callback.
func WithCompletion(fn CompletionFunc) EngineOption {
	return func(e *Engine) { e.onComplete = fn }
}

// Engine runs one player's trivia play-throughs against a question bank.
type Engine struct {
	id         string
	questions  []domain.Question
	scores     ScoreStore
	scheduler  Scheduler
	delay      time.Duration
	now        func() time.Time
	onComplete CompletionFunc

	mu          sync.Mutex
	play        *playthrough
	closed      bool
	topScores   []domain.ScoreRecord
	subscribers map[chan domain.SessionState]struct{}
}

// playthrough is the ephemeral state of one session. Restart swaps in a new value,
// which is what invalidates transitions scheduled for the old one.
type playthrough struct {
	index       int
	score       int
	selected    string
	hasSelected bool
	complete    bool
	finishing   bool
	percentage  int
	pending     Timer
}

// NewEngine validates the bank and starts a fresh play-through.
func NewEngine(id string, bank domain.QuestionBank, scores ScoreStore, opts ...EngineOption) (*Engine, error) {
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	questions := make([]domain.Question, len(bank.Questions))
	for i, q := range bank.Questions {
		q.Options = append([]string(nil), q.Options...)
		questions[i] = q
	}

	e := &Engine{
		id:          id,
		questions:   questions,
		scores:      scores,
		scheduler:   ClockScheduler{},
		delay:       DefaultRevealDelay,
		now:         time.Now,
		play:        &playthrough{},
		subscribers: make(map[chan domain.SessionState]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultStoreTimeout)
	defer cancel()
	e.topScores = scores.Load(ctx)
	return e, nil
}

// ID returns the session id the engine was created with.
func (e *Engine) ID() string {
	return e.id
}

// State returns a snapshot of the current play-through.
func (e *Engine) State() domain.SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// SelectAnswer records the player's choice for the current question and schedules the
// move to the next one. Only the first answer per question counts.
func (e *Engine) SelectAnswer(answer string) (domain.SessionState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return e.snapshotLocked(), domain.ErrSessionClosed
	}
	p := e.play
	if p.complete || p.index >= len(e.questions) {
		return e.snapshotLocked(), domain.ErrSessionComplete
	}
	if p.hasSelected {
		return e.snapshotLocked(), domain.ErrAnswerPending
	}
	question := e.questions[p.index]
	if !question.HasOption(answer) {
		return e.snapshotLocked(), domain.ErrOptionNotFound
	}

	p.selected = answer
	p.hasSelected = true
	if question.IsCorrect(answer) {
		p.score++
	}
	p.pending = e.scheduler.AfterFunc(e.delay, func() { e.transition(p) })

	return e.broadcastLocked(), nil
}

// Restart drops the current play-through, pending transition included, and starts over.
// The score store is left alone.
func (e *Engine) Restart() (domain.SessionState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return e.snapshotLocked(), domain.ErrSessionClosed
	}
	if e.play.pending != nil {
		e.play.pending.Stop()
	}
	e.play = &playthrough{}
	return e.broadcastLocked(), nil
}

// Close discards the engine. Pending transitions become no-ops and subscribers are released.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	if e.play.pending != nil {
		e.play.pending.Stop()
	}
	for ch := range e.subscribers {
		delete(e.subscribers, ch)
		close(ch)
	}
}

// Subscribe returns a channel that receives a snapshot after every state change,
// starting with the current one. The caller must invoke cancel.
func (e *Engine) Subscribe() (<-chan domain.SessionState, func()) {
	ch := make(chan domain.SessionState, 8)

	e.mu.Lock()
	if e.closed {
		close(ch)
		e.mu.Unlock()
		return ch, func() {}
	}
	e.subscribers[ch] = struct{}{}
	ch <- e.snapshotLocked()
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		if _, ok := e.subscribers[ch]; ok {
			delete(e.subscribers, ch)
			close(ch)
		}
		e.mu.Unlock()
	}
	return ch, cancel
}

// transition fires after the reveal delay. It only touches p if p is still the live play-through.
func (e *Engine) transition(p *playthrough) {
	e.mu.Lock()
	if e.closed || e.play != p || p.complete {
		e.mu.Unlock()
		return
	}
	p.pending = nil

	if p.index < len(e.questions)-1 {
		p.index++
		p.selected = ""
		p.hasSelected = false
		e.broadcastLocked()
		e.mu.Unlock()
		return
	}

	if p.finishing {
		e.mu.Unlock()
		return
	}
	p.finishing = true
	percentage := Percentage(p.score, len(e.questions))
	record := domain.ScoreRecord{Percentage: percentage, RecordedAt: e.now()}
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultStoreTimeout)
	top, err := e.scores.Record(ctx, record)
	cancel()

	e.mu.Lock()
	if err != nil {
		log.Printf("quiz %s: record score failed: %v", e.id, err)
		top = MergeScores(e.topScores, record)
	}
	e.topScores = top
	// restarted or closed during the write
	if e.closed || e.play != p {
		e.mu.Unlock()
		return
	}

	p.complete = true
	p.percentage = percentage
	e.broadcastLocked()
	onComplete := e.onComplete
	e.mu.Unlock()

	if onComplete != nil {
		onComplete(percentage)
	}
}

// Percentage normalizes score to 0..100, rounding halves up.
func Percentage(score, count int) int {
	if count <= 0 {
		return 0
	}
	return (score*200 + count) / (2 * count)
}

func (e *Engine) broadcastLocked() domain.SessionState {
	state := e.snapshotLocked()
	for ch := range e.subscribers {
		select {
		case ch <- state:
		default:
			// drop the oldest snapshot so a slow reader never blocks the engine
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
	return state
}

func (e *Engine) snapshotLocked() domain.SessionState {
	p := e.play
	state := domain.SessionState{
		SessionID:     e.id,
		QuestionCount: len(e.questions),
		Score:         p.score,
		Complete:      p.complete,
		Percentage:    p.percentage,
		TopScores:     append([]domain.ScoreRecord{}, e.topScores...),
	}
	if p.complete || p.index >= len(e.questions) {
		state.Complete = true
		state.QuestionNumber = len(e.questions)
		return state
	}

	q := e.questions[p.index]
	state.QuestionNumber = p.index + 1
	state.Question = &domain.QuestionView{
		ID:      q.ID,
		Prompt:  q.Prompt,
		Options: append([]string(nil), q.Options...),
	}
	if p.hasSelected {
		correct := q.IsCorrect(p.selected)
		state.Selected = p.selected
		state.Correct = &correct
		state.Question.CorrectAnswer = q.CorrectAnswer
	}
	return state
}
