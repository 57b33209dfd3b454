package app

import (
	"context"
	"log"

	"github.com/google/uuid"
	"trivia-quiz-service/internal/content"
	"trivia-quiz-service/internal/domain"
)

// SessionRepository abstracts where live engines are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Put(engine *Engine)
	Get(sessionID string) (*Engine, bool)
	Delete(sessionID string)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.QuestionBank, error)
}

// CompletionHook observes finished play-throughs across all sessions.
type CompletionHook func(sessionID string, percentage int)

// ServiceOption customizes a QuizService.
type ServiceOption func(*QuizService)

// WithEngineOptions applies opts to every engine the service creates.
func WithEngineOptions(opts ...EngineOption) ServiceOption {
	return func(s *QuizService) { s.engineOpts = append(s.engineOpts, opts...) }
}

// WithCompletionHook replaces the default completion logger.
func WithCompletionHook(hook CompletionHook) ServiceOption {
	return func(s *QuizService) { s.onComplete = hook }
}

// WithDefaultBank sets the bank used when Start is called without one.
func WithDefaultBank(bankID string) ServiceOption {
	return func(s *QuizService) {
		if bankID != "" {
			s.defaultBank = bankID
		}
	}
}

// WithIDGenerator is test-only for deterministic session ids.
func WithIDGenerator(next func() string) ServiceOption {
	return func(s *QuizService) { s.newID = next }
}

// QuizService contains the quiz use cases for every connected player.
type QuizService struct {
	sessions    SessionRepository
	banks       BankRepository
	scores      ScoreStore
	engineOpts  []EngineOption
	onComplete  CompletionHook
	defaultBank string
	newID       func() string
}

func NewQuizService(sessions SessionRepository, banks BankRepository, scores ScoreStore, opts ...ServiceOption) *QuizService {
	s := &QuizService{
		sessions:    sessions,
		banks:       banks,
		scores:      scores,
		defaultBank: content.DefaultBankID,
		newID:       uuid.NewString,
		onComplete: func(sessionID string, percentage int) {
			log.Printf("quiz %s completed with score %d", sessionID, percentage)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a new play-through on bankID (or the default bank).
func (s *QuizService) Start(ctx context.Context, bankID string) (domain.SessionState, error) {
	if bankID == "" {
		bankID = s.defaultBank
	}
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return domain.SessionState{}, err
	}

	id := s.newID()
	opts := append([]EngineOption{}, s.engineOpts...)
	if hook := s.onComplete; hook != nil {
		opts = append(opts, WithCompletion(func(percentage int) { hook(id, percentage) }))
	}
	engine, err := NewEngine(id, bank, s.scores, opts...)
	if err != nil {
		return domain.SessionState{}, err
	}
	s.sessions.Put(engine)
	return engine.State(), nil
}

// State returns the current snapshot of a session.
func (s *QuizService) State(_ context.Context, sessionID string) (domain.SessionState, error) {
	engine, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return engine.State(), nil
}

// SelectAnswer answers the current question of a session.
func (s *QuizService) SelectAnswer(_ context.Context, sessionID, answer string) (domain.SessionState, error) {
	engine, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return engine.SelectAnswer(answer)
}

// Restart starts a session over from the first question.
func (s *QuizService) Restart(_ context.Context, sessionID string) (domain.SessionState, error) {
	engine, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return engine.Restart()
}

// Subscribe returns a channel that receives state updates for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.SessionState, func(), error) {
	engine, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := engine.Subscribe()
	return ch, cancel, nil
}

// End discards a session, e.g. when the player navigates away.
func (s *QuizService) End(_ context.Context, sessionID string) {
	engine, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	engine.Close()
	s.sessions.Delete(sessionID)
}

// Leaderboard returns the persisted top scores.
func (s *QuizService) Leaderboard(ctx context.Context) []domain.ScoreRecord {
	return s.scores.Load(ctx)
}
