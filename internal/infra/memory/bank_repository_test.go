package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"trivia-quiz-service/internal/content"
	"trivia-quiz-service/internal/domain"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		BankLoader: NewStaticBankLoader(content.Banks()),
	}
	repo := NewBankRepository(loader, time.Minute)

	if _, err := repo.GetBank(context.Background(), content.DefaultBankID); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	bank, err := repo.GetBank(context.Background(), content.DefaultBankID)
	if err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if len(bank.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(bank.Questions))
	}
}

func TestBankRepositoryExpires(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader(content.Banks())}
	repo := NewBankRepository(loader, time.Minute)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetBank(context.Background(), content.DefaultBankID)
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetBank(context.Background(), content.DefaultBankID)
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

func TestBankRepositoryRejectsUnknownAndInvalid(t *testing.T) {
	repo := NewBankRepository(NewStaticBankLoader(map[string]domain.QuestionBank{
		"broken": {ID: "broken"},
	}), time.Minute)

	if _, err := repo.GetBank(context.Background(), "missing"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
	if _, err := repo.GetBank(context.Background(), "broken"); !errors.Is(err, domain.ErrInvalidQuestionBank) {
		t.Fatalf("expected ErrInvalidQuestionBank, got %v", err)
	}
}

type countingLoader struct {
	BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, bankID string) (domain.QuestionBank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx, bankID)
}

func TestChainBankLoaderFallsThrough(t *testing.T) {
	primary := NewStaticBankLoader(map[string]domain.QuestionBank{})
	loader := NewChainBankLoader(primary, NewStaticBankLoader(content.Banks()))

	bank, err := loader.LoadBank(context.Background(), content.DefaultBankID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if bank.ID != content.DefaultBankID {
		t.Fatalf("expected fallback bank, got %q", bank.ID)
	}
	if _, err := loader.LoadBank(context.Background(), "missing"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
}
