package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"

	"trivia-quiz-service/internal/domain"
)

const (
	// DefaultScoreKey is the storage key the site has always used for its scores.
	DefaultScoreKey = "gtaQuizScores"
	// MaxScores caps the persisted leaderboard.
	MaxScores = 5
)

// Storage is a flat string key/value store, the server-side stand-in for browser local storage.
// Get reports found=false for absent keys. Set replaces the whole value.
type Storage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// ScoreStore keeps the top finished results.
type ScoreStore interface {
	// Load never fails; unreadable data is treated as an empty leaderboard.
	Load(ctx context.Context) []domain.ScoreRecord
	// Record merges entry and returns the new leaderboard.
	Record(ctx context.Context, entry domain.ScoreRecord) ([]domain.ScoreRecord, error)
}

// LocalScoreStore persists the leaderboard as one JSON value under a single key.
// Writes are last-write-wins across processes; mu only orders read-then-replace within this one.
type LocalScoreStore struct {
	storage Storage
	key     string
	mu      sync.Mutex
}

func NewLocalScoreStore(storage Storage, key string) *LocalScoreStore {
	if key == "" {
		key = DefaultScoreKey
	}
	return &LocalScoreStore{storage: storage, key: key}
}

func (s *LocalScoreStore) Load(ctx context.Context) []domain.ScoreRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.readLocked(ctx)
	if err != nil {
		log.Printf("scores: read %q failed, treating as empty: %v", s.key, err)
		return []domain.ScoreRecord{}
	}
	return records
}

func (s *LocalScoreStore) Record(ctx context.Context, entry domain.ScoreRecord) ([]domain.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readLocked(ctx)
	if err != nil {
		// the stored leaderboard is unknown, so it must not be replaced
		return MergeScores(nil, entry), fmt.Errorf("read scores: %w", err)
	}
	merged := MergeScores(existing, entry)
	data, err := json.Marshal(merged)
	if err != nil {
		return merged, fmt.Errorf("encode scores: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, string(data)); err != nil {
		return merged, fmt.Errorf("persist scores: %w", err)
	}
	return merged, nil
}

// readLocked returns storage failures to the caller. Absent or malformed values are an empty leaderboard.
func (s *LocalScoreStore) readLocked(ctx context.Context) ([]domain.ScoreRecord, error) {
	raw, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !found || raw == "" {
		return []domain.ScoreRecord{}, nil
	}
	return DecodeScores(raw), nil
}

// DecodeScores parses a persisted leaderboard. Malformed input yields an empty slice.
func DecodeScores(raw string) []domain.ScoreRecord {
	var records []domain.ScoreRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Printf("scores: discarding malformed leaderboard: %v", err)
		return []domain.ScoreRecord{}
	}
	valid := records[:0]
	for _, r := range records {
		if r.Percentage < 0 || r.Percentage > 100 {
			continue
		}
		valid = append(valid, r)
	}
	sortScores(valid)
	if len(valid) > MaxScores {
		valid = valid[:MaxScores]
	}
	return append([]domain.ScoreRecord{}, valid...)
}

// MergeScores inserts entry into existing, orders the result and keeps the top MaxScores.
// existing is not modified.
func MergeScores(existing []domain.ScoreRecord, entry domain.ScoreRecord) []domain.ScoreRecord {
	merged := make([]domain.ScoreRecord, 0, len(existing)+1)
	merged = append(merged, existing...)
	merged = append(merged, entry)
	sortScores(merged)
	if len(merged) > MaxScores {
		merged = merged[:MaxScores]
	}
	return merged
}

// sortScores orders by percentage descending; equal percentages put the most recent first.
func sortScores(records []domain.ScoreRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Percentage != records[j].Percentage {
			return records[i].Percentage > records[j].Percentage
		}
		return records[i].RecordedAt.After(records[j].RecordedAt)
	})
}
