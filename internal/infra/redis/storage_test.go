package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

func TestStorageBacksScoreStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	scores := app.NewLocalScoreStore(NewStorage(newClient(mr), "trivia:"), "")

	if got := scores.Load(ctx); len(got) != 0 {
		t.Fatalf("expected empty leaderboard, got %v", got)
	}
	if _, err := scores.Record(ctx, domain.ScoreRecord{Percentage: 80, RecordedAt: time.UnixMilli(1700000000000)}); err != nil {
		t.Fatalf("record: %v", err)
	}

	raw, err := mr.Get("trivia:" + app.DefaultScoreKey)
	if err != nil {
		t.Fatalf("expected persisted key: %v", err)
	}
	if raw != `[{"score":80,"timestamp":1700000000000}]` {
		t.Fatalf("unexpected persisted layout %s", raw)
	}

	mr.Set("trivia:"+app.DefaultScoreKey, "][")
	if got := scores.Load(ctx); len(got) != 0 {
		t.Fatalf("expected malformed value treated as empty, got %v", got)
	}
}
