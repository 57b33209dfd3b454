package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// OptionsPerQuestion is the number of answer choices every question carries.
const OptionsPerQuestion = 4

// Question is one multiple-choice trivia question.
type Question struct {
	ID            int      `json:"id"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// IsCorrect reports whether answer matches the question's correct answer exactly.
func (q Question) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}

// HasOption reports whether answer is one of the question's options.
func (q Question) HasOption(answer string) bool {
	for _, opt := range q.Options {
		if opt == answer {
			return true
		}
	}
	return false
}

// QuestionBank is an ordered set of questions played front to back.
type QuestionBank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Validate checks the structural rules every bank must satisfy before it is played.
func (b QuestionBank) Validate() error {
	if len(b.Questions) == 0 {
		return fmt.Errorf("%w: bank %q has no questions", ErrInvalidQuestionBank, b.ID)
	}
	seenIDs := make(map[int]struct{}, len(b.Questions))
	for _, q := range b.Questions {
		if _, dup := seenIDs[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %d", ErrInvalidQuestionBank, q.ID)
		}
		seenIDs[q.ID] = struct{}{}

		if len(q.Options) != OptionsPerQuestion {
			return fmt.Errorf("%w: question %d has %d options, want %d", ErrInvalidQuestionBank, q.ID, len(q.Options), OptionsPerQuestion)
		}
		seenOpts := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if _, dup := seenOpts[opt]; dup {
				return fmt.Errorf("%w: question %d repeats option %q", ErrInvalidQuestionBank, q.ID, opt)
			}
			seenOpts[opt] = struct{}{}
		}
		if _, ok := seenOpts[q.CorrectAnswer]; !ok {
			return fmt.Errorf("%w: question %d correct answer %q is not an option", ErrInvalidQuestionBank, q.ID, q.CorrectAnswer)
		}
	}
	return nil
}

// ScoreRecord is the result of one finished play-through.
type ScoreRecord struct {
	Percentage int
	RecordedAt time.Time
}

// scoreRecordJSON is the persisted layout: {"score": int, "timestamp": epoch millis}.
type scoreRecordJSON struct {
	Score     int   `json:"score"`
	Timestamp int64 `json:"timestamp"`
}

func (r ScoreRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoreRecordJSON{
		Score:     r.Percentage,
		Timestamp: r.RecordedAt.UnixMilli(),
	})
}

func (r *ScoreRecord) UnmarshalJSON(data []byte) error {
	var raw scoreRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Percentage = raw.Score
	r.RecordedAt = time.UnixMilli(raw.Timestamp).UTC()
	return nil
}

// QuestionView is what a player sees of the current question.
// The correct answer is only revealed once an answer has been selected.
type QuestionView struct {
	ID            int      `json:"id"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
}

// SessionState is a point-in-time snapshot of a play-through.
type SessionState struct {
	SessionID      string        `json:"sessionId"`
	QuestionNumber int           `json:"questionNumber"` // 1-based
	QuestionCount  int           `json:"questionCount"`
	Question       *QuestionView `json:"question,omitempty"`
	Selected       string        `json:"selected,omitempty"`
	Correct        *bool         `json:"correct,omitempty"`
	Score          int           `json:"score"`
	Complete       bool          `json:"complete"`
	Percentage     int           `json:"percentage"`
	TopScores      []ScoreRecord `json:"topScores"`
}
