package app

import (
	"context"
	"log"

	"trivia-quiz-service/internal/domain"
)

// ContactInbox receives validated contact form submissions.
type ContactInbox interface {
	Deliver(ctx context.Context, msg domain.ContactMessage) error
}

// LogInbox writes submissions to the process log.
type LogInbox struct {
	logger *log.Logger
}

func NewLogInbox(logger *log.Logger) *LogInbox {
	if logger == nil {
		logger = log.Default()
	}
	return &LogInbox{logger: logger}
}

func (i *LogInbox) Deliver(_ context.Context, msg domain.ContactMessage) error {
	i.logger.Printf("contact from %s <%s>: %s: %s", msg.Name, msg.Email, msg.Subject, msg.Message)
	return nil
}

// ContactService validates submissions before handing them to the inbox.
type ContactService struct {
	inbox ContactInbox
}

func NewContactService(inbox ContactInbox) *ContactService {
	return &ContactService{inbox: inbox}
}

// Submit normalizes and validates msg, then delivers it.
func (s *ContactService) Submit(ctx context.Context, msg domain.ContactMessage) error {
	msg = msg.Normalize()
	if err := msg.Validate(); err != nil {
		return err
	}
	return s.inbox.Deliver(ctx, msg)
}
