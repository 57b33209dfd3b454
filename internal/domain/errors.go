package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no play-through exists for a session id.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionClosed is returned when a player acts on a session that was discarded.
	ErrSessionClosed = errors.New("quiz session closed")
	// ErrSessionComplete is returned when an answer arrives after the last question.
	ErrSessionComplete = errors.New("quiz session already complete")
	// ErrAnswerPending is returned when the current question already has an answer.
	ErrAnswerPending = errors.New("answer already selected for this question")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrInvalidQuestionBank indicates a bank breaks the question rules.
	ErrInvalidQuestionBank = errors.New("invalid question bank")
	// ErrOptionNotFound indicates a submitted answer is not one of the options.
	ErrOptionNotFound = errors.New("option not found")
	// ErrInvalidContact indicates a contact form submission failed validation.
	ErrInvalidContact = errors.New("invalid contact message")
)
