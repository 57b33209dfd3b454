package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// ContactMessage is a contact form submission, one field per form input.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (m ContactMessage) Normalize() ContactMessage {
	return ContactMessage{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Subject: strings.TrimSpace(m.Subject),
		Message: strings.TrimSpace(m.Message),
	}
}

// Validate requires every field and a parseable email address.
func (m ContactMessage) Validate() error {
	n := m.Normalize()
	for _, f := range []struct{ name, value string }{
		{"name", n.Name},
		{"email", n.Email},
		{"subject", n.Subject},
		{"message", n.Message},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidContact, f.name)
		}
	}
	if _, err := mail.ParseAddress(n.Email); err != nil {
		return fmt.Errorf("%w: email %q is not valid", ErrInvalidContact, n.Email)
	}
	return nil
}
