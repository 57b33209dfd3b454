// Package content holds the trivia shipped with the site.
package content

import "trivia-quiz-service/internal/domain"

// DefaultBankID identifies the bank served when a player does not pick one.
const DefaultBankID = "gta"

// DefaultBank returns a fresh copy of the built-in trivia bank.
func DefaultBank() domain.QuestionBank {
	return domain.QuestionBank{
		ID: DefaultBankID,
		Questions: []domain.Question{
			{
				ID:            1,
				Prompt:        "Which city is GTA San Andreas primarily set in?",
				Options:       []string{"Los Santos", "Vice City", "Liberty City", "San Fierro"},
				CorrectAnswer: "Los Santos",
			},
			{
				ID:            2,
				Prompt:        "What is the name of the protagonist in GTA III?",
				Options:       []string{"Tommy Vercetti", "Claude Speed", "CJ", "Niko Bellic"},
				CorrectAnswer: "Claude Speed",
			},
			{
				ID:            3,
				Prompt:        "In GTA V, what is Trevor's last name?",
				Options:       []string{"Phillips", "Smith", "Johnson", "De Santa"},
				CorrectAnswer: "Phillips",
			},
			{
				ID:            4,
				Prompt:        "Which GTA game introduced the ability to swim?",
				Options:       []string{"GTA III", "GTA Vice City", "GTA San Andreas", "GTA IV"},
				CorrectAnswer: "GTA San Andreas",
			},
			{
				ID:            5,
				Prompt:        "What year was the first Grand Theft Auto game released?",
				Options:       []string{"1995", "1997", "1999", "2001"},
				CorrectAnswer: "1997",
			},
		},
	}
}

// Banks returns every built-in bank keyed by id.
func Banks() map[string]domain.QuestionBank {
	return map[string]domain.QuestionBank{
		DefaultBankID: DefaultBank(),
	}
}
