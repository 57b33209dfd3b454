package content

import "testing"

func TestDefaultBankIsValid(t *testing.T) {
	bank := DefaultBank()
	if err := bank.Validate(); err != nil {
		t.Fatalf("default bank invalid: %v", err)
	}
	if len(bank.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(bank.Questions))
	}
}
