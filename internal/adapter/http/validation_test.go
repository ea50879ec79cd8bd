package http

import (
	"errors"
	"strings"
	"testing"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		LoanID string `json:"loan_id" validate:"hex32"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{LoanID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}
	for _, s := range []string{
		"",
		strings.Repeat("A", 32),
		"deadbeef",
		strings.Repeat("g", 32),
		strings.Repeat("a", 33),
	} {
		err := cv.Validate(P{LoanID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "loan_id", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestIdentityValidation(t *testing.T) {
	cv := NewValidator()

	for _, s := range []string{"", "alice", "Bob-2_x"} {
		if err := cv.Validate(assignLenderReq{LenderID: s}); err != nil {
			t.Fatalf("%q should pass: %v", s, err)
		}
	}
	for _, s := range []string{"has space", strings.Repeat("z", 65), "a/b"} {
		err := cv.Validate(assignLenderReq{LenderID: s})
		if err == nil || !containsFieldMsg(ToFieldErrors(err), "lender_id", "1-64 chars") {
			t.Fatalf("%q should fail with identity message, got %v", s, err)
		}
	}
}

func TestAmountAndDurationRules(t *testing.T) {
	cv := NewValidator()

	err := cv.Validate(loanTermsReq{Amount: 0, InterestRate: 5, Duration: 0})
	if err == nil {
		t.Fatal("expected failure")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "amount", "greater than 0") || !containsFieldMsg(fe, "duration", "greater than 0") {
		t.Fatalf("unexpected details: %+v", fe)
	}

	if err := cv.Validate(loanTermsReq{Amount: 1, Duration: 1}); err != nil {
		t.Fatalf("zero interest is allowed: %v", err)
	}
}

func TestRegisterNameRules(t *testing.T) {
	cv := NewValidator()
	err := cv.Validate(registerUserReq{})
	if err == nil || !containsFieldMsg(ToFieldErrors(err), "name", "is required") {
		t.Fatalf("empty name: %v", err)
	}
	err = cv.Validate(registerUserReq{Name: strings.Repeat("n", 256)})
	if err == nil || !containsFieldMsg(ToFieldErrors(err), "name", "at most 255") {
		t.Fatalf("long name: %v", err)
	}
}

func TestToFieldErrors_NonValidatorError(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected: %+v", fe)
	}
}

func TestTermsUpperBounds(t *testing.T) {
	cv := NewValidator()

	err := cv.Validate(loanTermsReq{Amount: 1_000_000_000_000_001, InterestRate: 10_001, Duration: 3_153_600_001})
	if err == nil {
		t.Fatal("expected failure")
	}
	fe := ToFieldErrors(err)
	for _, f := range []string{"amount", "interest_rate", "duration"} {
		if !containsFieldMsg(fe, f, "less than or equal to") {
			t.Fatalf("%s: unexpected details: %+v", f, fe)
		}
	}

	if err := cv.Validate(loanTermsReq{Amount: 1_000_000_000_000_000, InterestRate: 10_000, Duration: 3_153_600_000}); err != nil {
		t.Fatalf("limits are inclusive: %v", err)
	}
	if err := cv.Validate(saveFundsReq{Amount: 1 << 63}); err == nil || !containsFieldMsg(ToFieldErrors(err), "amount", "less than or equal to") {
		t.Fatalf("funds above limit: %v", err)
	}
}
