package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "lendledger/internal/domain/loan"
)

func TestRepo_WritesDefaultToNoop(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}
	if err := m.Create(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Create default: %v", err)
	}
	if err := m.Save(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Save default: %v", err)
	}
}

func TestRepo_ReadsDefaultToCanceled(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}
	if _, err := m.GetByLoanID(ctx, "LN-1"); err != context.Canceled {
		t.Fatalf("GetByLoanID default: %v", err)
	}
	if _, err := m.GetByLoanIDForUpdate(ctx, "LN-1"); err != context.Canceled {
		t.Fatalf("GetByLoanIDForUpdate default: %v", err)
	}
	if _, err := m.List(ctx); err != context.Canceled {
		t.Fatalf("List default: %v", err)
	}
	if _, err := m.ListByStatus(ctx, domain.StatusActive); err != context.Canceled {
		t.Fatalf("ListByStatus default: %v", err)
	}
	if _, err := m.ListByLoanIDs(ctx, []string{"LN-1"}); err != context.Canceled {
		t.Fatalf("ListByLoanIDs default: %v", err)
	}
}

func TestRepo_UsesProvidedFuncs(t *testing.T) {
	ctx := context.Background()
	wantErr := errors.New("save-fail")
	l := &domain.Loan{LoanID: "LN-3"}
	var gotStatus domain.Status

	m := &Repo{
		SaveFn: func(_ context.Context, got *domain.Loan) error {
			if got != l {
				t.Fatalf("Save arg mismatch")
			}
			return wantErr
		},
		ListByStatusFn: func(_ context.Context, s domain.Status) ([]domain.Loan, error) {
			gotStatus = s
			return []domain.Loan{*l}, nil
		},
	}
	if err := m.Save(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Save: want %v, got %v", wantErr, err)
	}
	out, err := m.ListByStatus(ctx, domain.StatusDefaulted)
	if err != nil || len(out) != 1 || gotStatus != domain.StatusDefaulted {
		t.Fatalf("ListByStatus: out=%v err=%v status=%s", out, err, gotStatus)
	}
}
