package repayment

import "context"

type Repository interface {
	Create(ctx context.Context, r *Repayment) error

	// Repayments of a loan, oldest first.
	ListByLoanID(ctx context.Context, loanID string) ([]Repayment, error)

	GetByRepaymentID(ctx context.Context, repaymentID string) (*Repayment, error)
}
