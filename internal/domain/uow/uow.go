package uow

import (
	"context"

	"lendledger/internal/domain/history"
	"lendledger/internal/domain/loan"
	"lendledger/internal/domain/loanrequest"
	"lendledger/internal/domain/repayment"
	"lendledger/internal/domain/user"
)

// Repos are bound to one transaction.
type Repos struct {
	Loans      loan.Repository
	Requests   loanrequest.Repository
	Users      user.Repository
	History    history.Repository
	Repayments repayment.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
