package repayment

import (
	"context"
	"errors"
	"time"

	"lendledger/internal/domain/accrual"
	domainLoan "lendledger/internal/domain/loan"
	domainRepayment "lendledger/internal/domain/repayment"
	domainUser "lendledger/internal/domain/user"
	"lendledger/internal/domain/uow"
	"lendledger/internal/infrastructure/metrics"
	"lendledger/internal/usecase/batch"
	"lendledger/pkg/clock"
	"lendledger/pkg/id"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	jobAccrue    = "accrue"
	jobAutoRepay = "auto_repay"
)

type Usecase struct {
	uow   uow.UnitOfWork
	clock clock.Clock
	log   *zap.Logger
}

// NewUsecase: repayments always run inside a loan-locked transaction.
func NewUsecase(tx uow.UnitOfWork, clk clock.Clock, log *zap.Logger) *Usecase {
	return &Usecase{uow: tx, clock: clk, log: log}
}

// MakeRepayment applies amount from the caller's balance against the loan.
// At most the outstanding principal is applied and debited; it is credited to
// the lender when one is assigned and registered. Paying the loan down to
// zero completes it.
func (u *Usecase) MakeRepayment(ctx context.Context, caller, loanID string, amount uint64) (*RepaymentDTO, error) {
	if amount == 0 {
		return nil, domainRepayment.ErrInvalidAmount
	}
	now := u.clock.Now()
	var dto *RepaymentDTO

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		// State guard: terminal loans are absorbing
		if l.Status != domainLoan.StatusActive {
			return domainLoan.ErrInvalidTransition
		}

		payer, err := r.Users.GetByPrincipalIDForUpdate(ctx, caller)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainUser.ErrNotFound
			}
			return err
		}
		applied, remaining := accrual.ApplyRepayment(l.Amount, amount)
		if payer.Balance < applied {
			return domainUser.ErrInsufficientFunds
		}
		payer.Balance -= applied

		if l.HasLender() {
			if *l.LenderID == payer.PrincipalID {
				payer.Balance += applied
			} else if err := credit(ctx, r, *l.LenderID, applied); err != nil {
				return err
			}
		}
		if err := r.Users.Save(ctx, payer); err != nil {
			return err
		}

		rec, err := u.book(ctx, r, l, caller, applied, remaining, domainRepayment.KindManual, now)
		if err != nil {
			return err
		}
		dto = toDTO(rec, l.Status)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	u.log.Info("repayment applied",
		zap.String("loan_id", loanID),
		zap.String("caller", caller),
		zap.Uint64("amount", dto.Amount),
		zap.Uint64("outstanding", dto.OutstandingAfter))
	return dto, nil
}

// credit pays a registered lender; unregistered lenders are settled out of band.
func credit(ctx context.Context, r uow.Repos, lenderID string, amount uint64) error {
	lender, err := r.Users.GetByPrincipalIDForUpdate(ctx, lenderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := lender.Credit(amount); err != nil {
		return err
	}
	return r.Users.Save(ctx, lender)
}

// book writes the new outstanding amount, completes the loan when nothing is
// left, and records the repayment.
func (u *Usecase) book(ctx context.Context, r uow.Repos, l *domainLoan.Loan, payer string, applied, remaining uint64, kind domainRepayment.Kind, now time.Time) (*domainRepayment.Repayment, error) {
	l.Amount = remaining
	if accrual.FullyRepaid(l) {
		l.Status = domainLoan.StatusCompleted
	}
	if err := r.Loans.Save(ctx, l); err != nil {
		return nil, err
	}
	rec := &domainRepayment.Repayment{
		RepaymentID:      id.NewID32(),
		LoanID:           l.LoanID,
		PayerID:          payer,
		Amount:           applied,
		Kind:             kind,
		OutstandingAfter: remaining,
		PaidAt:           now,
	}
	if err := r.Repayments.Create(ctx, rec); err != nil {
		return nil, err
	}
	metrics.RecordRepayment(string(kind), applied)
	if l.Status == domainLoan.StatusCompleted {
		metrics.RecordTransition(string(domainLoan.StatusCompleted))
		u.log.Info("loan completed", zap.String("loan_id", l.LoanID))
	}
	return rec, nil
}

// AccrueAll books accumulated interest on every active, not fully repaid
// loan and, for loans at or past their due date, deducts the installment.
// Interest and installment are both computed from the loan as loaded. It
// returns every loan processed.
func (u *Usecase) AccrueAll(ctx context.Context) ([]string, error) {
	now := u.clock.Now()
	open := func(l *domainLoan.Loan) bool { return !accrual.FullyRepaid(l) }
	return batch.Run(ctx, u.uow, u.log, jobAccrue, open,
		func(ctx context.Context, r uow.Repos, l *domainLoan.Loan) (bool, error) {
			res := accrual.Accrue(l, now)
			if res.Installment > 0 {
				_, err := u.book(ctx, r, l, "", res.Applied, res.Amount, domainRepayment.KindAutomatic, now)
				return err == nil, err
			}
			if res.Amount != l.Amount {
				l.Amount = res.Amount
				if err := r.Loans.Save(ctx, l); err != nil {
					return false, err
				}
			}
			return true, nil
		})
}

// AutomateLoanRepayment deducts the installment from every due loan without
// booking interest first.
func (u *Usecase) AutomateLoanRepayment(ctx context.Context) ([]string, error) {
	now := u.clock.Now()
	due := func(l *domainLoan.Loan) bool { return accrual.ShouldAutomateRepayment(l, now) }
	return batch.Run(ctx, u.uow, u.log, jobAutoRepay, due,
		func(ctx context.Context, r uow.Repos, l *domainLoan.Loan) (bool, error) {
			applied, remaining := accrual.ApplyRepayment(l.Amount, accrual.RepaymentAmount(l, now))
			_, err := u.book(ctx, r, l, "", applied, remaining, domainRepayment.KindAutomatic, now)
			return err == nil, err
		})
}

func (u *Usecase) ListRepayments(ctx context.Context, loanID string) ([]RepaymentDTO, error) {
	out := []RepaymentDTO{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Loans.GetByLoanID(ctx, loanID); err != nil {
			return err
		}
		recs, err := r.Repayments.ListByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		for i := range recs {
			out = append(out, *toDTO(&recs[i], ""))
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainLoan.ErrNotFound
	}
	return out, err
}

func toDTO(r *domainRepayment.Repayment, status domainLoan.Status) *RepaymentDTO {
	return &RepaymentDTO{
		RepaymentID:      r.RepaymentID,
		LoanID:           r.LoanID,
		PayerID:          r.PayerID,
		Amount:           r.Amount,
		Kind:             string(r.Kind),
		OutstandingAfter: r.OutstandingAfter,
		LoanStatus:       string(status),
		PaidAt:           r.PaidAt.UTC(),
	}
}
