// Package batch drives ledger-wide jobs (default detection, accrual,
// automated repayment) over the active loan set.
//
// A run lists a snapshot of active loans, then re-loads each eligible one
// under its own row lock and re-checks it before stepping, so a loan that
// changed since the snapshot is judged on its current state. Every loan is
// visited at most once per run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lendledger/internal/domain/loan"
	"lendledger/internal/domain/uow"
	"lendledger/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

// Step handles one locked, active, eligible loan and reports whether it
// counts as touched.
type Step func(ctx context.Context, r uow.Repos, l *loan.Loan) (bool, error)

// Run returns the ids of touched loans, in loan creation order. A failure on
// one loan does not stop the run; all failures are joined into the error.
func Run(ctx context.Context, tx uow.UnitOfWork, log *zap.Logger, job string, eligible func(*loan.Loan) bool, step Step) ([]string, error) {
	start := time.Now()
	touched := []string{}

	var snapshot []loan.Loan
	err := tx.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		snapshot, err = r.Loans.ListByStatus(ctx, loan.StatusActive)
		return err
	})
	if err != nil {
		metrics.RecordBatch(job, 0, time.Since(start), err)
		return touched, fmt.Errorf("%s: list active loans: %w", job, err)
	}

	var failures []error
	for i := range snapshot {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}
		if !eligible(&snapshot[i]) {
			continue
		}
		loanID := snapshot[i].LoanID
		var hit bool
		err := tx.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
			if l.Status != loan.StatusActive || !eligible(l) {
				return nil
			}
			var err error
			hit, err = step(ctx, r, l)
			return err
		})
		if err != nil {
			log.Warn("batch: loan step failed", zap.String("job", job), zap.String("loan_id", loanID), zap.Error(err))
			failures = append(failures, fmt.Errorf("loan %s: %w", loanID, err))
			continue
		}
		if hit {
			touched = append(touched, loanID)
		}
	}

	err = errors.Join(failures...)
	metrics.RecordBatch(job, len(touched), time.Since(start), err)
	log.Info("batch: run finished",
		zap.String("job", job),
		zap.Int("candidates", len(snapshot)),
		zap.Int("touched", len(touched)),
		zap.Int("failed", len(failures)),
		zap.Duration("took", time.Since(start)))
	return touched, err
}
