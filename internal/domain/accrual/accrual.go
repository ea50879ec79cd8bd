// Package accrual holds the interest and repayment arithmetic over a loan
// snapshot. Every function is pure: the caller supplies the loan and the
// current time and decides what to persist.
//
// All arithmetic is unsigned integer math evaluated strictly left to right,
// truncating at each division. Reordering the operations changes results.
// Intermediates are exact; a result that does not fit in 64 bits saturates at
// math.MaxUint64 instead of wrapping.
package accrual

import (
	"math"
	"math/big"
	"math/bits"
	"time"

	"lendledger/internal/domain/loan"
)

const SecondsPerYear uint64 = 31_536_000

var (
	bigHundred = big.NewInt(100)
	bigYear    = new(big.Int).SetUint64(SecondsPerYear)
)

// ElapsedSeconds is now - creationDate in whole seconds, never negative.
func ElapsedSeconds(l *loan.Loan, now time.Time) uint64 {
	d := now.Unix() - l.CreationDate.Unix()
	if d <= 0 {
		return 0
	}
	return uint64(d)
}

// AccumulatedInterest = amount * rate / 100 * elapsed / SecondsPerYear.
func AccumulatedInterest(l *loan.Loan, now time.Time) uint64 {
	v := new(big.Int).SetUint64(l.Amount)
	v.Mul(v, new(big.Int).SetUint64(l.InterestRate))
	v.Quo(v, bigHundred)
	v.Mul(v, new(big.Int).SetUint64(ElapsedSeconds(l, now)))
	v.Quo(v, bigYear)
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}

// SaturatingAdd returns a+b, or math.MaxUint64 when the sum overflows.
func SaturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

func DueDate(now time.Time, duration uint64) time.Time {
	return now.Add(time.Duration(duration) * time.Second)
}

// RepaymentAmount is the installment owed at now: accrued interest plus an
// even slice of principal. Zero-duration loans cannot be created; they yield 0.
func RepaymentAmount(l *loan.Loan, now time.Time) uint64 {
	if l.Duration == 0 {
		return 0
	}
	return SaturatingAdd(AccumulatedInterest(l, now), l.Amount/l.Duration)
}

func FullyRepaid(l *loan.Loan) bool { return l.Amount == 0 }

func ShouldAutomateRepayment(l *loan.Loan, now time.Time) bool {
	return !FullyRepaid(l) && !now.Before(l.DueDate)
}

// Overdue: the due date has passed and principal is still outstanding.
func Overdue(l *loan.Loan, now time.Time) bool {
	return !FullyRepaid(l) && now.After(l.DueDate)
}

// ApplyRepayment subtracts payment from outstanding without wrapping.
func ApplyRepayment(outstanding, payment uint64) (applied, remaining uint64) {
	if payment >= outstanding {
		return outstanding, 0
	}
	return payment, outstanding - payment
}

// Result describes one accrual step.
type Result struct {
	Interest    uint64
	Installment uint64 // zero when not yet due
	Applied     uint64
	Amount      uint64 // outstanding after the step
}

// Accrue computes interest and, when due, the automatic installment, both from
// the snapshot as given. The snapshot is not modified.
func Accrue(l *loan.Loan, now time.Time) Result {
	res := Result{Interest: AccumulatedInterest(l, now)}
	amount := SaturatingAdd(l.Amount, res.Interest)
	if ShouldAutomateRepayment(l, now) {
		res.Installment = RepaymentAmount(l, now)
		res.Applied, amount = ApplyRepayment(amount, res.Installment)
	}
	res.Amount = amount
	return res
}
