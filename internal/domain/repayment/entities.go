package repayment

import (
	"fmt"
	"time"

	"lendledger/internal/domain/errs"
)

type Kind string

const (
	KindManual    Kind = "manual"
	KindAutomatic Kind = "automatic"
)

// Table: repayments. Audit trail of every amount applied against a loan.
type Repayment struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	RepaymentID string `gorm:"column:repayment_id;type:char(32);not null;uniqueIndex:ux_repayments_repayment_id"`
	// Public loan id
	LoanID string `gorm:"column:loan_id;size:32;not null;index:idx_repayments_loan"`
	// Empty for automatic installments.
	PayerID          string    `gorm:"column:payer_id;size:64"`
	Amount           uint64    `gorm:"column:amount;not null"`
	Kind             Kind      `gorm:"column:kind;size:16;not null"`
	OutstandingAfter uint64    `gorm:"column:outstanding_after;not null"`
	PaidAt           time.Time `gorm:"column:paid_at;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Repayment) TableName() string { return "repayments" }

var ErrInvalidAmount = fmt.Errorf("%w: repayment amount must be positive", errs.ErrInvalidPayload)
