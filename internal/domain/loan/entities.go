package loan

import (
	"fmt"
	"time"

	"lendledger/internal/domain/errs"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
)

// Terminal reports whether no further mutation is allowed.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusDefaulted }

var (
	ErrNotFound          = fmt.Errorf("loan %w", errs.ErrNotFound)
	ErrInvalidTransition = fmt.Errorf("%w: loan is not active", errs.ErrInvalidPayload)
	ErrLenderAssigned    = fmt.Errorf("%w: lender already assigned", errs.ErrInvalidPayload)
	ErrForbidden         = fmt.Errorf("%w: caller is not a party to the loan", errs.ErrInvalidPayload)
	ErrDurationTooShort  = fmt.Errorf("%w: new duration must exceed the current one", errs.ErrInvalidPayload)
	ErrInvalidTerms      = fmt.Errorf("%w: amount and duration must be positive", errs.ErrInvalidPayload)
	ErrTermsOutOfRange   = fmt.Errorf("%w: loan terms exceed the ledger limits", errs.ErrInvalidPayload)
)

// Upper bounds on loan terms. A 100-year duration keeps dueDate within
// time.Duration range.
const (
	MaxAmount       uint64 = 1_000_000_000_000_000
	MaxInterestRate uint64 = 10_000
	MaxDuration     uint64 = 100 * 31_536_000
)

func WithinLimits(amount, rate, duration uint64) bool {
	return amount <= MaxAmount && rate <= MaxInterestRate && duration <= MaxDuration
}

// Table: loans. Amount is the outstanding principal and shrinks with repayments.
type Loan struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanID       string    `gorm:"size:32;not null;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	Amount       uint64    `gorm:"not null" json:"amount"`
	InterestRate uint64    `gorm:"not null" json:"interest_rate"`
	Duration     uint64    `gorm:"not null" json:"duration"` // seconds
	BorrowerID   string    `gorm:"size:64;not null;index:idx_loans_borrower" json:"borrower_id"`
	LenderID     *string   `gorm:"size:64;index:idx_loans_lender" json:"lender_id,omitempty"`
	Status       Status    `gorm:"size:16;not null;default:'active';index:idx_loans_status" json:"status"`
	CreationDate time.Time `gorm:"not null" json:"creation_date"`
	DueDate      time.Time `gorm:"not null" json:"due_date"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

func (l *Loan) HasLender() bool { return l.LenderID != nil && *l.LenderID != "" }

// IsParty reports whether identity is the borrower or the assigned lender.
func (l *Loan) IsParty(identity string) bool {
	return l.BorrowerID == identity || (l.HasLender() && *l.LenderID == identity)
}
