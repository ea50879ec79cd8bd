package loanrequest

import (
	"fmt"
	"time"

	"lendledger/internal/domain/errs"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = fmt.Errorf("loan request %w", errs.ErrNotFound)
	ErrInvalidAmount = fmt.Errorf("%w: amount and duration must be positive", errs.ErrInvalidPayload)
)

// Table: loan_requests. Rows form a per-owner queue ordered by ID; accepting a
// request soft-deletes it.
type LoanRequest struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	RequestID    string         `gorm:"size:32;not null;uniqueIndex:ux_loan_requests_request_id" json:"request_id"`
	OwnerID      string         `gorm:"size:64;not null;index:idx_loan_requests_owner" json:"owner_id"`
	Amount       uint64         `gorm:"not null" json:"amount"`
	InterestRate uint64         `gorm:"not null" json:"interest_rate"`
	Duration     uint64         `gorm:"not null" json:"duration"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LoanRequest) TableName() string { return "loan_requests" }
