package loan

import (
	"time"

	domain "lendledger/internal/domain/loan"
	"lendledger/internal/domain/loanrequest"
)

type CreateLoanRequestInput struct {
	Amount       uint64 `json:"amount"`
	InterestRate uint64 `json:"interest_rate"`
	Duration     uint64 `json:"duration"`
}

type ModifyTermsInput struct {
	Amount       uint64 `json:"amount"`
	InterestRate uint64 `json:"interest_rate"`
	Duration     uint64 `json:"duration"`
}

type LoanRequestDTO struct {
	RequestID    string    `json:"request_id"`
	OwnerID      string    `json:"owner_id"`
	Amount       uint64    `json:"amount"`
	InterestRate uint64    `json:"interest_rate"`
	Duration     uint64    `json:"duration"`
	CreatedAt    time.Time `json:"created_at"`
}

type LoanDTO struct {
	LoanID       string    `json:"loan_id"`
	BorrowerID   string    `json:"borrower_id"`
	LenderID     *string   `json:"lender_id"`
	Amount       uint64    `json:"amount"`
	InterestRate uint64    `json:"interest_rate"`
	Duration     uint64    `json:"duration"`
	Status       string    `json:"status"`
	CreationDate time.Time `json:"creation_date"`
	DueDate      time.Time `json:"due_date"`
}

// SummaryDTO is a loan as of a point in time, with unbooked interest.
type SummaryDTO struct {
	LoanDTO
	AccruedInterest   uint64    `json:"accrued_interest"`
	CurrentAmount     uint64    `json:"current_amount"`
	InstallmentAmount uint64    `json:"installment_amount"`
	Overdue           bool      `json:"overdue"`
	AsOf              time.Time `json:"as_of"`
}

func toLoanDTO(l *domain.Loan) LoanDTO {
	dto := LoanDTO{
		LoanID:       l.LoanID,
		BorrowerID:   l.BorrowerID,
		Amount:       l.Amount,
		InterestRate: l.InterestRate,
		Duration:     l.Duration,
		Status:       string(l.Status),
		CreationDate: l.CreationDate.UTC(),
		DueDate:      l.DueDate.UTC(),
	}
	if l.HasLender() {
		lender := *l.LenderID
		dto.LenderID = &lender
	}
	return dto
}

func toRequestDTO(r *loanrequest.LoanRequest) LoanRequestDTO {
	return LoanRequestDTO{
		RequestID:    r.RequestID,
		OwnerID:      r.OwnerID,
		Amount:       r.Amount,
		InterestRate: r.InterestRate,
		Duration:     r.Duration,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}
