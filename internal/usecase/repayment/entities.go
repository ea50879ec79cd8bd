package repayment

import "time"

type RepaymentDTO struct {
	RepaymentID      string    `json:"repayment_id"`
	LoanID           string    `json:"loan_id"`
	PayerID          string    `json:"payer_id,omitempty"`
	Amount           uint64    `json:"amount"`
	Kind             string    `json:"kind"`
	OutstandingAfter uint64    `json:"outstanding_after"`
	LoanStatus       string    `json:"loan_status,omitempty"`
	PaidAt           time.Time `json:"paid_at"`
}
