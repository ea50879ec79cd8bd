package history

import "time"

type Role string

const (
	RoleBorrower Role = "borrower"
	RoleLender   Role = "lender"
)

// Table: loan_histories. One row per (owner, loan, role), append-only.
type Entry struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	OwnerID   string    `gorm:"size:64;not null;index:idx_loan_histories_owner"`
	LoanID    string    `gorm:"size:32;not null"`
	Role      Role      `gorm:"size:16;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Entry) TableName() string { return "loan_histories" }
