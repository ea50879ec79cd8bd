package user

import (
	"fmt"
	"math/bits"
	"time"

	"lendledger/internal/domain/errs"
)

var (
	ErrNotFound          = fmt.Errorf("user %w", errs.ErrNotFound)
	ErrAlreadyRegistered = fmt.Errorf("%w: identity already registered", errs.ErrInvalidPayload)
	ErrInvalidName       = fmt.Errorf("%w: name is required", errs.ErrInvalidPayload)
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be positive", errs.ErrInvalidPayload)
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient balance", errs.ErrInvalidPayload)
	ErrBalanceOverflow   = fmt.Errorf("%w: balance would overflow", errs.ErrInvalidPayload)
)

// Table: users
type Profile struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	PrincipalID string    `gorm:"size:64;not null;uniqueIndex:ux_users_principal_id" json:"principal_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Balance     uint64    `gorm:"not null;default:0" json:"balance"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "users" }

// Credit adds amount to the balance, leaving it untouched on overflow.
func (p *Profile) Credit(amount uint64) error {
	sum, carry := bits.Add64(p.Balance, amount, 0)
	if carry != 0 {
		return ErrBalanceOverflow
	}
	p.Balance = sum
	return nil
}
