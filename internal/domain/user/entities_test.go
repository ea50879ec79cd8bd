package user

import (
	"errors"
	"math"
	"testing"
)

func TestProfileCredit(t *testing.T) {
	p := &Profile{Balance: 10}
	if err := p.Credit(5); err != nil || p.Balance != 15 {
		t.Fatalf("credit: %v balance=%d", err, p.Balance)
	}

	p.Balance = math.MaxUint64 - 1
	if err := p.Credit(1); err != nil || p.Balance != math.MaxUint64 {
		t.Fatalf("credit to max: %v balance=%d", err, p.Balance)
	}
	if err := p.Credit(1); !errors.Is(err, ErrBalanceOverflow) {
		t.Fatalf("want ErrBalanceOverflow, got %v", err)
	}
	if p.Balance != math.MaxUint64 {
		t.Fatalf("balance changed on overflow: %d", p.Balance)
	}
}
