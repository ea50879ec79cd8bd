package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	"lendledger/internal/adapter/repository/mysql"
	"lendledger/internal/domain/errs"
	domain "lendledger/internal/domain/loan"
	"lendledger/internal/domain/loanrequest"
	"lendledger/internal/domain/uow"
	"lendledger/internal/testutil/loanmock"
	"lendledger/internal/testutil/sqlitedb"
	"lendledger/internal/testutil/uowmock"
	"lendledger/internal/usecase/user"
	"lendledger/pkg/clock"

	"go.uber.org/zap"
)

const t0 = 1_700_000_000

type fixture struct {
	uc    *Usecase
	users *user.Usecase
	clk   *clock.Fixed
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	tx := mysql.NewGormUoW(sqlitedb.Open(t))
	clk := clock.Unix(t0)
	return fixture{
		uc:    NewUsecase(tx, clk, zap.NewNop()),
		users: user.NewUsecase(tx, zap.NewNop()),
		clk:   clk,
	}
}

// newLoan creates and accepts a request owned by borrower.
func (f fixture) newLoan(t *testing.T, borrower string, amount, rate, duration uint64) *LoanDTO {
	t.Helper()
	ctx := context.Background()
	req, err := f.uc.CreateLoanRequest(ctx, borrower, CreateLoanRequestInput{Amount: amount, InterestRate: rate, Duration: duration})
	if err != nil {
		t.Fatalf("CreateLoanRequest: %v", err)
	}
	l, err := f.uc.AcceptLoanRequest(ctx, borrower, req.RequestID)
	if err != nil {
		t.Fatalf("AcceptLoanRequest: %v", err)
	}
	return l
}

func TestAliceBobScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.users.RegisterUser(ctx, "alice", "Alice"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	p, err := f.users.SaveFunds(ctx, "alice", 500)
	if err != nil || p.Balance != 500 {
		t.Fatalf("SaveFunds: %v %+v", err, p)
	}

	l := f.newLoan(t, "bob", 1000, 5, 1000)
	if l.BorrowerID != "bob" || l.Status != string(domain.StatusActive) || l.LenderID != nil {
		t.Fatalf("unexpected loan: %+v", l)
	}
	if want := time.Unix(t0+1000, 0).UTC(); !l.DueDate.Equal(want) {
		t.Fatalf("due date: got %v want %v", l.DueDate, want)
	}

	f.clk.Advance(999 * time.Second)
	ids, err := f.uc.CheckForDefault(ctx)
	if err != nil || len(ids) != 0 {
		t.Fatalf("before due: ids=%v err=%v", ids, err)
	}

	// exactly at the due date is not yet overdue
	f.clk.Advance(time.Second)
	if ids, _ := f.uc.CheckForDefault(ctx); len(ids) != 0 {
		t.Fatalf("at due: ids=%v", ids)
	}

	f.clk.Advance(time.Second)
	ids, err = f.uc.CheckForDefault(ctx)
	if err != nil || len(ids) != 1 || ids[0] != l.LoanID {
		t.Fatalf("after due: ids=%v err=%v", ids, err)
	}
	st, err := f.uc.GetLoanStatus(ctx, l.LoanID)
	if err != nil || st != domain.StatusDefaulted {
		t.Fatalf("status: %v %v", st, err)
	}

	// defaulted loans are not reported again
	if ids, _ := f.uc.CheckForDefault(ctx); len(ids) != 0 {
		t.Fatalf("second pass: ids=%v", ids)
	}
}

func TestCreateLoanRequest_Invalid(t *testing.T) {
	f := newFixture(t)
	for _, in := range []CreateLoanRequestInput{
		{Amount: 0, InterestRate: 5, Duration: 10},
		{Amount: 10, InterestRate: 5, Duration: 0},
		{Amount: domain.MaxAmount + 1, InterestRate: 5, Duration: 10},
		{Amount: 10, InterestRate: domain.MaxInterestRate + 1, Duration: 10},
		{Amount: 10, InterestRate: 5, Duration: domain.MaxDuration + 1},
	} {
		if _, err := f.uc.CreateLoanRequest(context.Background(), "bob", in); !errors.Is(err, errs.ErrInvalidPayload) {
			t.Fatalf("input %+v: want InvalidPayload, got %v", in, err)
		}
	}
	if reqs, _ := f.uc.GetLoanRequests(context.Background(), "bob"); len(reqs) != 0 {
		t.Fatalf("rejected requests were stored: %+v", reqs)
	}
}

func TestAcceptLoanRequest_ConsumesRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.uc.CreateLoanRequest(ctx, "bob", CreateLoanRequestInput{Amount: 10, InterestRate: 1, Duration: 10})
	if err != nil {
		t.Fatalf("CreateLoanRequest: %v", err)
	}
	if _, err := f.uc.AcceptLoanRequest(ctx, "bob", req.RequestID); err != nil {
		t.Fatalf("AcceptLoanRequest: %v", err)
	}

	if queue, _ := f.uc.GetLoanRequests(ctx, "bob"); len(queue) != 0 {
		t.Fatalf("request still queued: %+v", queue)
	}
	if _, err := f.uc.AcceptLoanRequest(ctx, "bob", req.RequestID); !errors.Is(err, loanrequest.ErrNotFound) {
		t.Fatalf("second accept: want NotFound, got %v", err)
	}
}

func TestAcceptLoanRequest_NotFoundCreatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// alice's request is not in bob's queue
	req, _ := f.uc.CreateLoanRequest(ctx, "alice", CreateLoanRequestInput{Amount: 10, InterestRate: 1, Duration: 10})
	for _, rid := range []string{"missing", req.RequestID} {
		_, err := f.uc.AcceptLoanRequest(ctx, "bob", rid)
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("accept %q: want NotFound, got %v", rid, err)
		}
	}
	if loans, _ := f.uc.GetLoans(ctx); len(loans) != 0 {
		t.Fatalf("expected no loans, got %+v", loans)
	}
}

func TestAssignLender_OnlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.newLoan(t, "bob", 100, 5, 100)

	got, err := f.uc.AssignLender(ctx, l.LoanID, "carol")
	if err != nil || got.LenderID == nil || *got.LenderID != "carol" {
		t.Fatalf("first assign: %v %+v", err, got)
	}
	if _, err := f.uc.AssignLender(ctx, l.LoanID, "dave"); !errors.Is(err, domain.ErrLenderAssigned) {
		t.Fatalf("second assign: want ErrLenderAssigned, got %v", err)
	}
	cur, _ := f.uc.Get(ctx, l.LoanID)
	if *cur.LenderID != "carol" {
		t.Fatalf("lender overwritten: %+v", cur)
	}
	if _, err := f.uc.AssignLender(ctx, "missing", "carol"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing loan: want NotFound, got %v", err)
	}
}

func TestTerminalLoansAreImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.newLoan(t, "bob", 100, 5, 10)

	f.clk.Advance(time.Minute)
	if _, err := f.uc.CheckForDefault(ctx); err != nil {
		t.Fatalf("CheckForDefault: %v", err)
	}

	if _, err := f.uc.AssignLender(ctx, l.LoanID, "carol"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("assign: %v", err)
	}
	if _, err := f.uc.ModifyLoanTerms(ctx, "bob", l.LoanID, ModifyTermsInput{Amount: 1, Duration: 1}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("modify: %v", err)
	}
	if _, err := f.uc.RequestLoanExtension(ctx, "bob", l.LoanID, 1000); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("extend: %v", err)
	}

	cur, _ := f.uc.Get(ctx, l.LoanID)
	if cur.Status != string(domain.StatusDefaulted) || cur.Amount != 100 || cur.Duration != 10 || cur.LenderID != nil {
		t.Fatalf("terminal loan changed: %+v", cur)
	}
}

func TestModifyLoanTerms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.newLoan(t, "bob", 100, 5, 100)
	f.clk.Advance(10 * time.Second)

	if _, err := f.uc.ModifyLoanTerms(ctx, "mallory", l.LoanID, ModifyTermsInput{Amount: 1, Duration: 1}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-party: %v", err)
	}
	if _, err := f.uc.ModifyLoanTerms(ctx, "bob", l.LoanID, ModifyTermsInput{Amount: 0, Duration: 1}); !errors.Is(err, errs.ErrInvalidPayload) {
		t.Fatalf("zero amount: %v", err)
	}
	if _, err := f.uc.ModifyLoanTerms(ctx, "bob", l.LoanID, ModifyTermsInput{Amount: 1 << 63, InterestRate: 1 << 40, Duration: 1}); !errors.Is(err, domain.ErrTermsOutOfRange) {
		t.Fatalf("terms above limits: %v", err)
	}

	got, err := f.uc.ModifyLoanTerms(ctx, "bob", l.LoanID, ModifyTermsInput{Amount: 200, InterestRate: 7, Duration: 50})
	if err != nil {
		t.Fatalf("ModifyLoanTerms: %v", err)
	}
	if got.Amount != 200 || got.InterestRate != 7 || got.Duration != 50 {
		t.Fatalf("terms not applied: %+v", got)
	}
	if want := time.Unix(t0+10+50, 0).UTC(); !got.DueDate.Equal(want) {
		t.Fatalf("due date: got %v want %v", got.DueDate, want)
	}
}

func TestRequestLoanExtension(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.newLoan(t, "bob", 100, 5, 100)

	for _, d := range []uint64{50, 100} {
		if _, err := f.uc.RequestLoanExtension(ctx, "bob", l.LoanID, d); !errors.Is(err, domain.ErrDurationTooShort) {
			t.Fatalf("duration %d: want ErrDurationTooShort, got %v", d, err)
		}
	}
	cur, _ := f.uc.Get(ctx, l.LoanID)
	if cur.Duration != 100 || !cur.DueDate.Equal(l.DueDate) {
		t.Fatalf("loan changed after rejected extension: %+v", cur)
	}

	if _, err := f.uc.RequestLoanExtension(ctx, "bob", l.LoanID, domain.MaxDuration+1); !errors.Is(err, domain.ErrTermsOutOfRange) {
		t.Fatalf("duration above limit: %v", err)
	}

	if _, err := f.uc.RequestLoanExtension(ctx, "carol", l.LoanID, 500); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-borrower: %v", err)
	}

	f.clk.Advance(20 * time.Second)
	got, err := f.uc.RequestLoanExtension(ctx, "bob", l.LoanID, 500)
	if err != nil {
		t.Fatalf("RequestLoanExtension: %v", err)
	}
	if got.Duration != 500 || !got.DueDate.Equal(time.Unix(t0+20+500, 0).UTC()) {
		t.Fatalf("extension not applied: %+v", got)
	}
}

func TestGetUserLoanHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.newLoan(t, "bob", 100, 5, 100)
	b := f.newLoan(t, "carol", 100, 5, 100)
	if _, err := f.uc.AssignLender(ctx, b.LoanID, "bob"); err != nil {
		t.Fatalf("AssignLender: %v", err)
	}
	f.newLoan(t, "dave", 100, 5, 100)

	hist, err := f.uc.GetUserLoanHistory(ctx, "bob")
	if err != nil {
		t.Fatalf("GetUserLoanHistory: %v", err)
	}
	if len(hist) != 2 || hist[0].LoanID != a.LoanID || hist[1].LoanID != b.LoanID {
		t.Fatalf("unexpected history: %+v", hist)
	}

	none, err := f.uc.GetUserLoanHistory(ctx, "nobody")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("empty history: %v %+v", err, none)
	}
}

func TestGetLoanSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.newLoan(t, "bob", 1000, 10, 31_536_000)

	f.clk.Advance(365 * 24 * time.Hour)
	s, err := f.uc.GetLoanSummary(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetLoanSummary: %v", err)
	}
	if s.AccruedInterest != 100 || s.CurrentAmount != 1100 || s.Amount != 1000 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	// due exactly now: installment owed but not overdue
	if s.InstallmentAmount != 100 || s.Overdue {
		t.Fatalf("installment/overdue: %+v", s)
	}

	if _, err := f.uc.GetLoanSummary(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
}

func TestGetLoanStatus_NotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.uc.GetLoanStatus(context.Background(), "missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want NotFound, got %v", err)
	}
}

func TestCheckForDefault_ContinuesPastFailures(t *testing.T) {
	now := time.Unix(t0, 0).UTC()
	past := now.Add(-time.Hour)
	loans := []domain.Loan{
		{LoanID: "LN-1", Amount: 10, Duration: 1, Status: domain.StatusActive, DueDate: past},
		{LoanID: "LN-2", Amount: 10, Duration: 1, Status: domain.StatusActive, DueDate: past},
		{LoanID: "LN-3", Amount: 10, Duration: 1, Status: domain.StatusActive, DueDate: now.Add(time.Hour)},
	}
	boom := errors.New("disk full")
	repo := &loanmock.Repo{
		ListByStatusFn: func(ctx context.Context, s domain.Status) ([]domain.Loan, error) {
			return loans, nil
		},
		GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			for i := range loans {
				if loans[i].LoanID == loanID {
					cp := loans[i]
					return &cp, nil
				}
			}
			return nil, errors.New("unexpected lookup " + loanID)
		},
		SaveFn: func(ctx context.Context, l *domain.Loan) error {
			if l.LoanID == "LN-1" {
				return boom
			}
			return nil
		},
	}
	uc := NewUsecase(uowmock.Passthrough(uow.Repos{Loans: repo}), clock.NewFixed(now), zap.NewNop())

	ids, err := uc.CheckForDefault(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("want joined failure, got %v", err)
	}
	if len(ids) != 1 || ids[0] != "LN-2" {
		t.Fatalf("want [LN-2], got %v", ids)
	}
}

func TestGetLoans_ListError(t *testing.T) {
	boom := errors.New("conn reset")
	repo := &loanmock.Repo{ListFn: func(ctx context.Context) ([]domain.Loan, error) { return nil, boom }}
	uc := NewUsecase(uowmock.Passthrough(uow.Repos{Loans: repo}), clock.Unix(t0), zap.NewNop())

	if _, err := uc.GetLoans(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
}
