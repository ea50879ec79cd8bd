package loan

import (
	"context"
	"errors"

	"lendledger/internal/domain/accrual"
	"lendledger/internal/domain/history"
	domain "lendledger/internal/domain/loan"
	"lendledger/internal/domain/loanrequest"
	"lendledger/internal/domain/uow"
	"lendledger/internal/infrastructure/metrics"
	"lendledger/internal/usecase/batch"
	"lendledger/pkg/clock"
	"lendledger/pkg/id"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const jobCheckDefaults = "check_defaults"

type Usecase struct {
	uow   uow.UnitOfWork
	clock clock.Clock
	log   *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, clk clock.Clock, log *zap.Logger) *Usecase {
	return &Usecase{uow: tx, clock: clk, log: log}
}

// translate maps a missing record onto the domain sentinel.
func translate(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func (u *Usecase) CreateLoanRequest(ctx context.Context, caller string, in CreateLoanRequestInput) (*LoanRequestDTO, error) {
	if in.Amount == 0 || in.Duration == 0 {
		return nil, loanrequest.ErrInvalidAmount
	}
	if !domain.WithinLimits(in.Amount, in.InterestRate, in.Duration) {
		return nil, domain.ErrTermsOutOfRange
	}
	req := &loanrequest.LoanRequest{
		RequestID:    id.NewID32(),
		OwnerID:      caller,
		Amount:       in.Amount,
		InterestRate: in.InterestRate,
		Duration:     in.Duration,
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Requests.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("loan request created", zap.String("request_id", req.RequestID), zap.String("caller", caller))
	dto := toRequestDTO(req)
	return &dto, nil
}

func (u *Usecase) GetLoanRequests(ctx context.Context, caller string) ([]LoanRequestDTO, error) {
	out := []LoanRequestDTO{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		reqs, err := r.Requests.ListByOwner(ctx, caller)
		if err != nil {
			return err
		}
		for i := range reqs {
			out = append(out, toRequestDTO(&reqs[i]))
		}
		return nil
	})
	return out, err
}

// AcceptLoanRequest turns one of the caller's own requests into an active
// loan with the caller as borrower.
func (u *Usecase) AcceptLoanRequest(ctx context.Context, caller, requestID string) (*LoanDTO, error) {
	now := u.clock.Now()
	var l *domain.Loan

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		req, err := r.Requests.GetByOwnerAndRequestID(ctx, caller, requestID)
		if err != nil {
			return translate(err, loanrequest.ErrNotFound)
		}
		if req.Amount == 0 || req.Duration == 0 {
			return loanrequest.ErrInvalidAmount
		}

		l = &domain.Loan{
			LoanID:       id.NewID32(),
			Amount:       req.Amount,
			InterestRate: req.InterestRate,
			Duration:     req.Duration,
			BorrowerID:   caller,
			Status:       domain.StatusActive,
			CreationDate: now,
			DueDate:      accrual.DueDate(now, req.Duration),
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if err := r.Requests.Consume(ctx, req); err != nil {
			return translate(err, loanrequest.ErrNotFound)
		}
		return r.History.Append(ctx, &history.Entry{OwnerID: caller, LoanID: l.LoanID, Role: history.RoleBorrower})
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(string(domain.StatusActive))
	u.log.Info("loan request accepted",
		zap.String("request_id", requestID),
		zap.String("loan_id", l.LoanID),
		zap.String("borrower", caller))
	dto := toLoanDTO(l)
	return &dto, nil
}

func (u *Usecase) AssignLender(ctx context.Context, loanID, lender string) (*LoanDTO, error) {
	if lender == "" {
		return nil, domain.ErrForbidden
	}
	var dto LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusActive {
			return domain.ErrInvalidTransition
		}
		if l.HasLender() {
			return domain.ErrLenderAssigned
		}
		l.LenderID = &lender
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toLoanDTO(l)
		return r.History.Append(ctx, &history.Entry{OwnerID: lender, LoanID: l.LoanID, Role: history.RoleLender})
	})
	if err != nil {
		return nil, translate(err, domain.ErrNotFound)
	}
	u.log.Info("lender assigned", zap.String("loan_id", loanID), zap.String("lender", lender))
	return &dto, nil
}

func (u *Usecase) ModifyLoanTerms(ctx context.Context, caller, loanID string, in ModifyTermsInput) (*LoanDTO, error) {
	if in.Amount == 0 || in.Duration == 0 {
		return nil, domain.ErrInvalidTerms
	}
	if !domain.WithinLimits(in.Amount, in.InterestRate, in.Duration) {
		return nil, domain.ErrTermsOutOfRange
	}
	now := u.clock.Now()
	var dto LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusActive {
			return domain.ErrInvalidTransition
		}
		if !l.IsParty(caller) {
			return domain.ErrForbidden
		}
		l.Amount = in.Amount
		l.InterestRate = in.InterestRate
		l.Duration = in.Duration
		l.DueDate = accrual.DueDate(now, in.Duration)
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toLoanDTO(l)
		return nil
	})
	if err != nil {
		return nil, translate(err, domain.ErrNotFound)
	}
	u.log.Info("loan terms modified", zap.String("loan_id", loanID), zap.String("caller", caller))
	return &dto, nil
}

func (u *Usecase) RequestLoanExtension(ctx context.Context, caller, loanID string, newDuration uint64) (*LoanDTO, error) {
	now := u.clock.Now()
	var dto LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusActive {
			return domain.ErrInvalidTransition
		}
		if l.BorrowerID != caller {
			return domain.ErrForbidden
		}
		if newDuration <= l.Duration {
			return domain.ErrDurationTooShort
		}
		if newDuration > domain.MaxDuration {
			return domain.ErrTermsOutOfRange
		}
		l.Duration = newDuration
		l.DueDate = accrual.DueDate(now, newDuration)
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toLoanDTO(l)
		return nil
	})
	if err != nil {
		return nil, translate(err, domain.ErrNotFound)
	}
	u.log.Info("loan extended", zap.String("loan_id", loanID), zap.Uint64("duration", newDuration))
	return &dto, nil
}

// CheckForDefault moves every overdue active loan to defaulted and returns
// the ids it moved. Already-defaulted loans are never listed again.
func (u *Usecase) CheckForDefault(ctx context.Context) ([]string, error) {
	now := u.clock.Now()
	overdue := func(l *domain.Loan) bool { return accrual.Overdue(l, now) }
	return batch.Run(ctx, u.uow, u.log, jobCheckDefaults, overdue,
		func(ctx context.Context, r uow.Repos, l *domain.Loan) (bool, error) {
			l.Status = domain.StatusDefaulted
			if err := r.Loans.Save(ctx, l); err != nil {
				return false, err
			}
			metrics.RecordTransition(string(domain.StatusDefaulted))
			u.log.Info("loan defaulted", zap.String("loan_id", l.LoanID), zap.Time("due_date", l.DueDate))
			return true, nil
		})
}

func (u *Usecase) GetLoanStatus(ctx context.Context, loanID string) (domain.Status, error) {
	l, err := u.get(ctx, loanID)
	if err != nil {
		return "", err
	}
	return l.Status, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	dto := toLoanDTO(l)
	return &dto, nil
}

func (u *Usecase) GetLoans(ctx context.Context) ([]LoanDTO, error) {
	out := []LoanDTO{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.List(ctx)
		if err != nil {
			return err
		}
		for i := range loans {
			out = append(out, toLoanDTO(&loans[i]))
		}
		return nil
	})
	return out, err
}

// GetUserLoanHistory lists loans where identity is borrower or lender.
func (u *Usecase) GetUserLoanHistory(ctx context.Context, identity string) ([]LoanDTO, error) {
	out := []LoanDTO{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		entries, err := r.History.ListByOwner(ctx, identity)
		if err != nil {
			return err
		}
		seen := make(map[string]struct{}, len(entries))
		ids := make([]string, 0, len(entries))
		for _, e := range entries {
			if _, dup := seen[e.LoanID]; dup {
				continue
			}
			seen[e.LoanID] = struct{}{}
			ids = append(ids, e.LoanID)
		}
		loans, err := r.Loans.ListByLoanIDs(ctx, ids)
		if err != nil {
			return err
		}
		for i := range loans {
			if loans[i].IsParty(identity) {
				out = append(out, toLoanDTO(&loans[i]))
			}
		}
		return nil
	})
	return out, err
}

func (u *Usecase) GetLoanSummary(ctx context.Context, loanID string) (*SummaryDTO, error) {
	l, err := u.get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	now := u.clock.Now()
	s := &SummaryDTO{LoanDTO: toLoanDTO(l), AsOf: now}
	if l.Status == domain.StatusActive {
		s.AccruedInterest = accrual.AccumulatedInterest(l, now)
		s.InstallmentAmount = accrual.RepaymentAmount(l, now)
		s.Overdue = accrual.Overdue(l, now)
	}
	s.CurrentAmount = accrual.SaturatingAdd(l.Amount, s.AccruedInterest)
	return s, nil
}

func (u *Usecase) get(ctx context.Context, loanID string) (*domain.Loan, error) {
	var l *domain.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		l, err = r.Loans.GetByLoanID(ctx, loanID)
		return err
	})
	if err != nil {
		return nil, translate(err, domain.ErrNotFound)
	}
	return l, nil
}
