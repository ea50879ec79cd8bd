package user

import (
	"context"
	"errors"
	"strings"

	domain "lendledger/internal/domain/user"
	"lendledger/internal/domain/uow"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	uow uow.UnitOfWork
	log *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, log *zap.Logger) *Usecase { return &Usecase{uow: tx, log: log} }

func toDTO(p *domain.Profile) *ProfileDTO {
	return &ProfileDTO{PrincipalID: p.PrincipalID, Name: p.Name, Balance: p.Balance, CreatedAt: p.CreatedAt.UTC()}
}

// RegisterUser creates a zero-balance profile. Registering twice fails; it
// never overwrites an existing profile.
func (u *Usecase) RegisterUser(ctx context.Context, caller, name string) (*ProfileDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	p := &domain.Profile{PrincipalID: caller, Name: name}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		_, err := r.Users.GetByPrincipalID(ctx, caller)
		switch {
		case err == nil:
			return domain.ErrAlreadyRegistered
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return r.Users.Create(ctx, p)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost a race with a concurrent registration
		return nil, domain.ErrAlreadyRegistered
	}
	if err != nil {
		return nil, err
	}
	u.log.Info("user registered", zap.String("caller", caller))
	return toDTO(p), nil
}

func (u *Usecase) SaveFunds(ctx context.Context, caller string, amount uint64) (*ProfileDTO, error) {
	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	var out *ProfileDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Users.GetByPrincipalIDForUpdate(ctx, caller)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := p.Credit(amount); err != nil {
			return err
		}
		if err := r.Users.Save(ctx, p); err != nil {
			return err
		}
		out = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("funds saved", zap.String("caller", caller), zap.Uint64("amount", amount))
	return out, nil
}

func (u *Usecase) GetUser(ctx context.Context, caller string) (*ProfileDTO, error) {
	var out *ProfileDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Users.GetByPrincipalID(ctx, caller)
		if err != nil {
			return err
		}
		out = toDTO(p)
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return out, err
}
