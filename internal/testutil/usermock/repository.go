package usermock

import (
	"context"

	domain "lendledger/internal/domain/user"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                    func(ctx context.Context, p *domain.Profile) error
	SaveFn                      func(ctx context.Context, p *domain.Profile) error
	GetByPrincipalIDFn          func(ctx context.Context, principalID string) (*domain.Profile, error)
	GetByPrincipalIDForUpdateFn func(ctx context.Context, principalID string) (*domain.Profile, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, p *domain.Profile) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, p *domain.Profile) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByPrincipalID(ctx context.Context, principalID string) (*domain.Profile, error) {
	if m.GetByPrincipalIDFn != nil {
		return m.GetByPrincipalIDFn(ctx, principalID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByPrincipalIDForUpdate(ctx context.Context, principalID string) (*domain.Profile, error) {
	if m.GetByPrincipalIDForUpdateFn != nil {
		return m.GetByPrincipalIDForUpdateFn(ctx, principalID)
	}
	return nil, context.Canceled
}
