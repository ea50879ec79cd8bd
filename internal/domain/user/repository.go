package user

import "context"

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	Save(ctx context.Context, p *Profile) error
	GetByPrincipalID(ctx context.Context, principalID string) (*Profile, error)
	GetByPrincipalIDForUpdate(ctx context.Context, principalID string) (*Profile, error)
}
