package mysql

import (
	"context"

	userDomain "lendledger/internal/domain/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, p *userDomain.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *UserRepository) Save(ctx context.Context, p *userDomain.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *UserRepository) GetByPrincipalID(ctx context.Context, principalID string) (*userDomain.Profile, error) {
	var out userDomain.Profile
	res := r.db.WithContext(ctx).Where("principal_id = ?", principalID).First(&out)
	return &out, res.Error
}

func (r *UserRepository) GetByPrincipalIDForUpdate(ctx context.Context, principalID string) (*userDomain.Profile, error) {
	var out userDomain.Profile
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("principal_id = ?", principalID).
		First(&out)
	return &out, res.Error
}
