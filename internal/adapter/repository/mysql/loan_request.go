package mysql

import (
	"context"

	reqDomain "lendledger/internal/domain/loanrequest"

	"gorm.io/gorm"
)

type LoanRequestRepository struct{ db *gorm.DB }

func NewLoanRequestRepository(db *gorm.DB) *LoanRequestRepository {
	return &LoanRequestRepository{db: db}
}

func (r *LoanRequestRepository) Create(ctx context.Context, lr *reqDomain.LoanRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *LoanRequestRepository) GetByOwnerAndRequestID(ctx context.Context, ownerID, requestID string) (*reqDomain.LoanRequest, error) {
	var out reqDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("owner_id = ? AND request_id = ?", ownerID, requestID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRequestRepository) ListByOwner(ctx context.Context, ownerID string) ([]reqDomain.LoanRequest, error) {
	var out []reqDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

// Consume soft-deletes; a consumed request drops out of every query above.
func (r *LoanRequestRepository) Consume(ctx context.Context, lr *reqDomain.LoanRequest) error {
	res := r.db.WithContext(ctx).Delete(lr)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
