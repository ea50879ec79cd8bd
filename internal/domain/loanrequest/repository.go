package loanrequest

import "context"

type Repository interface {
	Create(ctx context.Context, r *LoanRequest) error
	// Lookup is scoped to the owner's queue.
	GetByOwnerAndRequestID(ctx context.Context, ownerID, requestID string) (*LoanRequest, error)
	ListByOwner(ctx context.Context, ownerID string) ([]LoanRequest, error)
	// Consume removes the request from its owner's queue.
	Consume(ctx context.Context, r *LoanRequest) error
}
