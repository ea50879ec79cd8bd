package history

import "context"

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	// ListByOwner returns the owner's entries in insertion order.
	ListByOwner(ctx context.Context, ownerID string) ([]Entry, error)
}
