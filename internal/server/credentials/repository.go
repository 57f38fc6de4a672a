package credentials

import "context"

// Repository is owner-scoped credential storage. Every read and write
// carries the owner's account ID; a record belonging to someone else is
// indistinguishable from one that does not exist.
type Repository interface {
	Create(ctx context.Context, rec *Record) (*Record, error)
	GetByID(ctx context.Context, ownerID, id string) (*Record, error)
	ListByOwner(ctx context.Context, ownerID string, filter Filter) ([]*Record, error)
	Update(ctx context.Context, rec *Record) (*Record, error)
	Delete(ctx context.Context, ownerID, id string) error
}
