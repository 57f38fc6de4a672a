package accounts

import (
	"context"
	"time"
)

// Repository persists accounts. GetByEmail expects a normalized (lowercase,
// trimmed) email; implementations return common.ErrNotFound for misses.
type Repository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
