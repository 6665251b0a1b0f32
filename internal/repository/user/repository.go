package user

import (
	"context"

	"qkart/internal/domain"
)

// Repository persists and fetches users.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateAddress only touches the address; the wallet is owned by checkout.
	UpdateAddress(ctx context.Context, id, address string) (*domain.User, error)
}
