package cart

import (
	"context"

	"qkart/internal/domain"
)

// Repository stores one cart per user email.
type Repository interface {
	// GetByEmail returns domain.ErrNotFound when the user has no cart.
	GetByEmail(ctx context.Context, email string) (*domain.Cart, error)
	// Create returns the user's cart, inserting an empty one if needed.
	Create(ctx context.Context, email string) (*domain.Cart, error)
	// Save replaces the cart's items if its version still matches,
	// otherwise it returns domain.ErrConflict.
	Save(ctx context.Context, cart *domain.Cart) error
	// Settle debits the wallet and empties the cart in one transaction.
	Settle(ctx context.Context, s domain.Settlement) error
}
