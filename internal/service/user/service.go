package user

import (
	"context"
	"strings"

	"qkart/internal/domain"
	userrepo "qkart/internal/repository/user"
)

const minAddressLength = 20

// Service exposes profile reads and address updates.
type Service struct {
	repo userrepo.Repository
}

func New(repo userrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Get returns domain.ErrNotFound for unknown ids.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// SetAddress stores a shipping address on u and returns the saved user.
func (s *Service) SetAddress(ctx context.Context, u domain.User, address string) (*domain.User, error) {
	address = strings.TrimSpace(address)
	if len(address) < minAddressLength {
		return nil, domain.Invalid("address must be at least 20 characters")
	}
	return s.repo.UpdateAddress(ctx, u.ID, address)
}
