package user

import (
	"context"
	"errors"
	"testing"

	"qkart/internal/domain"
)

// stubRepo keeps one stored user; reads return copies.
type stubRepo struct {
	user    *domain.User
	saveErr error
}

func (s *stubRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	return &u, nil
}

func (s *stubRepo) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	if s.user == nil {
		return nil, domain.ErrNotFound
	}
	clone := *s.user
	return &clone, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, domain.ErrNotFound
	}
	clone := *s.user
	return &clone, nil
}

func (s *stubRepo) UpdateAddress(_ context.Context, id, address string) (*domain.User, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	if s.user == nil || s.user.ID != id {
		return nil, domain.ErrNotFound
	}
	s.user.Address = address
	clone := *s.user
	return &clone, nil
}

func TestSetAddress(t *testing.T) {
	repo := &stubRepo{user: &domain.User{ID: "u1", Email: "a@b.c", WalletMoney: 500, Address: domain.DefaultAddress}}
	svc := New(repo)

	got, err := svc.SetAddress(context.Background(), *repo.user, "  128 Residency Road, Bangalore 560025 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Address != "128 Residency Road, Bangalore 560025" || !got.HasSetNonDefaultAddress() {
		t.Fatalf("unexpected user %+v", got)
	}
	if repo.user.Address != got.Address {
		t.Fatalf("address not stored: %+v", repo.user)
	}
}

func TestSetAddressKeepsStoredWallet(t *testing.T) {
	stale := domain.User{ID: "u1", Email: "a@b.c", WalletMoney: 500, Address: domain.DefaultAddress}
	stored := stale
	stored.WalletMoney = 200 // checkout committed after stale was loaded
	repo := &stubRepo{user: &stored}
	svc := New(repo)

	got, err := svc.SetAddress(context.Background(), stale, "221B Baker Street, London NW1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.user.WalletMoney != 200 || got.WalletMoney != 200 {
		t.Fatalf("wallet overwritten: stored=%d returned=%d", repo.user.WalletMoney, got.WalletMoney)
	}
}

func TestSetAddressValidation(t *testing.T) {
	svc := New(&stubRepo{})
	_, err := svc.SetAddress(context.Background(), domain.User{ID: "u1"}, "short")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetAddressStoreError(t *testing.T) {
	svc := New(&stubRepo{user: &domain.User{ID: "u1"}, saveErr: errors.New("db down")})
	if _, err := svc.SetAddress(context.Background(), domain.User{ID: "u1"}, "221B Baker Street, London NW1"); err == nil {
		t.Fatalf("expected store error")
	}
}

func TestGetNotFound(t *testing.T) {
	svc := New(&stubRepo{})
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
