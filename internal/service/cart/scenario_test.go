package cart

import (
	"context"
	"testing"

	"qkart/internal/domain"

	"github.com/stretchr/testify/suite"
)

type CheckoutScenarioSuite struct {
	suite.Suite
	ctx   context.Context
	store *memoryStore
	svc   *Service
	a     domain.Product
	b     domain.Product
}

func (s *CheckoutScenarioSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newMemoryStore()
	s.svc = newTestService(s.store)
	s.a = s.store.addProduct("Product A", 10)
	s.b = s.store.addProduct("Product B", 5)
}

func (s *CheckoutScenarioSuite) TestCheckoutDebitsWalletAndClearsCart() {
	user := s.store.addUser(buyerEmail, 25, domain.DefaultAddress)

	_, err := s.svc.AddItem(s.ctx, user, s.a.ID, 2)
	s.Require().NoError(err)
	_, err = s.svc.AddItem(s.ctx, user, s.b.ID, 1)
	s.Require().NoError(err)

	quote, err := s.svc.Quote(s.ctx, user)
	s.Require().NoError(err)
	s.Equal(int64(25), quote.Total)

	s.ErrorIs(s.svc.Checkout(s.ctx, user), domain.ErrAddressNotSet)

	user = s.store.addUser(buyerEmail, 25, "221B Baker Street, London NW1 6XE")
	s.Require().NoError(s.svc.Checkout(s.ctx, user))

	s.Equal(int64(0), s.store.user(buyerEmail).WalletMoney)
	cart, ok := s.store.cart(buyerEmail)
	s.True(ok, "cart is cleared, not deleted")
	s.Empty(cart.Items)

	s.ErrorIs(s.svc.Checkout(s.ctx, user), domain.ErrEmptyCart)
}

func (s *CheckoutScenarioSuite) TestInsufficientBalanceKeepsState() {
	user := s.store.addUser(buyerEmail, 5, "221B Baker Street, London NW1 6XE")

	_, err := s.svc.AddItem(s.ctx, user, s.a.ID, 1)
	s.Require().NoError(err)

	s.ErrorIs(s.svc.Checkout(s.ctx, user), domain.ErrInsufficientBalance)

	s.Equal(int64(5), s.store.user(buyerEmail).WalletMoney)
	cart, ok := s.store.cart(buyerEmail)
	s.Require().True(ok)
	s.Require().Len(cart.Items, 1)
	s.Equal(s.a.ID, cart.Items[0].ProductID)
}

func TestCheckoutScenarioSuite(t *testing.T) {
	suite.Run(t, new(CheckoutScenarioSuite))
}
