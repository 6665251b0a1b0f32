package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"qkart/internal/domain"
	cartrepo "qkart/internal/repository/cart"
)

// Service is the cart/checkout engine. Every method expects an already
// authenticated user; mutations for the same email are serialized.
type Service struct {
	repo        cartRepo
	productRepo productRepo
	userRepo    userRepo
	locks       *keyedMutex
	logger      *log.Logger
	onCheckout  func(outcome string)
}

type cartRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.Cart, error)
	Create(ctx context.Context, email string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Settle(ctx context.Context, s domain.Settlement) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type userRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the logger used for checkout outcomes.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCheckoutObserver registers a callback receiving "settled" or the failure reason.
func WithCheckoutObserver(fn func(outcome string)) Option {
	return func(s *Service) {
		s.onCheckout = fn
	}
}

func New(repo cartrepo.Repository, productRepo productRepo, userRepo userRepo, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		productRepo: productRepo,
		userRepo:    userRepo,
		locks:       newKeyedMutex(),
		logger:      log.New(io.Discard, "", 0),
		onCheckout:  func(string) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote is a read-only view of a cart with its computed totals.
type Quote struct {
	Cart  *domain.Cart `json:"cart"`
	Total int64        `json:"total"`
}

// GetCart returns domain.ErrNotFound when the user never created a cart.
func (s *Service) GetCart(ctx context.Context, user domain.User) (*domain.Cart, error) {
	cart, err := s.repo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, storeErr(err)
	}
	return cart, nil
}

// Quote loads the cart and computes its total without mutating anything.
func (s *Service) Quote(ctx context.Context, user domain.User) (Quote, error) {
	cart, err := s.GetCart(ctx, user)
	if err != nil {
		return Quote{}, err
	}
	total, err := cart.Total()
	if err != nil {
		return Quote{}, err
	}
	return Quote{Cart: cart, Total: total}, nil
}

// AddItem appends productID to the user's cart, creating the cart on first use.
func (s *Service) AddItem(ctx context.Context, user domain.User, productID string, quantity int) (*domain.Cart, error) {
	productID = strings.TrimSpace(productID)
	if quantity <= 0 || quantity > domain.MaxQuantity {
		return nil, domain.ErrInvalidQuantity
	}
	unlock := s.locks.Lock(lockKey(user))
	defer unlock()

	cart, err := s.repo.GetByEmail(ctx, user.Email)
	if errors.Is(err, domain.ErrNotFound) {
		cart, err = s.repo.Create(ctx, user.Email)
	}
	if err != nil {
		return nil, storeErr(err)
	}

	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if cart.IndexOf(product.ID) >= 0 {
		return nil, domain.ErrDuplicateItem
	}

	items := make([]domain.CartItem, 0, len(cart.Items)+1)
	items = append(items, cart.Items...)
	items = append(items, domain.CartItem{
		ProductID: product.ID,
		Quantity:  quantity,
		Product:   *product,
	})

	next := *cart
	next.Items = items
	if _, err := next.Total(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, &next); err != nil {
		return nil, storeErr(err)
	}
	return &next, nil
}

// UpdateItem overwrites the quantity of a product already in the cart.
func (s *Service) UpdateItem(ctx context.Context, user domain.User, productID string, quantity int) (*domain.Cart, error) {
	productID = strings.TrimSpace(productID)
	if quantity <= 0 || quantity > domain.MaxQuantity {
		return nil, domain.ErrInvalidQuantity
	}
	unlock := s.locks.Lock(lockKey(user))
	defer unlock()

	cart, err := s.existingCart(ctx, user)
	if err != nil {
		return nil, err
	}

	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	idx := cart.IndexOf(product.ID)
	if idx < 0 {
		return nil, domain.ErrItemNotInCart
	}

	items := make([]domain.CartItem, len(cart.Items))
	copy(items, cart.Items)
	items[idx].Quantity = quantity
	items[idx].Product = *product

	next := *cart
	next.Items = items
	if _, err := next.Total(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, &next); err != nil {
		return nil, storeErr(err)
	}
	return &next, nil
}

// RemoveItem drops a product from the cart.
func (s *Service) RemoveItem(ctx context.Context, user domain.User, productID string) error {
	productID = canonicalID(productID)
	unlock := s.locks.Lock(lockKey(user))
	defer unlock()

	cart, err := s.existingCart(ctx, user)
	if err != nil {
		return err
	}

	idx := cart.IndexOf(productID)
	if idx < 0 {
		return domain.ErrItemNotInCart
	}

	items := make([]domain.CartItem, 0, len(cart.Items)-1)
	items = append(items, cart.Items[:idx]...)
	items = append(items, cart.Items[idx+1:]...)

	next := *cart
	next.Items = items
	return storeErr(s.repo.Save(ctx, &next))
}

// Checkout debits the wallet by the cart total and empties the cart.
// Both mutations commit together or not at all.
func (s *Service) Checkout(ctx context.Context, user domain.User) error {
	unlock := s.locks.Lock(lockKey(user))
	defer unlock()

	err := s.checkout(ctx, user)
	outcome := "settled"
	if err != nil {
		outcome = checkoutOutcome(err)
		s.logger.Printf("cart: checkout email=%s outcome=%s err=%v", user.Email, outcome, err)
	} else {
		s.logger.Printf("cart: checkout email=%s outcome=%s", user.Email, outcome)
	}
	s.onCheckout(outcome)
	return err
}

func (s *Service) checkout(ctx context.Context, user domain.User) error {
	cart, err := s.repo.GetByEmail(ctx, user.Email)
	if err != nil {
		return storeErr(err)
	}

	total, err := cart.Total()
	if err != nil {
		return err
	}
	// A cart whose items are all free is treated as empty.
	if total <= 0 {
		return domain.ErrEmptyCart
	}

	// Re-read the user so the balance check sees committed state.
	current, err := s.userRepo.GetByEmail(ctx, user.Email)
	if err != nil {
		return storeErr(err)
	}
	if !current.HasSetNonDefaultAddress() {
		return domain.ErrAddressNotSet
	}
	if current.WalletMoney < total {
		return domain.ErrInsufficientBalance
	}

	return storeErr(s.repo.Settle(ctx, domain.Settlement{
		UserID:      current.ID,
		CartID:      cart.ID,
		CartVersion: cart.Version,
		Amount:      total,
	}))
}

func (s *Service) existingCart(ctx context.Context, user domain.User) (*domain.Cart, error) {
	cart, err := s.repo.GetByEmail(ctx, user.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoCart
		}
		return nil, storeErr(err)
	}
	return cart, nil
}

func (s *Service) lookupProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if productID == "" {
		return nil, domain.ErrInvalidProduct
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidProduct
		}
		return nil, storeErr(err)
	}
	return product, nil
}

// canonicalID lower-cases uuid ids the way Postgres renders them.
func canonicalID(id string) string {
	id = strings.TrimSpace(id)
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return id
}

func lockKey(user domain.User) string {
	return strings.ToLower(strings.TrimSpace(user.Email))
}

// storeErr passes domain errors through and marks everything else as a store failure.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		domain.ErrNotFound,
		domain.ErrConflict,
		domain.ErrDuplicateItem,
		domain.ErrInsufficientBalance,
		domain.ErrStoreUnavailable,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

func checkoutOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "no_cart"
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domain.ErrAddressNotSet):
		return "address_not_set"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
