package cart

import (
	"context"
	"strings"
	"sync"

	"qkart/internal/domain"

	"github.com/google/uuid"
)

// memoryStore backs carts, products and users for engine tests.
type memoryStore struct {
	mu       sync.Mutex
	carts    map[string]domain.Cart
	products map[string]domain.Product
	users    map[string]domain.User

	getErr    error
	saveErr   error
	settleErr error
	saves     int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		carts:    make(map[string]domain.Cart),
		products: make(map[string]domain.Product),
		users:    make(map[string]domain.User),
	}
}

func (m *memoryStore) addProduct(name string, cost int64) domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := domain.Product{ID: uuid.NewString(), Name: name, Cost: cost}
	m.products[p.ID] = p
	return p
}

func (m *memoryStore) addUser(email string, wallet int64, address string) domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := domain.User{ID: uuid.NewString(), Email: email, WalletMoney: wallet, Address: address}
	m.users[email] = u
	return u
}

func (m *memoryStore) user(email string) domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[email]
}

func (m *memoryStore) cart(email string) (domain.Cart, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[email]
	return cloneCart(c), ok
}

func (m *memoryStore) GetByEmail(_ context.Context, email string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.carts[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := m.populate(cloneCart(c))
	return &out, nil
}

func (m *memoryStore) Create(_ context.Context, email string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(email)
	c, ok := m.carts[key]
	if !ok {
		c = domain.Cart{ID: uuid.NewString(), Email: key, Items: []domain.CartItem{}}
		m.carts[key] = c
	}
	out := m.populate(cloneCart(c))
	return &out, nil
}

func (m *memoryStore) Save(_ context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	current, ok := m.carts[cart.Email]
	if !ok || current.Version != cart.Version {
		return domain.ErrConflict
	}
	seen := make(map[string]bool, len(cart.Items))
	for _, item := range cart.Items {
		if seen[item.ProductID] {
			return domain.ErrDuplicateItem
		}
		seen[item.ProductID] = true
	}
	next := cloneCart(*cart)
	next.Version++
	m.carts[cart.Email] = next
	m.saves++
	cart.Version = next.Version
	return nil
}

func (m *memoryStore) Settle(_ context.Context, s domain.Settlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settleErr != nil {
		return m.settleErr
	}
	var (
		email string
		user  domain.User
	)
	for e, u := range m.users {
		if u.ID == s.UserID {
			email, user = e, u
		}
	}
	if user.WalletMoney < s.Amount {
		return domain.ErrInsufficientBalance
	}
	cart, ok := m.carts[email]
	if !ok || cart.ID != s.CartID || cart.Version != s.CartVersion {
		return domain.ErrConflict
	}
	user.WalletMoney -= s.Amount
	cart.Items = []domain.CartItem{}
	cart.Version++
	m.users[email] = user
	m.carts[email] = cart
	return nil
}

// productCatalog and userLookup expose the store through the engine's other ports.
type productCatalog struct{ *memoryStore }

func (p productCatalog) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	product, ok := p.products[strings.ToLower(id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &product, nil
}

type userLookup struct{ *memoryStore }

func (u userLookup) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (m *memoryStore) populate(c domain.Cart) domain.Cart {
	for i, item := range c.Items {
		c.Items[i].Product = m.products[item.ProductID]
	}
	return c
}

func cloneCart(c domain.Cart) domain.Cart {
	items := make([]domain.CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

func newTestService(store *memoryStore, opts ...Option) *Service {
	return New(store, productCatalog{store}, userLookup{store}, opts...)
}
