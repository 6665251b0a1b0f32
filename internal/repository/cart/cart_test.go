package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"qkart/internal/domain"
	"qkart/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_CreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	prepare(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	first, err := repo.Create(ctx, "Buyer@Example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := repo.Create(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("Create again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected a single cart, got %s and %s", first.ID, second.ID)
	}
	if len(second.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", second.Items)
	}

	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostgres_SaveRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	prepare(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "Mug", 10)
	repo := NewPostgres(pool, nil)

	cart, err := repo.Create(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stale := *cart

	cart.Items = append(cart.Items, domain.CartItem{ProductID: productID, Quantity: 2})
	if err := repo.Save(ctx, cart); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if cart.Version != stale.Version+1 {
		t.Fatalf("expected version bump, got %d", cart.Version)
	}

	stale.Items = nil
	if err := repo.Save(ctx, &stale); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	fetched, err := repo.GetByEmail(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if len(fetched.Items) != 1 || fetched.Items[0].Quantity != 2 || fetched.Items[0].Product.Cost != 10 {
		t.Fatalf("unexpected items %+v", fetched.Items)
	}
}

func TestPostgres_SettleIsAtomic(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	prepare(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "Mug", 10)
	var userID string
	if err := pool.QueryRow(ctx, `
INSERT INTO users (name, email, password_hash, wallet_money, address)
VALUES ('buyer', 'buyer@example.com', 'x', 15, '221B Baker Street, London')
RETURNING id::text`).Scan(&userID); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	repo := NewPostgres(pool, nil)
	cart, err := repo.Create(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cart.Items = []domain.CartItem{{ProductID: productID, Quantity: 2}}
	if err := repo.Save(ctx, cart); err != nil {
		t.Fatalf("Save: %v", err)
	}

	err = repo.Settle(ctx, domain.Settlement{UserID: userID, CartID: cart.ID, CartVersion: cart.Version, Amount: 20})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	err = repo.Settle(ctx, domain.Settlement{UserID: userID, CartID: cart.ID, CartVersion: cart.Version + 5, Amount: 10})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	var wallet int64
	if err := pool.QueryRow(ctx, `SELECT wallet_money FROM users WHERE id = $1`, userID).Scan(&wallet); err != nil {
		t.Fatalf("read wallet: %v", err)
	}
	if wallet != 15 {
		t.Fatalf("expected rolled back wallet 15, got %d", wallet)
	}

	if err := repo.Settle(ctx, domain.Settlement{UserID: userID, CartID: cart.ID, CartVersion: cart.Version, Amount: 10}); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	fetched, err := repo.GetByEmail(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if len(fetched.Items) != 0 {
		t.Fatalf("expected cleared cart, got %+v", fetched.Items)
	}
}

func prepare(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE cart_items, carts, products, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string, cost int64) string {
	t.Helper()
	var id string
	if err := pool.QueryRow(ctx, `INSERT INTO products (name, cost) VALUES ($1, $2) RETURNING id::text`, name, cost).Scan(&id); err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}
