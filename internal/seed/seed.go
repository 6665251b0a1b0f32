package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Demo user credentials.
const (
	DemoEmail    = "crio-user@gmail.com"
	DemoPassword = "criouser123"
)

// Options selects what Apply writes.
type Options struct {
	SkipUser bool
}

// Summary reports what Apply wrote.
type Summary struct {
	Products    int
	UserCreated bool
}

type productSeed struct {
	Name     string
	Category string
	Cost     int64
	Rating   int
	Image    string
}

var products = []productSeed{
	{Name: "UNIFACTOR Mens Running Shoes", Category: "Fashion", Cost: 50, Rating: 5, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/42d4d057-8704-4174-8d74-e5e9052677c6.png"},
	{Name: "YONEX Smash Badminton Racquet", Category: "Sports", Cost: 100, Rating: 5, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/64b930f7-3c82-4a29-a433-dbc6f1493578.png"},
	{Name: "Tan Leatherette Weekender Duffle", Category: "Fashion", Cost: 150, Rating: 4, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/ff071a1c-1099-48f9-9b03-f858ccc53832.png"},
	{Name: "The Minimalist Slim Leather Watch", Category: "Electronics", Cost: 60, Rating: 5, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/5b478a4a-bf81-467c-964c-5881887799b7.png"},
}

// Apply inserts demo products and a demo user for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool, opts Options) (Summary, error) {
	var sum Summary
	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return sum, fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
		sum.Products++
	}
	if opts.SkipUser {
		return sum, nil
	}

	created, err := ensureDemoUser(ctx, pool)
	if err != nil {
		return sum, fmt.Errorf("ensure demo user: %w", err)
	}
	sum.UserCreated = created
	return sum, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, category, cost, rating, image)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (name) DO UPDATE
SET category = EXCLUDED.category,
    cost = EXCLUDED.cost,
    rating = EXCLUDED.rating,
    image = EXCLUDED.image
`
	_, err := pool.Exec(ctx, q, p.Name, p.Category, p.Cost, p.Rating, p.Image)
	return err
}

// ensureDemoUser leaves an existing demo user (and its wallet) untouched.
func ensureDemoUser(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	const q = `
INSERT INTO users (name, email, password_hash, wallet_money, address)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (lower(email)) DO NOTHING
`
	tag, err := pool.Exec(ctx, q, "crio-user", DemoEmail, string(hash), 5000, "ABC nagar, electronic city, Bangalore")
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
