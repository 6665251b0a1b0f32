package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"qkart/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Cart, error) {
	const q = `
SELECT id::text, user_email, version, created_at, updated_at
FROM carts
WHERE user_email = $1
`
	return r.fetchCart(ctx, q, normalizeEmail(email))
}

func (r *postgresRepo) Create(ctx context.Context, email string) (*domain.Cart, error) {
	// The no-op update makes RETURNING yield the existing row on conflict.
	const q = `
INSERT INTO carts (user_email)
VALUES ($1)
ON CONFLICT (user_email) DO UPDATE SET user_email = EXCLUDED.user_email
RETURNING id::text, user_email, version, created_at, updated_at
`
	cart, err := r.fetchCart(ctx, q, normalizeEmail(email))
	if err != nil {
		r.logger.Printf("cart repo: create email=%s error=%v", email, err)
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) Save(ctx context.Context, cart *domain.Cart) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	next, err := bumpVersion(ctx, tx, cart.ID, cart.Version)
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			r.logger.Printf("cart repo: save email=%s error=%v", cart.Email, err)
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
		return err
	}

	if len(cart.Items) > 0 {
		batch := &pgx.Batch{}
		for i, item := range cart.Items {
			batch.Queue(`
INSERT INTO cart_items (cart_id, product_id, quantity, position)
VALUES ($1, $2, $3, $4)
`, cart.ID, item.ProductID, item.Quantity, i)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.ErrDuplicateItem
			}
			r.logger.Printf("cart repo: save items email=%s error=%v", cart.Email, err)
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	cart.Version = next
	return nil
}

func (r *postgresRepo) Settle(ctx context.Context, s domain.Settlement) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE users
SET wallet_money = wallet_money - $2, updated_at = now()
WHERE id = $1 AND wallet_money >= $2
`, s.UserID, s.Amount)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientBalance
	}

	if _, err := bumpVersion(ctx, tx, s.CartID, s.CartVersion); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, s.CartID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Printf("cart repo: settle cart_id=%s commit error=%v", s.CartID, err)
		return err
	}
	r.logger.Printf("cart repo: settled cart_id=%s user_id=%s amount=%d", s.CartID, s.UserID, s.Amount)
	return nil
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&cart.Email,
		&cart.Version,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT ci.product_id::text, ci.quantity,
       p.id::text, p.name, p.category, p.cost, p.rating, p.image, p.created_at
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.position ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ProductID,
			&item.Quantity,
			&item.Product.ID,
			&item.Product.Name,
			&item.Product.Category,
			&item.Product.Cost,
			&item.Product.Rating,
			&item.Product.Image,
			&item.Product.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func bumpVersion(ctx context.Context, tx pgx.Tx, cartID string, expected int64) (int64, error) {
	var next int64
	err := tx.QueryRow(ctx, `
UPDATE carts
SET version = version + 1, updated_at = now()
WHERE id = $1 AND version = $2
RETURNING version
`, cartID, expected).Scan(&next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrConflict
		}
		return 0, err
	}
	return next, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
