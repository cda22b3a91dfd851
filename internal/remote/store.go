package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/optivue/cart-service-go/internal/cart"
	"github.com/optivue/cart-service-go/internal/catalog"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Row is one persisted cart line for an authenticated user. Unlike guest
// lines it carries no frozen snapshot; the store rebuilds Item from the live
// catalog on every read.
type Row struct {
	ID        string
	ProductID string
	VariantID string
	Quantity  int
	CreatedAt time.Time
}

func (r Row) Key() cart.Key {
	return cart.Key{ProductID: r.ProductID, VariantID: r.VariantID}
}

// Store persists authenticated carts as per-user rows. The backend enforces
// the (user, product, variant) uniqueness invariant: adding an existing key
// increments the server-side quantity instead of inserting a second row.
// Concurrent writers resolve last-write-wins at the row level.
type Store struct {
	pool    DBPool
	catalog catalog.Repository
}

func NewStore(pool DBPool, cat catalog.Repository) *Store {
	return &Store{pool: pool, catalog: cat}
}

// Rows lists the raw cart rows for a user ordered by insertion time. Used by
// callers that need row ids to target updates and deletes.
func (s *Store) Rows(ctx context.Context, userID string) ([]Row, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, variant_id, quantity, created_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.ProductID, &r.VariantID, &r.Quantity, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Items materializes the user's cart, joining each row with the current
// product from the catalog. Prices and stock flags are therefore live values,
// not add-time snapshots; this is the deliberate difference from guest carts.
// A row whose product has vanished from the catalog is skipped rather than
// failing the whole fetch: one retired product must not make the cart
// unreadable.
func (s *Store) Items(ctx context.Context, userID string) ([]cart.Item, error) {
	rws, err := s.Rows(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]cart.Item, 0, len(rws))
	for _, r := range rws {
		product, err := s.catalog.Get(ctx, r.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("join product %s: %w", r.ProductID, err)
		}
		items = append(items, cart.Item{
			ProductID: r.ProductID,
			VariantID: r.VariantID,
			Quantity:  r.Quantity,
			Product:   product,
			Variant:   product.FindVariant(r.VariantID),
		})
	}
	return items, nil
}

// Upsert adds quantity to the (user, product, variant) row, creating it when
// absent. variant_id is stored as '' for "no variant" so the unique
// constraint treats absence as a key value of its own.
func (s *Store) Upsert(ctx context.Context, userID, productID, variantID string, quantity int) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, variant_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id, variant_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`, userID, productID, variantID, quantity)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

// SetQuantity replaces the quantity on one row, scoped to the owning user.
func (s *Store) SetQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE cart_items
		SET quantity = $3
		WHERE user_id = $1 AND id = $2
	`, userID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("update cart item quantity: %w", err)
	}
	return nil
}

// Delete removes one row, scoped to the owning user.
func (s *Store) Delete(ctx context.Context, userID, itemID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM cart_items
		WHERE user_id = $1 AND id = $2
	`, userID, itemID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

// Clear removes every row for the user.
func (s *Store) Clear(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
