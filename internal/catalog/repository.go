package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/optivue/cart-service-go/internal/cart"
)

var ErrNotFound = errors.New("product not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository reads live product data. The cart's server-synced mode joins
// against this on every fetch, so prices and stock flags reflect the catalog
// as it is now, not as it was when the item was added.
type Repository interface {
	Get(ctx context.Context, productID string) (cart.Product, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Get(ctx context.Context, productID string) (cart.Product, error) {
	var p cart.Product
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, price, sale_price, in_stock
		FROM products
		WHERE id = $1
	`, productID)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.SalePrice, &p.InStock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cart.Product{}, ErrNotFound
		}
		return cart.Product{}, fmt.Errorf("load product %s: %w", productID, err)
	}

	images, err := r.images(ctx, productID)
	if err != nil {
		return cart.Product{}, err
	}
	p.Images = images

	variants, err := r.variants(ctx, productID)
	if err != nil {
		return cart.Product{}, err
	}
	p.Variants = variants

	return p, nil
}

func (r *PostgresRepository) images(ctx context.Context, productID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT url
		FROM product_images
		WHERE product_id = $1
		ORDER BY position
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("load images for %s: %w", productID, err)
	}
	defer rows.Close()

	var images []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		images = append(images, url)
	}
	return images, rows.Err()
}

func (r *PostgresRepository) variants(ctx context.Context, productID string) ([]cart.Variant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price, sale_price, in_stock, attributes
		FROM product_variants
		WHERE product_id = $1
		ORDER BY id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("load variants for %s: %w", productID, err)
	}
	defer rows.Close()

	var variants []cart.Variant
	for rows.Next() {
		var v cart.Variant
		var attrs []byte
		if err := rows.Scan(&v.ID, &v.Name, &v.Price, &v.SalePrice, &v.InStock, &attrs); err != nil {
			return nil, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &v.Attributes); err != nil {
				return nil, fmt.Errorf("decode attributes for variant %s: %w", v.ID, err)
			}
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
