package integration

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

type seedVariant struct {
	ID        string
	Name      string
	Price     *int64
	SalePrice *int64
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, id string, price int64, salePrice *int64, variants ...seedVariant) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `
		INSERT INTO products (id, name, price, sale_price, in_stock)
		VALUES ($1, $2, $3, $4, TRUE)
	`, id, "Product "+id, price, salePrice)
	require.NoError(t, err)

	for _, v := range variants {
		_, err := pool.Exec(ctx, `
			INSERT INTO product_variants (id, product_id, name, price, sale_price, in_stock, attributes)
			VALUES ($1, $2, $3, $4, $5, TRUE, '{}'::jsonb)
		`, v.ID, id, v.Name, v.Price, v.SalePrice)
		require.NoError(t, err)
	}
}

func setProductPrice(t *testing.T, pool *pgxpool.Pool, id string, price int64, salePrice *int64) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `UPDATE products SET price = $2, sale_price = $3 WHERE id = $1`, id, price, salePrice)
	require.NoError(t, err)
}

func cents(v int64) *int64 { return &v }
