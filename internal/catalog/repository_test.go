package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
)

func TestGet(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	defer mock.Close()

	salePrice := int64(1999)
	variantPrice := int64(3199)

	mock.ExpectQuery(`SELECT id, name, price, sale_price, in_stock\s+FROM products`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price", "sale_price", "in_stock"}).
			AddRow("p1", "Aviator Remix", int64(2999), &salePrice, true))
	mock.ExpectQuery(`SELECT url\s+FROM product_images`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"url"}).
			AddRow("https://cdn.optivue.example/p1-front.jpg").
			AddRow("https://cdn.optivue.example/p1-side.jpg"))
	mock.ExpectQuery(`SELECT id, name, price, sale_price, in_stock, attributes\s+FROM product_variants`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price", "sale_price", "in_stock", "attributes"}).
			AddRow("v1", "Onyx", &variantPrice, (*int64)(nil), true, []byte(`{"color":"onyx"}`)))

	repo := NewPostgresRepository(mock)
	p, err := repo.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ID != "p1" || p.Price != 2999 {
		t.Fatalf("unexpected product %+v", p)
	}
	if p.SalePrice == nil || *p.SalePrice != 1999 {
		t.Fatalf("expected sale price 1999, got %v", p.SalePrice)
	}
	if len(p.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(p.Images))
	}
	if len(p.Variants) != 1 || p.Variants[0].Attributes["color"] != "onyx" {
		t.Fatalf("unexpected variants %+v", p.Variants)
	}
	if p.Variants[0].Price == nil || *p.Variants[0].Price != 3199 {
		t.Fatalf("unexpected variant price %v", p.Variants[0].Price)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name, price, sale_price, in_stock\s+FROM products`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price", "sale_price", "in_stock"}))

	repo := NewPostgresRepository(mock)
	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
