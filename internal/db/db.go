package db

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MustOpen opens a pgx pool against the cart database and verifies it is
// reachable before the service starts serving traffic.
func MustOpen(dsn string) *pgxpool.Pool {
	if dsn == "" {
		log.Fatal("CART_DB_DSN not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping db: %v", err)
	}

	return pool
}
