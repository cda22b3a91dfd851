package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/optivue/cart-service-go/internal/catalog"
	"github.com/optivue/cart-service-go/internal/config"
	"github.com/optivue/cart-service-go/internal/db"
	"github.com/optivue/cart-service-go/internal/engine"
	"github.com/optivue/cart-service-go/internal/events"
	"github.com/optivue/cart-service-go/internal/guest"
	httpserver "github.com/optivue/cart-service-go/internal/http"
	"github.com/optivue/cart-service-go/internal/notify"
	"github.com/optivue/cart-service-go/internal/remote"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[cart-service] ", log.LstdFlags|log.Lshortfile)

	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	pool := db.MustOpen(cfg.DatabaseDSN)
	defer pool.Close()

	catalogRepo := catalog.NewPostgresRepository(pool)

	blobs := newBlobStore(cfg, logger)
	guestStore := guest.NewStore(blobs, catalogRepo)
	remoteStore := remote.NewStore(pool, catalogRepo)

	rabbitConn := events.MustDialRabbit(cfg.RabbitURL)
	defer rabbitConn.Close()

	sequenceRepo := events.NewSequenceRepository(pool)
	cartPublisher, err := events.NewRabbitCartEventsPublisher(rabbitConn, sequenceRepo)
	if err != nil {
		logger.Fatalf("failed to create cart publisher: %v", err)
	}

	rabbitNotifier, err := events.NewRabbitNotifier(rabbitConn, logger)
	if err != nil {
		logger.Fatalf("failed to create notifier: %v", err)
	}
	notifier := notify.Multi{notify.NewLogNotifier(logger), rabbitNotifier}

	eng := engine.New(guestStore, remoteStore, notifier)

	sessions := func(id engine.Identity) httpserver.CartSession {
		return eng.Session(id)
	}
	mux := httpserver.NewRouter(sessions, cartPublisher, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("cart-service listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if err := cartPublisher.Close(); err != nil {
		logger.Printf("publisher close error: %v", err)
	}
	if err := rabbitNotifier.Close(); err != nil {
		logger.Printf("notifier close error: %v", err)
	}
}

func newBlobStore(cfg config.Config, logger *log.Logger) guest.BlobStore {
	switch cfg.GuestStore {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return guest.NewRedisStore(client)
	case "file":
		store, err := guest.NewFileStore(cfg.GuestDataDir)
		if err != nil {
			logger.Fatalf("create guest cart store: %v", err)
		}
		return store
	default:
		logger.Fatalf("unknown GUEST_CART_STORE %q (want file or redis)", cfg.GuestStore)
		return nil
	}
}
