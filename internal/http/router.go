package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/optivue/cart-service-go/internal/middleware"
)

func NewRouter(sessions SessionFactory, publisher CartEventsPublisher, logger *log.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover(logger))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Identity)

	r.Get("/health", healthHandler)

	cartHandler := NewCartHandler(sessions, publisher)

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)
		r.Post("/items", cartHandler.AddItem)
		r.Patch("/items", cartHandler.UpdateQuantity)
		r.Delete("/items", cartHandler.RemoveItem)
		r.Post("/checkout", cartHandler.Checkout)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "service": "cart-service"}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
