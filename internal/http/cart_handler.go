package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/optivue/cart-service-go/internal/cart"
	"github.com/optivue/cart-service-go/internal/catalog"
	"github.com/optivue/cart-service-go/internal/engine"
	"github.com/optivue/cart-service-go/internal/events"
	"github.com/optivue/cart-service-go/internal/middleware"
)

// CartSession is what one request needs from the engine; *engine.Session
// satisfies it.
type CartSession interface {
	View(ctx context.Context) (engine.View, error)
	Add(ctx context.Context, productID, variantID string, quantity int) error
	Remove(ctx context.Context, productID, variantID string) error
	SetQuantity(ctx context.Context, productID, variantID string, quantity int) error
	Clear(ctx context.Context) error
}

// SessionFactory binds an identity to a cart session.
type SessionFactory func(engine.Identity) CartSession

type CartEventsPublisher interface {
	PublishCartCheckedOut(ctx context.Context, ownerID string, items []cart.Item, metadata events.PublishMetadata) error
}

type CartHandler struct {
	sessions  SessionFactory
	publisher CartEventsPublisher
}

func NewCartHandler(sessions SessionFactory, publisher CartEventsPublisher) *CartHandler {
	return &CartHandler{sessions: sessions, publisher: publisher}
}

func (h *CartHandler) session(r *http.Request) CartSession {
	return h.sessions(middleware.GetIdentity(r.Context()))
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	view, err := h.session(r).View(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID string `json:"productId"`
		VariantID string `json:"variantId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	session := h.session(r)
	if err := session.Add(ctx, body.ProductID, body.VariantID, body.Quantity); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown product")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}

	// Refetch rather than patch: the backend owns the post-mutation state.
	h.respondWithView(ctx, w, session)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID string `json:"productId"`
		VariantID string `json:"variantId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	session := h.session(r)
	if err := session.SetQuantity(ctx, body.ProductID, body.VariantID, body.Quantity); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update quantity")
		return
	}

	h.respondWithView(ctx, w, session)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}
	variantID := r.URL.Query().Get("variantId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	session := h.session(r)
	if err := session.Remove(ctx, productID, variantID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove item")
		return
	}

	h.respondWithView(ctx, w, session)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.session(r).Clear(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cart cleared"})
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	session := h.session(r)
	view, err := session.View(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	if len(view.Items) == 0 {
		writeError(w, http.StatusNotFound, "cart is empty")
		return
	}

	metadata := events.PublishMetadata{
		CorrelationID: middleware.GetCorrelationID(r.Context()),
		CausationID:   r.Header.Get("X-Causation-Id"),
	}

	owner := middleware.GetIdentity(r.Context()).Owner()
	if err := h.publisher.PublishCartCheckedOut(ctx, owner, view.Items, metadata); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to publish cart checked out event")
		return
	}

	if err := session.Clear(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "checkout completed"})
}

func (h *CartHandler) respondWithView(ctx context.Context, w http.ResponseWriter, session CartSession) {
	view, err := session.View(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
