package engine

import (
	"context"
	"fmt"

	"github.com/optivue/cart-service-go/internal/cart"
	"github.com/optivue/cart-service-go/internal/guest"
	"github.com/optivue/cart-service-go/internal/notify"
	"github.com/optivue/cart-service-go/internal/remote"
)

// Backend is the strategy contract both cart modes implement: guest sessions
// over the blob store and authenticated sessions over Postgres.
type Backend interface {
	Items(ctx context.Context) ([]cart.Item, error)
	Add(ctx context.Context, productID, variantID string, quantity int) error
	Remove(ctx context.Context, productID, variantID string) error
	SetQuantity(ctx context.Context, productID, variantID string, quantity int) error
	Clear(ctx context.Context) error
}

// Identity is the signal the engine consumes from the auth boundary: a user
// id when authenticated, a cart token otherwise. It takes no part in the
// authentication protocol itself.
type Identity struct {
	UserID    string
	CartToken string
}

func (id Identity) Authenticated() bool { return id.UserID != "" }

// Owner is the key the cart is stored under in the selected mode.
func (id Identity) Owner() string {
	if id.Authenticated() {
		return id.UserID
	}
	return id.CartToken
}

// View is the read model handed to callers: the authoritative item list plus
// totals recomputed on every read.
type View struct {
	Items      []cart.Item `json:"items"`
	TotalItems int         `json:"totalItems"`
	TotalPrice int64       `json:"totalPrice"`
}

// Engine presents one cart interface regardless of mode. The backend is
// selected once per session from the identity, not re-branched per call.
//
// Known limitation: signing in does not merge the guest cart into the user's
// server cart; the guest list is abandoned in favor of the (possibly empty)
// remote one. Merge-on-login is a pending product decision.
type Engine struct {
	guests   *guest.Store
	remotes  *remote.Store
	notifier notify.Notifier
}

func New(guests *guest.Store, remotes *remote.Store, notifier notify.Notifier) *Engine {
	return &Engine{guests: guests, remotes: remotes, notifier: notifier}
}

// Session selects the backend for an identity and binds the notification
// recipient to it.
func (e *Engine) Session(id Identity) *Session {
	var backend Backend
	if id.Authenticated() {
		backend = e.remotes.Session(id.UserID)
	} else {
		backend = e.guests.Session(id.CartToken)
	}
	return &Session{backend: backend, notifier: e.notifier, owner: id.Owner()}
}

// Session wraps a backend with the notification side channel. Mutations never
// patch state optimistically: a failure leaves the prior state untouched,
// emits the destructive notification, and returns the error to the caller.
type Session struct {
	backend  Backend
	notifier notify.Notifier
	owner    string
}

// View fetches the authoritative item list and recomputes totals.
func (s *Session) View(ctx context.Context) (View, error) {
	items, err := s.backend.Items(ctx)
	if err != nil {
		return View{}, fmt.Errorf("fetch cart: %w", err)
	}
	return View{
		Items:      items,
		TotalItems: cart.TotalItems(items),
		TotalPrice: cart.TotalPrice(items),
	}, nil
}

func (s *Session) Add(ctx context.Context, productID, variantID string, quantity int) error {
	err := s.backend.Add(ctx, productID, variantID, quantity)
	s.emit(ctx, err, "Added to cart", "The item is in your cart.", "Could not add to cart")
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

func (s *Session) Remove(ctx context.Context, productID, variantID string) error {
	err := s.backend.Remove(ctx, productID, variantID)
	s.emit(ctx, err, "Removed from cart", "The item was removed from your cart.", "Could not remove item")
	if err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

func (s *Session) SetQuantity(ctx context.Context, productID, variantID string, quantity int) error {
	err := s.backend.SetQuantity(ctx, productID, variantID, quantity)
	s.emit(ctx, err, "Cart updated", "The quantity was updated.", "Could not update quantity")
	if err != nil {
		return fmt.Errorf("update quantity: %w", err)
	}
	return nil
}

func (s *Session) Clear(ctx context.Context) error {
	err := s.backend.Clear(ctx)
	s.emit(ctx, err, "Cart cleared", "All items were removed.", "Could not clear cart")
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// emit sends exactly one notification per mutation: the confirmation on
// success or the destructive variant on failure, never both.
func (s *Session) emit(ctx context.Context, err error, title, description, failTitle string) {
	if err != nil {
		s.notifier.Notify(ctx, notify.Notification{
			Recipient:   s.owner,
			Title:       failTitle,
			Description: "Something went wrong. Please try again.",
			Destructive: true,
		})
		return
	}
	s.notifier.Notify(ctx, notify.Notification{
		Recipient:   s.owner,
		Title:       title,
		Description: description,
	})
}
