package guest

import (
	"context"

	"github.com/optivue/cart-service-go/internal/cart"
)

// Session binds the store to one cart token.
type Session struct {
	store *Store
	token string
}

func (s *Store) Session(token string) *Session {
	return &Session{store: s, token: token}
}

func (s *Session) Items(ctx context.Context) ([]cart.Item, error) {
	return s.store.Items(ctx, s.token)
}

func (s *Session) Add(ctx context.Context, productID, variantID string, quantity int) error {
	return s.store.Add(ctx, s.token, productID, variantID, quantity)
}

func (s *Session) Remove(ctx context.Context, productID, variantID string) error {
	return s.store.Remove(ctx, s.token, productID, variantID)
}

func (s *Session) SetQuantity(ctx context.Context, productID, variantID string, quantity int) error {
	return s.store.SetQuantity(ctx, s.token, productID, variantID, quantity)
}

func (s *Session) Clear(ctx context.Context) error {
	return s.store.Clear(ctx, s.token)
}
