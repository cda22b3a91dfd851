package remote

import (
	"context"
	"fmt"

	"github.com/optivue/cart-service-go/internal/cart"
)

// Session binds the store to one authenticated user and exposes the cart
// backend operations. Remove and SetQuantity resolve the target row id by
// matching (productID, variantID) against the currently persisted rows; when
// nothing matches the operation is silently skipped.
type Session struct {
	store  *Store
	userID string
}

func (s *Store) Session(userID string) *Session {
	return &Session{store: s, userID: userID}
}

func (s *Session) Items(ctx context.Context) ([]cart.Item, error) {
	return s.store.Items(ctx, s.userID)
}

func (s *Session) Add(ctx context.Context, productID, variantID string, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	// cart_items has no FK to products; resolve the product first so an
	// unknown id is rejected here instead of persisting an unresolvable row.
	if _, err := s.store.catalog.Get(ctx, productID); err != nil {
		return fmt.Errorf("resolve product %s: %w", productID, err)
	}
	return s.store.Upsert(ctx, s.userID, productID, variantID, quantity)
}

func (s *Session) Remove(ctx context.Context, productID, variantID string) error {
	row, ok, err := s.resolve(ctx, cart.Key{ProductID: productID, VariantID: variantID})
	if err != nil || !ok {
		return err
	}
	return s.store.Delete(ctx, s.userID, row.ID)
}

func (s *Session) SetQuantity(ctx context.Context, productID, variantID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, productID, variantID)
	}

	row, ok, err := s.resolve(ctx, cart.Key{ProductID: productID, VariantID: variantID})
	if err != nil || !ok {
		return err
	}
	return s.store.SetQuantity(ctx, s.userID, row.ID, quantity)
}

func (s *Session) Clear(ctx context.Context) error {
	return s.store.Clear(ctx, s.userID)
}

func (s *Session) resolve(ctx context.Context, key cart.Key) (Row, bool, error) {
	rws, err := s.store.Rows(ctx, s.userID)
	if err != nil {
		return Row{}, false, err
	}
	for _, r := range rws {
		if r.Key() == key {
			return r, true, nil
		}
	}
	return Row{}, false, nil
}
