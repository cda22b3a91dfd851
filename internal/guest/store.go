package guest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/optivue/cart-service-go/internal/cart"
	"github.com/optivue/cart-service-go/internal/catalog"
)

// Store serves guest carts: anonymous visitors identified by an opaque cart
// token. Items carry product snapshots frozen at the moment they were added;
// a later catalog change does not reprice lines already in the cart. Every
// mutation runs the pure reducer and writes the whole document back.
type Store struct {
	blobs   BlobStore
	catalog catalog.Repository
}

func NewStore(blobs BlobStore, cat catalog.Repository) *Store {
	return &Store{blobs: blobs, catalog: cat}
}

// Items hydrates the cart for a token. A missing or malformed blob is "no
// cart", never an error: a format change must degrade to an empty cart
// rather than a crash.
func (s *Store) Items(ctx context.Context, token string) ([]cart.Item, error) {
	blob, err := s.blobs.Read(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("read guest cart: %w", err)
	}
	if len(blob) == 0 {
		return []cart.Item{}, nil
	}

	var items []cart.Item
	if err := json.Unmarshal(blob, &items); err != nil {
		return []cart.Item{}, nil
	}
	return cart.Load(items), nil
}

func (s *Store) Add(ctx context.Context, token, productID, variantID string, quantity int) error {
	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return fmt.Errorf("snapshot product: %w", err)
	}

	items, err := s.Items(ctx, token)
	if err != nil {
		return err
	}
	return s.save(ctx, token, cart.Add(items, product, quantity, variantID))
}

func (s *Store) Remove(ctx context.Context, token, productID, variantID string) error {
	items, err := s.Items(ctx, token)
	if err != nil {
		return err
	}
	return s.save(ctx, token, cart.Remove(items, cart.Key{ProductID: productID, VariantID: variantID}))
}

func (s *Store) SetQuantity(ctx context.Context, token, productID, variantID string, quantity int) error {
	items, err := s.Items(ctx, token)
	if err != nil {
		return err
	}
	return s.save(ctx, token, cart.SetQuantity(items, cart.Key{ProductID: productID, VariantID: variantID}, quantity))
}

func (s *Store) Clear(ctx context.Context, token string) error {
	if err := s.blobs.Delete(ctx, token); err != nil {
		return fmt.Errorf("clear guest cart: %w", err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, token string, items []cart.Item) error {
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode guest cart: %w", err)
	}
	if err := s.blobs.Write(ctx, token, blob); err != nil {
		return fmt.Errorf("persist guest cart: %w", err)
	}
	return nil
}
