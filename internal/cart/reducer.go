package cart

// Pure state transitions over an item list. Callers own persistence and
// notification side effects; nothing here touches storage. Every function
// returns a fresh slice and leaves its input untouched.

// Add merges quantity into an existing line with the same (productID,
// variantID) key, or appends a new line with snapshots frozen from the given
// product. A non-positive quantity is a no-op, matching SetQuantity's
// collapse-to-remove rule.
func Add(items []Item, product Product, quantity int, variantID string) []Item {
	if quantity <= 0 {
		return clone(items)
	}

	key := Key{ProductID: product.ID, VariantID: variantID}
	out := clone(items)
	for i := range out {
		if out[i].Key() == key {
			out[i].Quantity += quantity
			return out
		}
	}

	return append(out, Item{
		ProductID: product.ID,
		VariantID: variantID,
		Quantity:  quantity,
		Product:   product,
		Variant:   product.FindVariant(variantID),
	})
}

// Remove filters out the line matching the key. Removing an absent key is a
// silent no-op, never an error.
func Remove(items []Item, key Key) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Key() != key {
			out = append(out, it)
		}
	}
	return out
}

// SetQuantity replaces the quantity on the matching line, leaving every other
// field untouched. A quantity of zero or below removes the line. Absent key
// is a no-op.
func SetQuantity(items []Item, key Key, quantity int) []Item {
	if quantity <= 0 {
		return Remove(items, key)
	}

	out := clone(items)
	for i := range out {
		if out[i].Key() == key {
			out[i].Quantity = quantity
			break
		}
	}
	return out
}

// Clear resets to an empty list unconditionally.
func Clear([]Item) []Item {
	return []Item{}
}

// Load replaces the list wholesale during hydration from persisted storage.
// Lines with non-positive quantities are dropped so no reachable state
// violates the quantity invariant, even with a hand-edited blob.
func Load(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return out
}

func clone(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
