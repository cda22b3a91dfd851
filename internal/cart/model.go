package cart

// All prices are integer minor units (cents).

// Variant is a denormalized snapshot of a product variant. For guest carts it
// is frozen at the moment the item is added; for server-synced carts it is
// rebuilt from the live catalog on every read.
type Variant struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Price      *int64            `json:"price,omitempty"`
	SalePrice  *int64            `json:"salePrice,omitempty"`
	InStock    bool              `json:"inStock"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Product is a denormalized snapshot of catalog data carried by a cart line
// for display and pricing. It is not the source of truth for stock.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Images    []string  `json:"images,omitempty"`
	Price     int64     `json:"price"`
	SalePrice *int64    `json:"salePrice,omitempty"`
	InStock   bool      `json:"inStock"`
	Variants  []Variant `json:"variants,omitempty"`
}

// FindVariant returns the variant snapshot with the given id, or nil. An
// empty id always resolves to nil: "no variant" is a valid key value.
func (p Product) FindVariant(variantID string) *Variant {
	if variantID == "" {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			v := p.Variants[i]
			return &v
		}
	}
	return nil
}

// Key identifies a cart line. VariantID may be empty, and an empty VariantID
// is a distinct key value, never merged with any concrete variant.
type Key struct {
	ProductID string
	VariantID string
}

// Item is one line in a cart. Quantity is always >= 1; a line that would drop
// to zero or below is removed instead.
type Item struct {
	ProductID string   `json:"productId"`
	VariantID string   `json:"variantId,omitempty"`
	Quantity  int      `json:"quantity"`
	Product   Product  `json:"product"`
	Variant   *Variant `json:"variant,omitempty"`
}

func (it Item) Key() Key {
	return Key{ProductID: it.ProductID, VariantID: it.VariantID}
}

// UnitPrice resolves the effective unit price for one unit of the line:
// variant sale price, then variant price, then product sale price, then
// product price. First value present wins.
func (it Item) UnitPrice() int64 {
	if it.Variant != nil {
		if it.Variant.SalePrice != nil {
			return *it.Variant.SalePrice
		}
		if it.Variant.Price != nil {
			return *it.Variant.Price
		}
	}
	if it.Product.SalePrice != nil {
		return *it.Product.SalePrice
	}
	return it.Product.Price
}

// TotalItems is the sum of quantities across all lines.
func TotalItems(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

// TotalPrice is the sum of effective unit price times quantity across all
// lines.
func TotalPrice(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += it.UnitPrice() * int64(it.Quantity)
	}
	return total
}
