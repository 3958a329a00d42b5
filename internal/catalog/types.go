package catalog

import "time"

// Variant is one priced, stocked option of a Product (e.g. Size / Large).
type Variant struct {
	Name  string  `dynamodbav:"name" json:"name"`
	Value string  `dynamodbav:"value" json:"value"`
	Price float64 `dynamodbav:"price" json:"price"`
	Stock int     `dynamodbav:"stock" json:"stock"`
}

// Product is a catalog entry with an ordered list of variants.
// InStock is derived: true iff at least one variant has stock > 0. It is
// recomputed on every stock mutation, never maintained independently.
// Version is a monotonic counter used for optimistic concurrency; every
// successful Save increments it.
type Product struct {
	ProductID   string    `dynamodbav:"product_id" json:"product_id"`
	Title       string    `dynamodbav:"title" json:"title"`
	Description string    `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Category    string    `dynamodbav:"category" json:"category"`
	Variants    []Variant `dynamodbav:"variants" json:"variants"`
	InStock     bool      `dynamodbav:"in_stock" json:"in_stock"`
	Version     int64     `dynamodbav:"version" json:"-"`
	CreatedAt   time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt   time.Time `dynamodbav:"updated_at" json:"updated_at"`
}

// VariantSelector identifies a variant of a product. Any field may be left
// empty; resolution tries each populated field in order and falls back to
// the product's first variant:
//
//  1. exact match on Value
//  2. exact match on Name
//  3. exact match on Price
//  4. first variant in catalog order
//
// Resolution only fails when the product has no variants at all.
type VariantSelector struct {
	Value string   `json:"value,omitempty"`
	Name  string   `json:"name,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

// ResolveVariant returns the index of the variant selected by sel, applying
// the documented precedence. ok is false only for products with zero variants.
func (p *Product) ResolveVariant(sel VariantSelector) (idx int, ok bool) {
	if len(p.Variants) == 0 {
		return 0, false
	}
	if sel.Value != "" {
		for i, v := range p.Variants {
			if v.Value == sel.Value {
				return i, true
			}
		}
	}
	if sel.Name != "" {
		for i, v := range p.Variants {
			if v.Name == sel.Name {
				return i, true
			}
		}
	}
	if sel.Price != nil {
		for i, v := range p.Variants {
			if v.Price == *sel.Price {
				return i, true
			}
		}
	}
	return 0, true
}

// StockSum returns the total stock across all variants.
func (p *Product) StockSum() int {
	sum := 0
	for _, v := range p.Variants {
		sum += v.Stock
	}
	return sum
}

// RecomputeAvailability re-derives the in-stock flag from the variant stocks.
func (p *Product) RecomputeAvailability() {
	p.InStock = p.StockSum() > 0
}
