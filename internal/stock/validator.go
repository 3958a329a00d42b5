package stock

import (
	"context"
	"fmt"

	"github.com/rohanbasnet/shopcore/internal/catalog"
)

// ItemRequest is one cart entry to check stock for.
type ItemRequest struct {
	ProductID string
	Selector  catalog.VariantSelector
	Quantity  int
}

// Validator pre-flights a set of item requests against current stock. It is
// advisory: it reads stock but reserves nothing, so the Ledger's conditional
// write remains the authority at deduction time.
type Validator struct {
	products ProductStore
}

// NewValidator returns a Validator backed by the given product store.
func NewValidator(products ProductStore) *Validator {
	return &Validator{products: products}
}

// Validate checks every request and collects one problem string per
// violation. It never stops at the first failure; a cart with N bad entries
// yields N problems. ok is true only when problems is empty. The error
// return is reserved for store failures, not stock shortfalls.
func (v *Validator) Validate(ctx context.Context, reqs []ItemRequest) (ok bool, problems []string, err error) {
	for _, req := range reqs {
		p, err := v.products.Get(ctx, req.ProductID)
		if err != nil {
			return false, nil, err
		}
		if p == nil {
			problems = append(problems, fmt.Sprintf("product %s not found", req.ProductID))
			continue
		}
		idx, resolved := p.ResolveVariant(req.Selector)
		if !resolved {
			problems = append(problems, fmt.Sprintf("product %q has no variants", p.Title))
			continue
		}
		variant := p.Variants[idx]
		if variant.Stock < req.Quantity {
			problems = append(problems, fmt.Sprintf(
				"insufficient stock for %q (%s: %s): requested %d, available %d",
				p.Title, variant.Name, variant.Value, req.Quantity, variant.Stock))
		}
	}
	return len(problems) == 0, problems, nil
}
