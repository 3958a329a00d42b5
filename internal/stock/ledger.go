// Package stock owns authoritative variant stock counts: the Ledger mutates
// them, the Validator pre-flights carts against them.
package stock

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rohanbasnet/shopcore/internal/catalog"
)

// ProductStore is the slice of the catalog store the ledger needs.
type ProductStore interface {
	Get(ctx context.Context, productID string) (*catalog.Product, error)
	Save(ctx context.Context, p *catalog.Product) error
}

// maxWriteAttempts bounds the optimistic-write retry loop. Conflicts are
// rare (two orders racing on the same product), so a small bound suffices.
const maxWriteAttempts = 5

// ErrNoVariants indicates the product has no variants to resolve against.
var ErrNoVariants = errors.New("product has no variants")

// Ledger performs atomic stock adjustments on product variants. Every
// adjustment is a read-modify-write guarded by the product's version, so two
// concurrent adjustments to the same product serialize instead of losing an
// update. Deductions clamp at zero; a deduction larger than the available
// stock empties the variant rather than failing.
type Ledger struct {
	products ProductStore
	logger   *zap.Logger
}

// NewLedger returns a Ledger backed by the given product store.
func NewLedger(products ProductStore, logger *zap.Logger) *Ledger {
	return &Ledger{products: products, logger: logger}
}

// Deduct decrements the selected variant's stock by qty, floored at zero,
// and recomputes the product's availability flag.
func (l *Ledger) Deduct(ctx context.Context, productID string, sel catalog.VariantSelector, qty int) error {
	return l.adjust(ctx, productID, sel, -qty)
}

// Restore increments the selected variant's stock by qty (unbounded above)
// and recomputes the product's availability flag.
func (l *Ledger) Restore(ctx context.Context, productID string, sel catalog.VariantSelector, qty int) error {
	return l.adjust(ctx, productID, sel, qty)
}

func (l *Ledger) adjust(ctx context.Context, productID string, sel catalog.VariantSelector, delta int) error {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		p, err := l.products.Get(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return catalog.ErrProductNotFound
		}

		idx, ok := p.ResolveVariant(sel)
		if !ok {
			return ErrNoVariants
		}

		next := p.Variants[idx].Stock + delta
		if next < 0 {
			next = 0
		}
		p.Variants[idx].Stock = next
		p.RecomputeAvailability()

		err = l.products.Save(ctx, p)
		if errors.Is(err, catalog.ErrVersionConflict) {
			l.logger.Debug("stock write conflict, retrying",
				zap.String("product_id", productID),
				zap.Int("attempt", attempt))
			continue
		}
		return err
	}
	return fmt.Errorf("stock adjustment on product %s: gave up after %d conflicting writes", productID, maxWriteAttempts)
}
