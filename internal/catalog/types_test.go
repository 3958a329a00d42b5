package catalog

import "testing"

func sampleProduct() *Product {
	return &Product{
		ProductID: "p-1",
		Title:     "Tee",
		Category:  "apparel",
		Variants: []Variant{
			{Name: "Size", Value: "M", Price: 80, Stock: 2},
			{Name: "Size", Value: "L", Price: 100, Stock: 5},
			{Name: "Color", Value: "Red", Price: 120, Stock: 0},
		},
	}
}

func TestResolveVariant_ValueTakesPrecedence(t *testing.T) {
	p := sampleProduct()
	price := 120.0
	// value matches index 1 even though name and price would match others
	idx, ok := p.ResolveVariant(VariantSelector{Value: "L", Name: "Color", Price: &price})
	if !ok || idx != 1 {
		t.Fatalf("expected index 1, got %d ok=%v", idx, ok)
	}
}

func TestResolveVariant_NameBeforePrice(t *testing.T) {
	p := sampleProduct()
	price := 120.0
	idx, ok := p.ResolveVariant(VariantSelector{Name: "Color", Price: &price})
	if !ok || idx != 2 {
		t.Fatalf("expected index 2, got %d ok=%v", idx, ok)
	}
}

func TestResolveVariant_PriceMatch(t *testing.T) {
	p := sampleProduct()
	price := 100.0
	idx, ok := p.ResolveVariant(VariantSelector{Price: &price})
	if !ok || idx != 1 {
		t.Fatalf("expected index 1, got %d ok=%v", idx, ok)
	}
}

func TestResolveVariant_FallsBackToFirst(t *testing.T) {
	p := sampleProduct()
	idx, ok := p.ResolveVariant(VariantSelector{Value: "XXL"})
	if !ok || idx != 0 {
		t.Fatalf("expected fallback to index 0, got %d ok=%v", idx, ok)
	}
	idx, ok = p.ResolveVariant(VariantSelector{})
	if !ok || idx != 0 {
		t.Fatalf("empty selector should resolve to index 0, got %d ok=%v", idx, ok)
	}
}

func TestResolveVariant_NoVariants(t *testing.T) {
	p := &Product{ProductID: "p-2"}
	if _, ok := p.ResolveVariant(VariantSelector{Value: "L"}); ok {
		t.Fatalf("expected resolution failure on zero variants")
	}
}

func TestRecomputeAvailability(t *testing.T) {
	p := sampleProduct()
	p.RecomputeAvailability()
	if !p.InStock {
		t.Fatalf("expected in stock with total %d", p.StockSum())
	}
	for i := range p.Variants {
		p.Variants[i].Stock = 0
	}
	p.RecomputeAvailability()
	if p.InStock {
		t.Fatalf("expected out of stock with all variants empty")
	}
}
