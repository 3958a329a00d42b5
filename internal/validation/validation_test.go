package validation

import "testing"

func validCreateOrder() CreateOrderRequest {
	return CreateOrderRequest{
		UserID: "u-1",
		Items: []CartItem{
			{ProductID: "p-1", Variant: VariantRef{Value: "L"}, Quantity: 2},
		},
		Shipping: ShippingRequest{
			FullName: "Asha Rai",
			Phone:    "9800000000",
			Address:  "Baneshwor",
			City:     "Kathmandu",
		},
	}
}

func TestCreateOrderRequest_Valid(t *testing.T) {
	v := New()
	if err := v.Struct(validCreateOrder()); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestCreateOrderRequest_RequiresItems(t *testing.T) {
	v := New()
	req := validCreateOrder()
	req.Items = nil
	if err := v.Struct(req); err == nil {
		t.Fatalf("expected failure for empty items")
	}
}

func TestCreateOrderRequest_RejectsZeroQuantity(t *testing.T) {
	v := New()
	req := validCreateOrder()
	req.Items[0].Quantity = 0
	if err := v.Struct(req); err == nil {
		t.Fatalf("expected failure for zero quantity")
	}
}

func TestCreateOrderRequest_RejectsNonPositiveQuotedPrice(t *testing.T) {
	v := New()
	req := validCreateOrder()
	zero := 0.0
	req.Items[0].Variant.Price = &zero
	if err := v.Struct(req); err == nil {
		t.Fatalf("expected failure for zero quoted price")
	}
}

func TestCreateOrderRequest_RequiresShipping(t *testing.T) {
	v := New()
	req := validCreateOrder()
	req.Shipping.Phone = ""
	if err := v.Struct(req); err == nil {
		t.Fatalf("expected failure for missing phone")
	}
}

func TestFieldErrors_UsesLoweredNamespace(t *testing.T) {
	v := New()
	req := validCreateOrder()
	req.Shipping.FullName = ""
	err := v.Struct(req)
	if err == nil {
		t.Fatalf("expected failure for missing full name")
	}
	fields := fieldErrors(err)
	if got, ok := fields["shipping.fullname"]; !ok || got != "required" {
		t.Fatalf("unexpected field errors: %v", fields)
	}
}

func TestVerifyPaymentRequest_RequiresAField(t *testing.T) {
	v := New()
	if err := v.Struct(VerifyPaymentRequest{}); err == nil {
		t.Fatalf("expected failure for empty verify request")
	}
	verified := true
	if err := v.Struct(VerifyPaymentRequest{Verified: &verified}); err != nil {
		t.Fatalf("expected valid with verified set, got %v", err)
	}
}
