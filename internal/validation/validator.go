package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation
// registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterStructValidation(createOrderStructValidation, CreateOrderRequest{})
	v.RegisterStructValidation(verifyPaymentStructValidation, VerifyPaymentRequest{})

	return v
}

// createOrderStructValidation rejects a quoted variant price of zero or
// below: an absent price falls back to the catalog price, but a present one
// must be a real amount.
func createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateOrderRequest)

	for _, it := range req.Items {
		if it.Variant.Price != nil && *it.Variant.Price <= 0 {
			sl.ReportError(it.Variant.Price, "variant.price", "Price", "variant_price_positive", "")
		}
	}
}

// verifyPaymentStructValidation requires at least one updatable field.
func verifyPaymentStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(VerifyPaymentRequest)

	if req.PaymentStatus == nil && req.Verified == nil {
		sl.ReportError(req.PaymentStatus, "payment_status", "PaymentStatus", "verify_payment_empty", "")
	}
}
