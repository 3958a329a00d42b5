package validation

// VariantRef selects a variant by whichever fields the client supplies; all
// fields optional, empty means "first variant".
type VariantRef struct {
	Name  string   `json:"name,omitempty"`
	Value string   `json:"value,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

// CartItem is one requested line in the create-order payload.
type CartItem struct {
	ProductID string     `json:"product_id" validate:"required"`
	Variant   VariantRef `json:"variant"`
	Quantity  int        `json:"quantity" validate:"required,min=1"`
}

// ShippingRequest carries the contact/delivery fields for a new order.
type ShippingRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
}

// CreateOrderRequest is the payload for POST /orders.
type CreateOrderRequest struct {
	UserID   string          `json:"user_id" validate:"required"`
	Items    []CartItem      `json:"items" validate:"required,min=1,dive"`
	Shipping ShippingRequest `json:"shipping" validate:"required"`
}

// UpdateStatusRequest is the payload for PUT /orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// VerifyPaymentRequest is the payload for PUT /orders/:id/payment/verify.
// At least one field must be present (enforced by struct-level validation).
type VerifyPaymentRequest struct {
	PaymentStatus *string `json:"payment_status,omitempty"`
	Verified      *bool   `json:"verified,omitempty"`
}

// CreateProductRequest is the payload for POST /products (catalog seeding).
type CreateProductRequest struct {
	Title       string                  `json:"title" validate:"required"`
	Description string                  `json:"description,omitempty"`
	Category    string                  `json:"category" validate:"required"`
	Variants    []ProductVariantRequest `json:"variants" validate:"required,min=1,dive"`
}

// ProductVariantRequest is one variant of a new product.
type ProductVariantRequest struct {
	Name  string  `json:"name" validate:"required"`
	Value string  `json:"value" validate:"required"`
	Price float64 `json:"price" validate:"required,gt=0"`
	Stock int     `json:"stock" validate:"min=0"`
}
