package orders

import (
	"time"

	"github.com/rohanbasnet/shopcore/internal/catalog"
)

// Fulfillment statuses
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusShipped    = "SHIPPED"
	StatusDelivered  = "DELIVERED"
	StatusCancelled  = "CANCELLED"
)

// Payment verification statuses
const (
	PaymentPending  = "pending"
	PaymentReview   = "review"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

// ValidStatus reports whether s is a known fulfillment status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentReview, PaymentVerified, PaymentRejected:
		return true
	}
	return false
}

// ShippingInfo carries the contact/delivery fields captured with an order.
type ShippingInfo struct {
	FullName string `dynamodbav:"full_name" json:"full_name"`
	Phone    string `dynamodbav:"phone" json:"phone"`
	Address  string `dynamodbav:"address" json:"address"`
	City     string `dynamodbav:"city" json:"city"`
}

// LineItem is an immutable snapshot of one ordered variant: the label pair
// and unit price are captured at order time so later catalog changes cannot
// drift the order's pricing. The product reference is by id only.
type LineItem struct {
	LineItemID   string    `dynamodbav:"line_item_id" json:"line_item_id"` // PK
	OrderID      string    `dynamodbav:"order_id" json:"order_id"`
	ProductID    string    `dynamodbav:"product_id" json:"product_id"`
	VariantName  string    `dynamodbav:"variant_name" json:"variant_name"`
	VariantValue string    `dynamodbav:"variant_value" json:"variant_value"`
	UnitPrice    float64   `dynamodbav:"unit_price" json:"unit_price"`
	Quantity     int       `dynamodbav:"quantity" json:"quantity"`
	CreatedAt    time.Time `dynamodbav:"created_at" json:"created_at"`
}

// Selector rebuilds a variant selector from the snapshot's label pair, for
// stock operations that happen after order time (cancellation, re-activation).
func (li *LineItem) Selector() catalog.VariantSelector {
	price := li.UnitPrice
	return catalog.VariantSelector{
		Value: li.VariantValue,
		Name:  li.VariantName,
		Price: &price,
	}
}

// Order is the aggregate root stored in the orders table. It owns its line
// items (they are deleted with it) and carries two independent status axes:
// the fulfillment status and the payment verification status.
type Order struct {
	OrderID       string       `dynamodbav:"order_id" json:"order_id"` // PK
	UserID        string       `dynamodbav:"user_id" json:"user_id"`
	LineItemIDs   []string     `dynamodbav:"line_item_ids" json:"line_item_ids"`
	Shipping      ShippingInfo `dynamodbav:"shipping" json:"shipping"`
	TotalPrice    float64      `dynamodbav:"total_price" json:"total_price"`
	Status        string       `dynamodbav:"status" json:"status"`
	PaymentStatus string       `dynamodbav:"payment_status" json:"payment_status"`
	Verified      bool         `dynamodbav:"verified" json:"verified"`
	JournalNumber string       `dynamodbav:"journal_number,omitempty" json:"journal_number,omitempty"`
	ProofURL      string       `dynamodbav:"proof_url,omitempty" json:"proof_url,omitempty"`
	CreatedAt     time.Time    `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `dynamodbav:"updated_at" json:"updated_at"`
}
