package orders

import (
	"fmt"

	"github.com/rohanbasnet/shopcore/internal/catalog"
	"github.com/rohanbasnet/shopcore/internal/notify"
)

// StockOpKind distinguishes the two ledger side effects a transition can emit.
type StockOpKind int

const (
	StockDeduct StockOpKind = iota
	StockRestore
)

// StockOp is a pending ledger mutation produced by a transition. The caller
// executes each op independently and best-effort: one op failing neither
// blocks the rest nor rolls back the status change.
type StockOp struct {
	Kind      StockOpKind
	ProductID string
	Selector  catalog.VariantSelector
	Quantity  int
}

// Notification is a pending user notification produced by a transition.
type Notification struct {
	Template string
	Title    string
	Body     string
}

// Effects is the set of side effects a transition requests. The transition
// functions themselves touch nothing but the order struct, so they stay pure
// and testable without ledger or queue collaborators.
type Effects struct {
	StockOps      []StockOp
	Notifications []Notification
}

// FulfillmentTransition moves o to newStatus and returns the side effects the
// move requires. Any status is reachable from any status; the stock rules are:
//
//   - entering CANCELLED from a non-cancelled state restores stock for every
//     line item
//   - leaving CANCELLED for a non-cancelled state deducts stock for every
//     line item
//
// A transition to the current status is a no-op with no effects. Every actual
// change also emits one status-change notification.
func FulfillmentTransition(o *Order, items []LineItem, newStatus string) (Effects, error) {
	var eff Effects
	if !ValidStatus(newStatus) {
		return eff, fmt.Errorf("%w: unknown fulfillment status %q", ErrInvalidInput, newStatus)
	}

	prev := o.Status
	if prev == newStatus {
		return eff, nil
	}

	if newStatus == StatusCancelled {
		for _, it := range items {
			eff.StockOps = append(eff.StockOps, StockOp{
				Kind:      StockRestore,
				ProductID: it.ProductID,
				Selector:  it.Selector(),
				Quantity:  it.Quantity,
			})
		}
	} else if prev == StatusCancelled {
		for _, it := range items {
			eff.StockOps = append(eff.StockOps, StockOp{
				Kind:      StockDeduct,
				ProductID: it.ProductID,
				Selector:  it.Selector(),
				Quantity:  it.Quantity,
			})
		}
	}

	o.Status = newStatus
	eff.Notifications = append(eff.Notifications, Notification{
		Template: notify.TemplateOrderStatusChange,
		Title:    "Order update",
		Body:     fulfillmentMessage(newStatus),
	})
	return eff, nil
}

func fulfillmentMessage(status string) string {
	switch status {
	case StatusProcessing:
		return "Your order is being processed."
	case StatusShipped:
		return "Your order has been shipped."
	case StatusDelivered:
		return "Your order has been delivered."
	case StatusCancelled:
		return "Your order has been cancelled."
	default:
		return fmt.Sprintf("Your order status is now %s.", status)
	}
}

// PaymentTransition applies an administrative payment update. Either field
// may be omitted. Setting verified=true forces payment status to verified
// regardless of the status supplied alongside it: the verified flag wins.
// A changed payment status emits one notification; a transition to pending
// or an unchanged status emits none.
func PaymentTransition(o *Order, paymentStatus *string, verified *bool) (Effects, error) {
	var eff Effects
	if paymentStatus != nil && !ValidPaymentStatus(*paymentStatus) {
		return eff, fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, *paymentStatus)
	}

	prev := o.PaymentStatus
	if paymentStatus != nil {
		o.PaymentStatus = *paymentStatus
	}
	if verified != nil {
		o.Verified = *verified
		if *verified {
			o.PaymentStatus = PaymentVerified
		}
	}

	if o.PaymentStatus != prev {
		if n, ok := paymentNotification(o.PaymentStatus); ok {
			eff.Notifications = append(eff.Notifications, n)
		}
	}
	return eff, nil
}

// ConfirmPaymentTransition records a user's payment submission: the journal
// number and proof reference are stored, and the payment axis is reset to
// review/unverified unconditionally, even for a previously verified order —
// resubmission always reopens review.
func ConfirmPaymentTransition(o *Order, journalNumber, proofURL string) Effects {
	var eff Effects
	prev := o.PaymentStatus

	o.JournalNumber = journalNumber
	o.ProofURL = proofURL
	o.PaymentStatus = PaymentReview
	o.Verified = false

	if prev != PaymentReview {
		if n, ok := paymentNotification(PaymentReview); ok {
			eff.Notifications = append(eff.Notifications, n)
		}
	}
	return eff
}

func paymentNotification(status string) (Notification, bool) {
	switch status {
	case PaymentVerified:
		return Notification{
			Template: notify.TemplatePaymentVerified,
			Title:    "Payment verified",
			Body:     "Your payment has been verified.",
		}, true
	case PaymentRejected:
		return Notification{
			Template: notify.TemplatePaymentRejected,
			Title:    "Payment rejected",
			Body:     "Your payment was rejected. Please submit a new payment proof.",
		}, true
	case PaymentReview:
		return Notification{
			Template: notify.TemplatePaymentReview,
			Title:    "Payment under review",
			Body:     "Your payment is under review.",
		}, true
	}
	return Notification{}, false
}
