package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rohanbasnet/shopcore/internal/catalog"
	"github.com/rohanbasnet/shopcore/internal/notify"
	"github.com/rohanbasnet/shopcore/internal/stock"
)

// Ledger is the slice of the stock ledger the service drives.
type Ledger interface {
	Deduct(ctx context.Context, productID string, sel catalog.VariantSelector, qty int) error
	Restore(ctx context.Context, productID string, sel catalog.VariantSelector, qty int) error
}

// StockValidator pre-flights a cart against current stock.
type StockValidator interface {
	Validate(ctx context.Context, reqs []stock.ItemRequest) (bool, []string, error)
}

// ProductCatalog is the read-side of the catalog the assembler resolves
// products and prices against.
type ProductCatalog interface {
	Get(ctx context.Context, productID string) (*catalog.Product, error)
}

// Notifier dispatches user notifications. Implementations swallow failures.
type Notifier interface {
	Send(ctx context.Context, msg notify.Message)
}

// Metrics records business metrics. Implementations swallow failures.
type Metrics interface {
	OrderCreated(ctx context.Context, totalPrice float64)
}

// CartEntry is one requested line in an incoming cart.
type CartEntry struct {
	ProductID string
	Selector  catalog.VariantSelector
	Quantity  int
}

// Service orchestrates order assembly, the order state machines, and their
// stock/notification side effects.
type Service struct {
	store     *Store
	products  ProductCatalog
	ledger    Ledger
	validator StockValidator
	notifier  Notifier
	metrics   Metrics
	logger    *zap.Logger
	nowFunc   func() time.Time
	newID     func() string
}

// NewService wires a Service from its collaborators.
func NewService(store *Store, products ProductCatalog, ledger Ledger, validator StockValidator, notifier Notifier, metrics Metrics, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		products:  products,
		ledger:    ledger,
		validator: validator,
		notifier:  notifier,
		metrics:   metrics,
		logger:    logger,
		nowFunc:   time.Now,
		newID:     uuid.NewString,
	}
}

// CreateOrder converts a validated cart into a persisted order aggregate.
//
// Validation failures (empty cart, malformed entries, insufficient stock,
// vanished products) reject the whole order before any write. The order and
// its line-item snapshots commit in a single transaction; only after that
// commit does the ledger deduct stock, once per original cart entry, with
// failures logged rather than rolled back.
func (s *Service) CreateOrder(ctx context.Context, cart []CartEntry, shipping ShippingInfo, userID string) (*Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidInput)
	}
	reqs := make([]stock.ItemRequest, 0, len(cart))
	for _, entry := range cart {
		if entry.ProductID == "" {
			return nil, fmt.Errorf("%w: cart entry missing product reference", ErrInvalidInput)
		}
		if entry.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cart entry quantity must be positive", ErrInvalidInput)
		}
		reqs = append(reqs, stock.ItemRequest{
			ProductID: entry.ProductID,
			Selector:  entry.Selector,
			Quantity:  entry.Quantity,
		})
	}

	ok, problems, err := s.validator.Validate(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("validate cart: %w", err)
	}
	if !ok {
		return nil, &InsufficientStockError{Problems: problems}
	}

	orderID := s.newID()
	now := s.nowFunc()

	items := make([]LineItem, 0, len(cart))
	itemIDs := make([]string, 0, len(cart))
	total := 0.0
	for _, entry := range cart {
		p, err := s.products.Get(ctx, entry.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve product %s: %w", entry.ProductID, err)
		}
		if p == nil {
			return nil, fmt.Errorf("%w: %s", catalog.ErrProductNotFound, entry.ProductID)
		}
		idx, resolved := p.ResolveVariant(entry.Selector)
		if !resolved {
			return nil, fmt.Errorf("%w: product %s has no variants", ErrInvalidInput, entry.ProductID)
		}
		variant := p.Variants[idx]

		// Unit price: the caller's quoted price when supplied, else the
		// resolved variant's current price. Snapshotted on the line item so
		// later catalog changes cannot drift the order.
		unitPrice := variant.Price
		if entry.Selector.Price != nil {
			unitPrice = *entry.Selector.Price
		}

		li := LineItem{
			LineItemID:   s.newID(),
			OrderID:      orderID,
			ProductID:    p.ProductID,
			VariantName:  variant.Name,
			VariantValue: variant.Value,
			UnitPrice:    unitPrice,
			Quantity:     entry.Quantity,
			CreatedAt:    now,
		}
		items = append(items, li)
		itemIDs = append(itemIDs, li.LineItemID)
		total += unitPrice * float64(entry.Quantity)
	}

	order := &Order{
		OrderID:       orderID,
		UserID:        userID,
		LineItemIDs:   itemIDs,
		Shipping:      shipping,
		TotalPrice:    total,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		CreatedAt:     now,
	}

	if err := s.store.CreateOrderTransaction(ctx, order, items); err != nil {
		return nil, err
	}

	// Post-commit: deduct stock per original cart entry. The order stands
	// even if a deduction fails; the shortfall is logged for reconciliation.
	for _, entry := range cart {
		if err := s.ledger.Deduct(ctx, entry.ProductID, entry.Selector, entry.Quantity); err != nil {
			s.logger.Error("stock deduction failed after order commit",
				zap.String("order_id", orderID),
				zap.String("product_id", entry.ProductID),
				zap.Int("quantity", entry.Quantity),
				zap.Error(err))
		}
	}

	s.metrics.OrderCreated(ctx, total)
	return order, nil
}

// GetOrder fetches one order or ErrOrderNotFound.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return o, nil
}

// ListOrders returns every order.
func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	return s.store.ListOrders(ctx)
}

// SetFulfillmentStatus drives the fulfillment state machine: the status
// change is persisted first, then its stock and notification effects run
// best-effort.
func (s *Service) SetFulfillmentStatus(ctx context.Context, orderID, newStatus string) (*Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, missing, err := s.store.GetLineItems(ctx, order)
	if err != nil {
		return nil, err
	}
	if missing > 0 {
		s.logger.Warn("order references missing line items",
			zap.String("order_id", orderID),
			zap.Int("missing", missing))
	}

	eff, err := FulfillmentTransition(order, items, newStatus)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	s.applyEffects(ctx, order, eff)
	return order, nil
}

// DeleteOrder removes an order and its line items. Unless the order is
// already cancelled, stock is restored for every line item before deletion;
// an already-cancelled order has had its stock restored by the cancellation
// transition, so deletion must not restore again.
func (s *Service) DeleteOrder(ctx context.Context, orderID string) error {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != StatusCancelled {
		items, missing, err := s.store.GetLineItems(ctx, order)
		if err != nil {
			return err
		}
		if missing > 0 {
			s.logger.Warn("order references missing line items",
				zap.String("order_id", orderID),
				zap.Int("missing", missing))
		}
		for _, it := range items {
			if err := s.ledger.Restore(ctx, it.ProductID, it.Selector(), it.Quantity); err != nil {
				s.logger.Error("stock restore failed during order deletion",
					zap.String("order_id", orderID),
					zap.String("product_id", it.ProductID),
					zap.Error(err))
			}
		}
	}
	return s.store.DeleteOrderTransaction(ctx, order)
}

// ConfirmPayment records a user's payment submission: the journal number is
// claimed for uniqueness, the proof reference stored, and the payment axis
// reset to review/unverified. A number already claimed by a different order
// is rejected with ErrDuplicateJournalNumber before any write to the order.
func (s *Service) ConfirmPayment(ctx context.Context, orderID, journalNumber, proofURL string) (*Order, error) {
	if journalNumber == "" {
		return nil, fmt.Errorf("%w: missing journal number", ErrInvalidInput)
	}
	if proofURL == "" {
		return nil, fmt.Errorf("%w: missing payment proof", ErrInvalidInput)
	}
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.store.ClaimJournalNumber(ctx, journalNumber, orderID); err != nil {
		return nil, err
	}
	if prev := order.JournalNumber; prev != "" && prev != journalNumber {
		if err := s.store.ReleaseJournalNumber(ctx, prev); err != nil {
			s.logger.Warn("failed to release replaced journal number",
				zap.String("order_id", orderID),
				zap.String("journal_number", prev),
				zap.Error(err))
		}
	}

	eff := ConfirmPaymentTransition(order, journalNumber, proofURL)
	if err := s.store.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	s.applyEffects(ctx, order, eff)
	return order, nil
}

// VerifyPayment applies an administrative payment update; the verified flag,
// when set true, wins over any payment status supplied alongside it.
func (s *Service) VerifyPayment(ctx context.Context, orderID string, paymentStatus *string, verified *bool) (*Order, error) {
	if paymentStatus == nil && verified == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	eff, err := PaymentTransition(order, paymentStatus, verified)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	s.applyEffects(ctx, order, eff)
	return order, nil
}

// TotalSales sums total_price across all orders.
func (s *Service) TotalSales(ctx context.Context) (float64, error) {
	all, err := s.store.ListOrders(ctx)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, o := range all {
		total += o.TotalPrice
	}
	return total, nil
}

// OrderCount returns the number of orders.
func (s *Service) OrderCount(ctx context.Context) (int, error) {
	all, err := s.store.ListOrders(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// applyEffects executes the side effects a transition requested. Every stock
// op runs independently; a failure is logged and the remaining ops still run.
// Notifications are fire-and-forget by construction.
func (s *Service) applyEffects(ctx context.Context, order *Order, eff Effects) {
	for _, op := range eff.StockOps {
		var err error
		switch op.Kind {
		case StockDeduct:
			err = s.ledger.Deduct(ctx, op.ProductID, op.Selector, op.Quantity)
		case StockRestore:
			err = s.ledger.Restore(ctx, op.ProductID, op.Selector, op.Quantity)
		}
		if err != nil {
			s.logger.Error("stock side effect failed",
				zap.String("order_id", order.OrderID),
				zap.String("product_id", op.ProductID),
				zap.Int("quantity", op.Quantity),
				zap.Error(err))
		}
	}
	for _, n := range eff.Notifications {
		s.notifier.Send(ctx, notify.Message{
			UserID:   order.UserID,
			OrderID:  order.OrderID,
			Template: n.Template,
			Title:    n.Title,
			Body:     n.Body,
		})
	}
}
