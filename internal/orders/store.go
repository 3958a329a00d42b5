package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rohanbasnet/shopcore/internal/aws"
)

// Store encapsulates operations on the orders, line-items and journal-number
// tables. An order and its line items always commit and delete together.
type Store struct {
	client         aws.DynamoDBAPI
	ordersTable    string
	lineItemsTable string
	journalTable   string
	nowFunc        func() time.Time
}

// NewStore creates an order Store over the three backing tables.
func NewStore(client aws.DynamoDBAPI, ordersTable, lineItemsTable, journalTable string) *Store {
	return &Store{
		client:         client,
		ordersTable:    ordersTable,
		lineItemsTable: lineItemsTable,
		journalTable:   journalTable,
		nowFunc:        time.Now,
	}
}

// CreateOrderTransaction persists the order and all of its line items in one
// TransactWriteItems call: either everything commits or nothing does. The
// order put is guarded by attribute_not_exists(order_id).
func (s *Store) CreateOrderTransaction(ctx context.Context, order *Order, items []LineItem) error {
	now := s.nowFunc()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	transactItems := make([]types.TransactWriteItem, 0, len(items)+1)
	for i := range items {
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = now
		}
		itemMap, err := attributevalue.MarshalMap(items[i])
		if err != nil {
			return fmt.Errorf("marshal line item: %w", err)
		}
		transactItems = append(transactItems, types.TransactWriteItem{
			Put: &types.Put{
				TableName: &s.lineItemsTable,
				Item:      itemMap,
			},
		})
	}

	orderMap, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	transactItems = append(transactItems, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           &s.ordersTable,
			Item:                orderMap,
			ConditionExpression: awsString("attribute_not_exists(order_id)"),
		},
	})

	_, err = s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: transactItems,
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return fmt.Errorf("transaction canceled (order %s may already exist): %w", order.OrderID, err)
		}
		return fmt.Errorf("transact write order: %w", err)
	}
	return nil
}

// GetOrder fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.ordersTable,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// SaveOrder writes back a mutated order aggregate. Orders are only mutated
// by the single owning flow, so no conditional guard is needed here.
func (s *Store) SaveOrder(ctx context.Context, order *Order) error {
	order.UpdatedAt = s.nowFunc()
	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.ordersTable,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put order: %w", err)
	}
	return nil
}

// GetLineItem fetches a line item by id. Returns (nil, nil) if not found.
func (s *Store) GetLineItem(ctx context.Context, lineItemID string) (*LineItem, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.lineItemsTable,
		Key: map[string]types.AttributeValue{
			"line_item_id": &types.AttributeValueMemberS{Value: lineItemID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get line item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var li LineItem
	if err := attributevalue.UnmarshalMap(out.Item, &li); err != nil {
		return nil, fmt.Errorf("unmarshal line item: %w", err)
	}
	return &li, nil
}

// GetLineItems loads the order's line items in order. Missing items are
// skipped; the second return value reports how many references dangled.
func (s *Store) GetLineItems(ctx context.Context, order *Order) ([]LineItem, int, error) {
	items := make([]LineItem, 0, len(order.LineItemIDs))
	missing := 0
	for _, id := range order.LineItemIDs {
		li, err := s.GetLineItem(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		if li == nil {
			missing++
			continue
		}
		items = append(items, *li)
	}
	return items, missing, nil
}

// ListOrders scans the full orders table.
func (s *Store) ListOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	var startKey map[string]types.AttributeValue
	for {
		page, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &s.ordersTable,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan orders: %w", err)
		}
		var batch []Order
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal orders: %w", err)
		}
		out = append(out, batch...)
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		startKey = page.LastEvaluatedKey
	}
	return out, nil
}

// DeleteOrderTransaction removes the order, all of its line items, and its
// journal-number claim (if any) in one TransactWriteItems call.
func (s *Store) DeleteOrderTransaction(ctx context.Context, order *Order) error {
	transactItems := make([]types.TransactWriteItem, 0, len(order.LineItemIDs)+2)
	for _, id := range order.LineItemIDs {
		transactItems = append(transactItems, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: &s.lineItemsTable,
				Key: map[string]types.AttributeValue{
					"line_item_id": &types.AttributeValueMemberS{Value: id},
				},
			},
		})
	}
	if order.JournalNumber != "" {
		transactItems = append(transactItems, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: &s.journalTable,
				Key: map[string]types.AttributeValue{
					"journal_number": &types.AttributeValueMemberS{Value: order.JournalNumber},
				},
			},
		})
	}
	transactItems = append(transactItems, types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: &s.ordersTable,
			Key: map[string]types.AttributeValue{
				"order_id": &types.AttributeValueMemberS{Value: order.OrderID},
			},
		},
	})

	_, err := s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: transactItems,
	})
	if err != nil {
		return fmt.Errorf("transact delete order: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
