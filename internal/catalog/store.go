package catalog

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

// ErrProductNotFound indicates the referenced product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ErrVersionConflict indicates an optimistic write lost the race: the
// product's version changed between read and write. Callers re-read and retry.
var ErrVersionConflict = errors.New("product version conflict")

// Store encapsulates operations on the products table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new products Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get fetches a product by product_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, productID string) (*Product, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// Create persists a brand-new product, guarding against an existing one
// with the same id. The availability flag is derived before the write.
func (s *Store) Create(ctx context.Context, p *Product) error {
	now := s.nowFunc()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Version = 1
	p.RecomputeAvailability()

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(product_id)"),
	})
	if err != nil {
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return fmt.Errorf("product %s already exists", p.ProductID)
		}
		return fmt.Errorf("put product: %w", err)
	}
	return nil
}

// Save writes back a product read earlier, conditional on its version being
// unchanged since the read. On success the stored version is p.Version+1 and
// p is updated to match. Returns ErrVersionConflict when a concurrent writer
// got there first.
func (s *Store) Save(ctx context.Context, p *Product) error {
	readVersion := p.Version
	p.Version = readVersion + 1
	p.UpdatedAt = s.nowFunc()

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		p.Version = readVersion
		return fmt.Errorf("marshal product: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("version = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", readVersion)},
		},
	})
	if err != nil {
		p.Version = readVersion
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return ErrVersionConflict
		}
		return fmt.Errorf("put product: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
