package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is an in-memory stand-in for DynamoDB covering the operations
// and condition expressions the stores use. Items are stored per table in a
// nested map: table -> pkValue -> item.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

// pkAttrs lists the primary-key attribute names across all tables. order_id
// comes last: line items and journal claims also carry order_id as a plain
// attribute, so the more specific keys must match first.
var pkAttrs = []string{"line_item_id", "journal_number", "product_id", "order_id"}

func pkOf(item map[string]types.AttributeValue) (string, error) {
	for _, k := range pkAttrs {
		if v, ok := item[k]; ok {
			return v.(*types.AttributeValueMemberS).Value, nil
		}
	}
	return "", errors.New("mock: no primary key attribute in item")
}

func (m *mockDynamo) ensureTable(tbl string) map[string]map[string]types.AttributeValue {
	if _, ok := m.tables[tbl]; !ok {
		m.tables[tbl] = map[string]map[string]types.AttributeValue{}
	}
	return m.tables[tbl]
}

// checkCondition evaluates the condition expressions used by the stores:
// attribute_not_exists(<pk>) and version = :v.
func (m *mockDynamo) checkCondition(table string, item map[string]types.AttributeValue, cond *string, vals map[string]types.AttributeValue) error {
	if cond == nil {
		return nil
	}
	pk, err := pkOf(item)
	if err != nil {
		return err
	}
	switch {
	case strings.HasPrefix(*cond, "attribute_not_exists("):
		if _, exists := m.ensureTable(table)[pk]; exists {
			return &types.ConditionalCheckFailedException{}
		}
		return nil
	case *cond == "version = :v":
		existing, exists := m.ensureTable(table)[pk]
		if !exists {
			return &types.ConditionalCheckFailedException{}
		}
		want := vals[":v"].(*types.AttributeValueMemberN).Value
		got := existing["version"].(*types.AttributeValueMemberN).Value
		if want != got {
			return &types.ConditionalCheckFailedException{}
		}
		return nil
	}
	return fmt.Errorf("mock: unsupported condition %q", *cond)
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.ensureTable(*params.TableName)[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkCondition(*params.TableName, params.Item, params.ConditionExpression, params.ExpressionAttributeValues); err != nil {
		return nil, err
	}
	pk, err := pkOf(params.Item)
	if err != nil {
		return nil, err
	}
	m.ensureTable(*params.TableName)[pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	delete(m.ensureTable(*params.TableName), pk)
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []map[string]types.AttributeValue
	for _, it := range m.ensureTable(*params.TableName) {
		items = append(items, it)
	}
	return &dyn.ScanOutput{Items: items}, nil
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// first pass: verify every condition before applying anything
	for _, it := range params.TransactItems {
		if p := it.Put; p != nil {
			if err := m.checkCondition(*p.TableName, p.Item, p.ConditionExpression, p.ExpressionAttributeValues); err != nil {
				var cf *types.ConditionalCheckFailedException
				if errors.As(err, &cf) {
					return nil, &types.TransactionCanceledException{}
				}
				return nil, err
			}
		}
	}
	// second pass: apply
	for _, it := range params.TransactItems {
		if p := it.Put; p != nil {
			pk, err := pkOf(p.Item)
			if err != nil {
				return nil, err
			}
			m.ensureTable(*p.TableName)[pk] = p.Item
		}
		if d := it.Delete; d != nil {
			pk, err := pkOf(d.Key)
			if err != nil {
				return nil, err
			}
			delete(m.ensureTable(*d.TableName), pk)
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}
