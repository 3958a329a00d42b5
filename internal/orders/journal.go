package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// JournalClaim is the shape persisted in the journal-numbers table. One row
// per claimed payment journal number; the conditional put on the primary key
// is what enforces system-wide uniqueness.
type JournalClaim struct {
	JournalNumber string    `dynamodbav:"journal_number"` // PK
	OrderID       string    `dynamodbav:"order_id"`
	CreatedAt     time.Time `dynamodbav:"created_at"`
}

// ClaimJournalNumber registers number for orderID. The claim is written with
// attribute_not_exists(journal_number); when that condition fails, the
// existing claim is inspected: a claim held by the same order (payment
// resubmission with the same number) succeeds, anything else returns
// ErrDuplicateJournalNumber. Nothing is written in the duplicate case.
func (s *Store) ClaimJournalNumber(ctx context.Context, number, orderID string) error {
	claim := JournalClaim{
		JournalNumber: number,
		OrderID:       orderID,
		CreatedAt:     s.nowFunc(),
	}
	item, err := attributevalue.MarshalMap(claim)
	if err != nil {
		return fmt.Errorf("marshal journal claim: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.journalTable,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(journal_number)"),
	})
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	var cf *types.ConditionalCheckFailedException
	if !errors.As(err, &cf) && !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException") {
		return fmt.Errorf("put journal claim: %w", err)
	}

	existing, err := s.getJournalClaim(ctx, number)
	if err != nil {
		return err
	}
	if existing != nil && existing.OrderID == orderID {
		return nil
	}
	return ErrDuplicateJournalNumber
}

// ReleaseJournalNumber drops the claim on number, freeing it for reuse.
// Called when an order resubmits payment with a different journal number.
func (s *Store) ReleaseJournalNumber(ctx context.Context, number string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.journalTable,
		Key: map[string]types.AttributeValue{
			"journal_number": &types.AttributeValueMemberS{Value: number},
		},
	})
	if err != nil {
		return fmt.Errorf("delete journal claim: %w", err)
	}
	return nil
}

func (s *Store) getJournalClaim(ctx context.Context, number string) (*JournalClaim, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.journalTable,
		Key: map[string]types.AttributeValue{
			"journal_number": &types.AttributeValueMemberS{Value: number},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get journal claim: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var claim JournalClaim
	if err := attributevalue.UnmarshalMap(out.Item, &claim); err != nil {
		return nil, fmt.Errorf("unmarshal journal claim: %w", err)
	}
	return &claim, nil
}
