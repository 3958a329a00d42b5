package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/rohanbasnet/shopcore/internal/notify"
)

func TestHandle_DeliversEachMessage(t *testing.T) {
	p := NewProcessor(zap.NewNop())
	var delivered []notify.Message
	p.deliver = func(ctx context.Context, msg notify.Message) error {
		delivered = append(delivered, msg)
		return nil
	}

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{Body: `{"user_id":"u-1","order_id":"o-1","template":"order_status_change","title":"Order update","body":"Shipped."}`},
		{Body: `{"user_id":"u-2","template":"payment_verified","title":"Payment verified","body":"Done."}`},
	}}

	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(delivered) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(delivered))
	}
	if delivered[0].OrderID != "o-1" || delivered[1].Template == "" {
		t.Fatalf("unexpected deliveries: %+v", delivered)
	}
}

func TestHandle_DropsMalformedAndIncomplete(t *testing.T) {
	p := NewProcessor(zap.NewNop())
	var delivered []notify.Message
	p.deliver = func(ctx context.Context, msg notify.Message) error {
		delivered = append(delivered, msg)
		return nil
	}

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "m-1", Body: `{not json`},
		{MessageId: "m-2", Body: `{"user_id":"","template":""}`},
	}}

	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("bad messages must not fail the batch: %v", err)
	}
	if len(delivered) != 0 {
		t.Fatalf("expected no deliveries, got %d", len(delivered))
	}
}

func TestHandle_DeliveryFailureDoesNotFailBatch(t *testing.T) {
	p := NewProcessor(zap.NewNop())
	p.deliver = func(ctx context.Context, msg notify.Message) error {
		return errors.New("push gateway down")
	}

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{Body: `{"user_id":"u-1","template":"payment_rejected","title":"t","body":"b"}`},
	}}
	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("delivery failures are fire-and-forget: %v", err)
	}
}
