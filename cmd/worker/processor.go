package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/rohanbasnet/shopcore/internal/notify"
)

// DeliverFunc hands one notification to the push-delivery backend.
type DeliverFunc func(ctx context.Context, msg notify.Message) error

// Processor consumes notification messages from the queue and delivers them.
// Delivery is best-effort end to end: a malformed message is logged and
// dropped rather than poisoning the queue, and a failed delivery is logged
// without failing the batch.
type Processor struct {
	logger  *zap.Logger
	deliver DeliverFunc
}

// NewProcessor returns a Processor with the default delivery backend.
func NewProcessor(logger *zap.Logger) *Processor {
	p := &Processor{logger: logger}
	p.deliver = p.logDelivery
	return p
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		p.processMessage(ctx, rec)
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) {
	var msg notify.Message
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		p.logger.Error("dropping malformed notification",
			zap.String("message_id", rec.MessageId),
			zap.Error(err))
		return
	}
	if msg.UserID == "" || msg.Template == "" {
		p.logger.Error("dropping incomplete notification",
			zap.String("message_id", rec.MessageId))
		return
	}

	if err := p.deliver(ctx, msg); err != nil {
		p.logger.Warn("notification delivery failed",
			zap.String("user_id", msg.UserID),
			zap.String("template", msg.Template),
			zap.Error(err))
	}
}

// logDelivery is the default backend: it records the delivery. Push-gateway
// integration lives behind DeliverFunc so it can be swapped in deployment.
func (p *Processor) logDelivery(_ context.Context, msg notify.Message) error {
	p.logger.Info("delivering notification",
		zap.String("user_id", msg.UserID),
		zap.String("order_id", msg.OrderID),
		zap.String("template", msg.Template),
		zap.String("title", msg.Title),
		zap.String("body", msg.Body))
	return nil
}
