// Package notify publishes user notifications to the delivery queue.
// Delivery is fire-and-forget: a failed publish is logged and never surfaced
// to the operation that triggered it.
package notify

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/rohanbasnet/shopcore/internal/aws"
)

// Template kinds understood by the delivery worker.
const (
	TemplateOrderStatusChange = "order_status_change"
	TemplatePaymentReview     = "payment_review"
	TemplatePaymentVerified   = "payment_verified"
	TemplatePaymentRejected   = "payment_rejected"
)

// Message is the payload sent to the notification queue and consumed by the
// delivery worker.
type Message struct {
	UserID   string `json:"user_id"`
	OrderID  string `json:"order_id,omitempty"`
	Template string `json:"template"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// Notifier publishes notification messages to SQS.
type Notifier struct {
	sqs      aws.SQSAPI
	queueURL string
	logger   *zap.Logger
}

// NewNotifier returns a Notifier bound to a queue URL.
func NewNotifier(sqsClient aws.SQSAPI, queueURL string, logger *zap.Logger) *Notifier {
	return &Notifier{
		sqs:      sqsClient,
		queueURL: queueURL,
		logger:   logger,
	}
}

// Send publishes msg. There is no error return: publish failures are logged
// and swallowed so a notification can never fail the operation that raised it.
func (n *Notifier) Send(ctx context.Context, msg Message) {
	body, err := json.Marshal(msg)
	if err != nil {
		n.logger.Error("marshal notification", zap.Error(err))
		return
	}

	bodyStr := string(body)
	input := &sqs.SendMessageInput{
		QueueUrl:    &n.queueURL,
		MessageBody: &bodyStr,
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"template": {
				DataType:    awsString("String"),
				StringValue: &msg.Template,
			},
		},
	}

	if _, err := n.sqs.SendMessage(ctx, input); err != nil {
		n.logger.Warn("notification publish failed",
			zap.String("user_id", msg.UserID),
			zap.String("template", msg.Template),
			zap.Error(err))
	}
}

func awsString(s string) *string { return &s }
