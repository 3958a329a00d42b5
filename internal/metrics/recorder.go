// Package metrics publishes business metrics to CloudWatch. Recording is
// best-effort: a failed publish is logged and never surfaced to the caller.
package metrics

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"github.com/rohanbasnet/shopcore/internal/aws"
)

// Namespace under which all shop metrics are published.
const Namespace = "ShopCore"

// Recorder publishes metric data points.
type Recorder struct {
	client aws.CloudWatchAPI
	logger *zap.Logger
}

// NewRecorder returns a Recorder.
func NewRecorder(client aws.CloudWatchAPI, logger *zap.Logger) *Recorder {
	return &Recorder{client: client, logger: logger}
}

// OrderCreated records one created order and its total value.
func (r *Recorder) OrderCreated(ctx context.Context, totalPrice float64) {
	one := 1.0
	namespace := Namespace
	countName := "OrdersCreated"
	valueName := "OrderValue"

	_, err := r.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &countName,
				Value:      &one,
				Unit:       cwtypes.StandardUnitCount,
			},
			{
				MetricName: &valueName,
				Value:      &totalPrice,
				Unit:       cwtypes.StandardUnitNone,
			},
		},
	})
	if err != nil {
		r.logger.Warn("metric publish failed", zap.Error(err))
	}
}
