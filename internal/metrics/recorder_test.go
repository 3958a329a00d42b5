package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"go.uber.org/zap"
)

type fakeCloudWatch struct {
	inputs []cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, *params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestOrderCreated(t *testing.T) {
	fake := &fakeCloudWatch{}
	r := NewRecorder(fake, zap.NewNop())

	r.OrderCreated(context.Background(), 300)

	if len(fake.inputs) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(fake.inputs))
	}
	in := fake.inputs[0]
	if *in.Namespace != Namespace {
		t.Fatalf("unexpected namespace %s", *in.Namespace)
	}
	if len(in.MetricData) != 2 {
		t.Fatalf("expected 2 datums, got %d", len(in.MetricData))
	}
	if *in.MetricData[1].Value != 300 {
		t.Fatalf("order value not recorded: %v", *in.MetricData[1].Value)
	}
}

func TestOrderCreated_SwallowsFailure(t *testing.T) {
	r := NewRecorder(&fakeCloudWatch{err: errors.New("throttled")}, zap.NewNop())
	r.OrderCreated(context.Background(), 1)
}
