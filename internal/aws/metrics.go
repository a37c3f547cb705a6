package aws

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes intake counters to CloudWatch. Emission is best-effort:
// a failed PutMetricData is logged and swallowed, it must never fail a request.
type Metrics struct {
	client    CloudWatchAPI
	namespace string
}

// NewMetrics returns a Metrics publisher for the given namespace.
func NewMetrics(client CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
	}
}

// OrderAccepted counts one persisted order.
func (m *Metrics) OrderAccepted(ctx context.Context) {
	m.put(ctx, "OrdersAccepted", nil)
}

// ValidationRejected counts one payload rejected by the validator.
func (m *Metrics) ValidationRejected(ctx context.Context) {
	m.put(ctx, "ValidationRejected", nil)
}

// NotificationFailed counts one failed channel delivery, dimensioned by channel name.
func (m *Metrics) NotificationFailed(ctx context.Context, channel string) {
	m.put(ctx, "NotificationFailed", []cwtypes.Dimension{
		{Name: awsString("Channel"), Value: awsString(channel)},
	})
}

func (m *Metrics) put(ctx context.Context, name string, dims []cwtypes.Dimension) {
	if m == nil || m.client == nil {
		return
	}
	value := float64(1)
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &m.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Value:      &value,
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: dims,
			},
		},
	})
	if err != nil {
		log.Printf("metrics: put %s: %v", name, err)
	}
}
