package httpclient

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics holds the metric instruments for HTTP client operations.
type metrics struct {
	// requestDuration measures one round trip in seconds, up to response headers.
	requestDuration metric.Float64Histogram

	requestBodySize  metric.Int64Histogram
	responseBodySize metric.Int64Histogram

	// activeRequests tracks the number of in-flight requests.
	activeRequests metric.Int64UpDownCounter

	// requestErrors counts transport failures by error.type.
	requestErrors metric.Int64Counter

	// breakerRequests counts breaker outcomes: success, failure, rejected.
	breakerRequests metric.Int64Counter

	// breakerState reports 0 closed, 1 half-open, 2 open.
	breakerState metric.Int64Gauge
}

var sizeBuckets = []float64{0, 100, 1024, 10 * 1024, 100 * 1024, 1024 * 1024, 10 * 1024 * 1024}

// newMetrics creates and registers metric instruments.
func newMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	var err error

	m.requestDuration, err = meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of HTTP client requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 7.5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	m.requestBodySize, err = meter.Int64Histogram(
		"http.client.request.body.size",
		metric.WithDescription("Size of HTTP client request bodies in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(sizeBuckets...),
	)
	if err != nil {
		return nil, err
	}

	m.responseBodySize, err = meter.Int64Histogram(
		"http.client.response.body.size",
		metric.WithDescription("Size of HTTP client response bodies in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(sizeBuckets...),
	)
	if err != nil {
		return nil, err
	}

	m.activeRequests, err = meter.Int64UpDownCounter(
		"http.client.active_requests",
		metric.WithDescription("Number of active HTTP client requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.requestErrors, err = meter.Int64Counter(
		"http.client.request.error",
		metric.WithDescription("Number of HTTP client request errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	m.breakerRequests, err = meter.Int64Counter(
		"http.client.breaker.requests",
		metric.WithDescription("Requests seen by the circuit breaker, by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.breakerState, err = meter.Int64Gauge(
		"http.client.breaker.state",
		metric.WithDescription("Circuit breaker state: 0 closed, 1 half-open, 2 open"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metrics) recordRequestDuration(
	ctx context.Context,
	duration time.Duration,
	attrs []attribute.KeyValue,
) {
	if m == nil || m.requestDuration == nil {
		return
	}
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

func (m *metrics) recordRequestBodySize(ctx context.Context, size int64, attrs []attribute.KeyValue) {
	if m == nil || m.requestBodySize == nil {
		return
	}
	m.requestBodySize.Record(ctx, size, metric.WithAttributes(attrs...))
}

func (m *metrics) recordResponseBodySize(ctx context.Context, size int64, attrs []attribute.KeyValue) {
	if m == nil || m.responseBodySize == nil {
		return
	}
	m.responseBodySize.Record(ctx, size, metric.WithAttributes(attrs...))
}

func (m *metrics) recordActiveRequestStart(ctx context.Context, attrs []attribute.KeyValue) {
	if m == nil || m.activeRequests == nil {
		return
	}
	m.activeRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metrics) recordActiveRequestEnd(ctx context.Context, attrs []attribute.KeyValue) {
	if m == nil || m.activeRequests == nil {
		return
	}
	m.activeRequests.Add(ctx, -1, metric.WithAttributes(attrs...))
}

func (m *metrics) recordError(ctx context.Context, errorType string, attrs []attribute.KeyValue) {
	if m == nil || m.requestErrors == nil {
		return
	}
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attrs...)
	allAttrs = append(allAttrs, attribute.String("error.type", errorType))
	m.requestErrors.Add(ctx, 1, metric.WithAttributes(allAttrs...))
}

func (m *metrics) recordBreakerRequest(ctx context.Context, name, outcome string) {
	if m == nil || m.breakerRequests == nil {
		return
	}
	m.breakerRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("breaker.name", name),
		attribute.String("breaker.outcome", outcome),
	))
}

func (m *metrics) recordBreakerState(ctx context.Context, name string, state int64) {
	if m == nil || m.breakerState == nil {
		return
	}
	m.breakerState.Record(ctx, state, metric.WithAttributes(
		attribute.String("breaker.name", name),
	))
}
