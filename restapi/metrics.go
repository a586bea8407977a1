package restapi

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// cacheMetrics counts cache traffic made by Load.
type cacheMetrics struct {
	// lookups counts cache reads by cache.result: hit or miss.
	lookups metric.Int64Counter

	// writes counts persisted network results by cache.result: ok or error.
	writes metric.Int64Counter
}

func newCacheMetrics(meter metric.Meter) (*cacheMetrics, error) {
	m := &cacheMetrics{}
	var err error

	m.lookups, err = meter.Int64Counter(
		"restapi.cache.lookups",
		metric.WithDescription("Number of response cache reads"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	m.writes, err = meter.Int64Counter(
		"restapi.cache.writes",
		metric.WithDescription("Number of response cache writes"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *cacheMetrics) recordLookup(ctx context.Context, hit bool) {
	if m == nil || m.lookups == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.result", result)))
}

func (m *cacheMetrics) recordWrite(ctx context.Context, ok bool) {
	if m == nil || m.writes == nil {
		return
	}
	result := "error"
	if ok {
		result = "ok"
	}
	m.writes.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.result", result)))
}
