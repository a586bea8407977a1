package httpclient

import (
	"fmt"
	"net/http"
	"net/http/httptrace"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var _ http.RoundTripper = (*otelTransport)(nil)

// otelTransport wraps an http.RoundTripper with OpenTelemetry instrumentation.
//
// The span stays open until the response body is drained or closed, so its
// duration includes body transfer.
type otelTransport struct {
	base http.RoundTripper
	cfg  *internalConfig
}

func newOtelTransport(base http.RoundTripper, cfg *internalConfig) *otelTransport {
	return &otelTransport{base: base, cfg: cfg}
}

// RoundTrip implements http.RoundTripper with tracing and metrics.
func (t *otelTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	ctx, span := t.cfg.Tracer.Start(req.Context(), "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(t.requestAttributes(req)...),
	)

	// RoundTrippers must not modify the caller's request.
	req = req.Clone(ctx)
	t.cfg.Propagators.Inject(ctx, propagation.HeaderCarrier(req.Header))

	baseAttrs := t.cfg.baseAttributes()
	t.cfg.Metrics.recordActiveRequestStart(ctx, baseAttrs)
	defer t.cfg.Metrics.recordActiveRequestEnd(ctx, baseAttrs)

	if req.ContentLength > 0 {
		t.cfg.Metrics.recordRequestBodySize(ctx, req.ContentLength, baseAttrs)
	}

	var nt *networkTrace
	if t.cfg.EnableNetworkTrace {
		nt = &networkTrace{}
		req = req.WithContext(httptrace.WithClientTrace(ctx, nt.clientTrace()))
	}

	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)

	if nt != nil {
		nt.addTraceEvents(span)
	}

	if err != nil {
		errorType := classifyError(err)
		setSpanError(span, err, errorType)
		span.End()
		t.cfg.Metrics.recordError(ctx, errorType, baseAttrs)
		t.cfg.Metrics.recordRequestDuration(ctx, duration, t.metricsAttributes(req, 0, errorType))
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		errorType := errorTypeFromStatusCode(resp.StatusCode)
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
		span.SetAttributes(attribute.String("error.type", errorType))
	}

	t.cfg.Metrics.recordRequestDuration(ctx, duration,
		t.metricsAttributes(req, resp.StatusCode, errorTypeFromStatusCode(resp.StatusCode)))

	if resp.Body == nil || resp.Body == http.NoBody {
		span.End()
		return resp, nil
	}

	resp.Body = newWrappedBody(span, resp.Body, func(n int64) {
		span.SetAttributes(attribute.Int64("http.response.body.size", n))
		t.cfg.Metrics.recordResponseBodySize(ctx, n, baseAttrs)
	})

	return resp, nil
}

// requestAttributes returns span attributes for the request.
func (t *otelTransport) requestAttributes(req *http.Request) []attribute.KeyValue {
	attrs := append(t.cfg.baseAttributes(),
		attribute.String("http.request.method", req.Method),
	)

	if req.URL != nil {
		attrs = append(attrs,
			attribute.String("url.full", redactedURL(req)),
			attribute.String("url.scheme", req.URL.Scheme),
		)
		attrs = append(attrs, serverAttributes(req)...)
	}

	if req.ContentLength > 0 {
		attrs = append(attrs, attribute.Int64("http.request.body.size", req.ContentLength))
	}

	return attrs
}

// metricsAttributes returns low-cardinality attributes for duration metrics.
// status is zero when no response was received.
func (t *otelTransport) metricsAttributes(
	req *http.Request,
	status int,
	errorType string,
) []attribute.KeyValue {
	attrs := append(t.cfg.baseAttributes(),
		attribute.String("http.request.method", req.Method),
	)
	if req.URL != nil {
		attrs = append(attrs, serverAttributes(req)...)
	}
	if status > 0 {
		attrs = append(attrs, attribute.Int("http.response.status_code", status))
	}
	if errorType != "" {
		attrs = append(attrs, attribute.String("error.type", errorType))
	}
	return attrs
}

// serverAttributes returns server.address and server.port, defaulting the
// port from the scheme.
func serverAttributes(req *http.Request) []attribute.KeyValue {
	var attrs []attribute.KeyValue

	if host := req.URL.Hostname(); host != "" {
		attrs = append(attrs, attribute.String("server.address", host))
	}

	if port := req.URL.Port(); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			attrs = append(attrs, attribute.Int("server.port", p))
		}
		return attrs
	}

	switch req.URL.Scheme {
	case "http":
		attrs = append(attrs, attribute.Int("server.port", 80))
	case "https":
		attrs = append(attrs, attribute.Int("server.port", 443))
	}
	return attrs
}

// redactedURL drops the query string, which may carry an API key when
// query-parameter authentication is used.
func redactedURL(req *http.Request) string {
	u := *req.URL
	u.User = nil
	if u.RawQuery != "" {
		u.RawQuery = "REDACTED"
	}
	return u.String()
}
