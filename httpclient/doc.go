// Package httpclient executes prepared HTTP requests for the restapi
// package and returns fully buffered exchanges.
//
// # Features
//
//   - OpenTelemetry tracing with semconv span attributes
//   - OpenTelemetry metrics for latency, body sizes, errors and breaker state
//   - Optional client-wide rate limiting
//   - Optional circuit breaking, in memory or shared through Redis
//   - Debug logging with zerolog and cURL generation
//   - MockTransport for tests
//
// Requests are never retried. Each Do or Dispatch is one attempt.
//
// # Quick Start
//
//	client := httpclient.New(
//	    httpclient.WithServiceName("posts-api"),
//	)
//
//	req, _ := http.NewRequest(http.MethodGet, "https://api.example.com/posts", nil)
//	ex, err := client.Do(ctx, req)
//
// Dispatch is the asynchronous form used by restapi:
//
//	client.Dispatch(ctx, req, func(ex *httpclient.Exchange, err error) {
//	    // runs on a separate goroutine, exactly once
//	})
//
// # Configuration Presets
//
//	client := httpclient.New(
//	    httpclient.WithConfig(httpclient.LowLatencyConfig()),
//	)
//
// # Circuit Breaking
//
//	client := httpclient.New(
//	    httpclient.WithServiceName("posts-api"),
//	    httpclient.WithBreaker(httpclient.DefaultBreakerConfig()),
//	)
//
// Open breakers fail requests with ErrCircuitOpen without touching the network.
package httpclient
