package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrBodyTooLarge is returned when a response body exceeds Config.MaxResponseBytes.
var ErrBodyTooLarge = errors.New("httpclient: response body too large")

// Exchange is a completed HTTP round trip with its body fully read.
type Exchange struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	// Duration covers sending the request and reading the whole body.
	Duration time.Duration

	// CurlCommand is set when the client was built WithGenerateCurl.
	CurlCommand string
}

// HasBody reports whether the response carried any body bytes.
func (e *Exchange) HasBody() bool {
	return e != nil && len(e.Body) > 0
}

// Client executes prepared requests through an instrumented transport chain
// and hands back fully buffered exchanges.
//
// Create a Client using New():
//
//	client := httpclient.New(
//	    httpclient.WithServiceName("posts-api"),
//	)
//
//	client.Dispatch(ctx, req, func(ex *httpclient.Exchange, err error) {
//	    ...
//	})
type Client struct {
	httpClient *http.Client
	config     *internalConfig
}

// New creates a Client with production-ready defaults and OpenTelemetry instrumentation.
//
// The transport chain is, from the outside in:
//
//	otel -> rate limit -> circuit breaker -> base transport
//
// There is no retry layer: every Do is exactly one attempt.
func New(opts ...Option) *Client {
	cfg := newConfig(opts...)

	var base http.RoundTripper = cfg.BaseTransport
	if base == nil {
		base = cfg.buildTransport()
	}

	withBreaker := newCircuitBreakerTransport(base, cfg)
	limited := newRateLimitTransport(withBreaker, cfg.RateLimit)
	instrumented := newOtelTransport(limited, cfg)

	return &Client{
		httpClient: &http.Client{
			Transport: instrumented,
			Timeout:   cfg.httpConfig.Timeout,
		},
		config: cfg,
	}
}

// WrapClient wraps an existing http.Client's transport with instrumentation.
// The client is modified in place. A nil transport means http.DefaultTransport.
func WrapClient(httpClient *http.Client, opts ...Option) *Client {
	cfg := newConfig(opts...)

	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient.Transport = newOtelTransport(base, cfg)

	return &Client{
		httpClient: httpClient,
		config:     cfg,
	}
}

// HTTP returns the underlying *http.Client for advanced use cases.
func (c *Client) HTTP() *http.Client {
	return c.httpClient
}

// Config returns the transport and pool settings the client was built with.
func (c *Client) Config() Config {
	return c.config.httpConfig
}

// Do performs req and reads the whole response body.
//
// A non-nil error means no usable response was received: the transport
// failed, the context ended, or the body exceeded MaxResponseBytes.
// Non-2xx statuses are not errors.
func (c *Client) Do(ctx context.Context, req *http.Request) (*Exchange, error) {
	start := time.Now()
	req = req.WithContext(ctx)

	var curl string
	if c.config.GenerateCurl {
		curl = generateCurlCommand(req, peekBody(req))
	}

	if c.config.Debug {
		logRequest(c.config.Logger, req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.config.Debug {
			logFailure(c.config.Logger, req, err, time.Since(start))
		}
		return nil, err
	}
	defer resp.Body.Close()

	limit := c.config.maxResponseBytes()
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("httpclient: read response body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}

	ex := &Exchange{
		StatusCode:  resp.StatusCode,
		Header:      resp.Header,
		Body:        body,
		Duration:    time.Since(start),
		CurlCommand: curl,
	}

	if c.config.Debug {
		logResponse(c.config.Logger, req, ex)
	}

	return ex, nil
}

// Dispatch runs Do on its own goroutine and calls done exactly once with
// the outcome. It returns immediately.
func (c *Client) Dispatch(ctx context.Context, req *http.Request, done func(*Exchange, error)) {
	go func() {
		done(c.Do(ctx, req))
	}()
}

// peekBody returns a copy of the request body without consuming it.
func peekBody(req *http.Request) []byte {
	if req.Body == nil || req.GetBody == nil {
		return nil
	}
	rc, err := req.GetBody()
	if err != nil {
		return nil
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	return b
}
