package httpclient

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures client-level rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the maximum sustained request rate.
	RequestsPerSecond float64

	// Burst is the maximum number of requests allowed in a burst.
	Burst int

	// WaitOnLimit makes requests wait for a token (bounded by the request
	// context) instead of failing with ErrRateLimited.
	WaitOnLimit bool
}

// DefaultRateLimitConfig returns 100 requests per second with a burst of 10.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             10,
		WaitOnLimit:       true,
	}
}

// ErrRateLimited is returned when a request is rejected due to rate limiting.
var ErrRateLimited = errors.New("httpclient: rate limit exceeded")

type rateLimitTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
	wait    bool
}

// newRateLimitTransport returns next unchanged when cfg is nil or disabled.
func newRateLimitTransport(next http.RoundTripper, cfg *RateLimitConfig) http.RoundTripper {
	if cfg == nil || cfg.RequestsPerSecond <= 0 {
		return next
	}

	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &rateLimitTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		wait:    cfg.WaitOnLimit,
	}
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.wait {
		if !t.limiter.Allow() {
			return nil, ErrRateLimited
		}
		return t.next.RoundTrip(req)
	}

	if err := t.limiter.Wait(req.Context()); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		// Wait fails early when the deadline cannot be met.
		return nil, ErrRateLimited
	}

	return t.next.RoundTrip(req)
}
