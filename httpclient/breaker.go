package httpclient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	gobreakerredis "github.com/sony/gobreaker/v2/redis"
)

// ErrCircuitOpen is returned when the breaker rejects a request without sending it.
var ErrCircuitOpen = errors.New("httpclient: circuit breaker open")

// NewRedisBreakerStore creates a SharedDataStore backed by Redis so that
// several processes talking to the same API share one breaker state.
//
//	rdb := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{"localhost:6379"}})
//	client := httpclient.New(
//	    httpclient.WithBreaker(httpclient.DistributedBreakerConfig(httpclient.NewRedisBreakerStore(rdb))),
//	)
func NewRedisBreakerStore(client redis.UniversalClient) gobreaker.SharedDataStore {
	return gobreakerredis.NewStoreFromClient(client)
}

// CircuitBreaker is satisfied by both gobreaker.CircuitBreaker and
// gobreaker.DistributedCircuitBreaker instantiated for *http.Response.
type CircuitBreaker interface {
	Execute(req func() (*http.Response, error)) (*http.Response, error)
}

// BreakerClassifier reports whether an outcome counts as a failure.
type BreakerClassifier func(resp *http.Response, err error) bool

// BreakerConfig holds the configuration for the circuit breaker.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open. Zero means one.
	MaxRequests uint32

	// Interval clears the counts while closed. Zero never clears them.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// FailureThreshold is the minimum number of requests before the
	// failure ratio is considered.
	FailureThreshold uint32

	// FailureRatio trips the breaker once reached (0.0 - 1.0).
	FailureRatio float64

	// ConsecutiveFailures trips the breaker once reached. Zero disables.
	ConsecutiveFailures uint32

	// Store makes the breaker distributed. Nil keeps it in memory.
	Store gobreaker.SharedDataStore

	// Classifier defaults to DefaultBreakerClassifier.
	Classifier BreakerClassifier

	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultBreakerConfig returns an in-memory breaker that trips after five
// consecutive failures, or on a 50% failure ratio over at least 20 requests.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         1,
		Interval:            10 * time.Second,
		Timeout:             10 * time.Second,
		FailureThreshold:    20,
		FailureRatio:        0.5,
		ConsecutiveFailures: 5,
		Classifier:          DefaultBreakerClassifier,
	}
}

// DistributedBreakerConfig returns DefaultBreakerConfig sharing state through store.
func DistributedBreakerConfig(store gobreaker.SharedDataStore) BreakerConfig {
	cfg := DefaultBreakerConfig()
	cfg.Store = store
	return cfg
}

// DefaultBreakerClassifier counts network errors and 5xx responses as failures.
// 4xx responses are the caller's problem and never trip the breaker.
func DefaultBreakerClassifier(resp *http.Response, err error) bool {
	if err != nil {
		return isNetworkError(err)
	}
	return resp != nil && resp.StatusCode >= 500
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT)
}

// circuitBreakerTransport is a RoundTripper that wraps requests in a circuit breaker.
type circuitBreakerTransport struct {
	breaker    CircuitBreaker
	next       http.RoundTripper
	classifier BreakerClassifier
	metrics    *metrics
	name       string
}

// errSyntheticFailure tells the breaker a response was a failure even
// though RoundTrip succeeded. The response itself is still returned.
var errSyntheticFailure = errors.New("synthetic failure")

func (t *circuitBreakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	resp, err := t.breaker.Execute(func() (*http.Response, error) {
		resp, err := t.next.RoundTrip(req) //nolint:bodyclose
		if t.classifier(resp, err) {
			if err != nil {
				return resp, err
			}
			return resp, errSyntheticFailure
		}
		return resp, err
	})

	switch {
	case err == nil:
		t.metrics.recordBreakerRequest(ctx, t.name, "success")
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		t.metrics.recordBreakerRequest(ctx, t.name, "rejected")
		return nil, errors.Join(ErrCircuitOpen, err)
	case errors.Is(err, errSyntheticFailure):
		t.metrics.recordBreakerRequest(ctx, t.name, "failure")
		return resp, nil
	default:
		t.metrics.recordBreakerRequest(ctx, t.name, "failure")
		return nil, err
	}
}

// newCircuitBreakerTransport returns next unchanged when no breaker is configured.
func newCircuitBreakerTransport(next http.RoundTripper, cfg *internalConfig) http.RoundTripper {
	bc := cfg.BreakerConfig
	if bc == nil {
		return next
	}

	name := cfg.ServiceName
	if name == "" {
		name = "restapi"
	}

	classifier := bc.Classifier
	if classifier == nil {
		classifier = DefaultBreakerClassifier
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if bc.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= bc.ConsecutiveFailures {
				return true
			}
			if counts.Requests < bc.FailureThreshold || bc.FailureRatio <= 0 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= bc.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			cfg.Metrics.recordBreakerState(context.Background(), name, int64(to))
			if bc.OnStateChange != nil {
				bc.OnStateChange(name, from, to)
			}
		},
	}

	var cb CircuitBreaker = gobreaker.NewCircuitBreaker[*http.Response](st)
	if bc.Store != nil {
		// A store that cannot be initialised degrades to the local breaker.
		if dcb, err := gobreaker.NewDistributedCircuitBreaker[*http.Response](bc.Store, st); err == nil {
			cb = dcb
		} else {
			cfg.Logger.Warn().Err(err).Str("breaker", name).Msg("distributed circuit breaker unavailable, using local state")
		}
	}

	return &circuitBreakerTransport{
		breaker:    cb,
		next:       next,
		classifier: classifier,
		metrics:    cfg.Metrics,
		name:       name,
	}
}
