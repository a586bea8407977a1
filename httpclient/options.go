package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// scope is the instrumentation scope name for OpenTelemetry.
	scope = "github.com/kroma-labs/restapi/httpclient"

	// defaultMaxResponseBytes caps how much of a response body Do buffers.
	defaultMaxResponseBytes = 32 << 20
)

// =============================================================================
// Config - HTTP Transport Configuration
// =============================================================================

// Config holds the HTTP transport configuration parameters.
// Use DefaultConfig() to get a properly initialized configuration,
// then modify specific fields as needed.
//
// Example:
//
//	cfg := httpclient.DefaultConfig()
//	cfg.Timeout = 5 * time.Second
//
//	client := httpclient.New(
//	    httpclient.WithConfig(cfg),
//	    httpclient.WithServiceName("posts-api"),
//	)
type Config struct {
	// Timeout limits the entire exchange, including reading the body.
	// Zero means no timeout.
	//
	// Default: 15s
	Timeout time.Duration

	// MaxIdleConns controls the maximum number of idle (keep-alive)
	// connections across all hosts combined.
	//
	// Default: 100
	MaxIdleConns int

	// MaxIdleConnsPerHost controls the maximum idle connections kept
	// for each host. A REST client usually talks to one base URL, so
	// this is the setting that matters most.
	//
	// Default: 20
	MaxIdleConnsPerHost int

	// MaxConnsPerHost limits idle plus active connections per host.
	// Zero means unlimited.
	//
	// Default: 100
	MaxConnsPerHost int

	// IdleConnTimeout is how long an idle connection stays in the pool.
	//
	// Default: 90s
	IdleConnTimeout time.Duration

	// TLSHandshakeTimeout is the maximum time to wait for a TLS handshake.
	//
	// Default: 10s
	TLSHandshakeTimeout time.Duration

	// ResponseHeaderTimeout is the time to wait for response headers
	// after the request is written. Zero falls back to Timeout.
	ResponseHeaderTimeout time.Duration

	// DialTimeout is the maximum time to establish a TCP connection.
	//
	// Default: 5s
	DialTimeout time.Duration

	// KeepAlive specifies the TCP keep-alive probe interval.
	//
	// Default: 30s
	KeepAlive time.Duration

	// MaxResponseBytes caps the number of body bytes buffered into an
	// Exchange. Larger bodies fail the request with ErrBodyTooLarge.
	//
	// Default: 32MiB
	MaxResponseBytes int64

	// DisableKeepAlives forces a new connection for each request.
	DisableKeepAlives bool

	// DisableCompression disables transparent gzip.
	//
	// Default: true
	DisableCompression bool

	// ForceHTTP2 forces HTTP/2 when the server supports it.
	ForceHTTP2 bool
}

// DefaultConfig returns a balanced configuration for general-purpose use.
func DefaultConfig() Config {
	return Config{
		Timeout: 15 * time.Second,

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout: 10 * time.Second,

		DialTimeout: 5 * time.Second,
		KeepAlive:   30 * time.Second,

		MaxResponseBytes: defaultMaxResponseBytes,

		DisableCompression: true,
	}
}

// LowLatencyConfig returns a configuration that fails fast, suited to
// user-facing screens that would rather show cached content than wait.
func LowLatencyConfig() Config {
	return Config{
		Timeout: 5 * time.Second,

		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 25,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     60 * time.Second,

		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 3 * time.Second,

		DialTimeout: 2 * time.Second,
		KeepAlive:   15 * time.Second,

		MaxResponseBytes: defaultMaxResponseBytes,

		DisableCompression: true,
		ForceHTTP2:         true,
	}
}

// ConservativeConfig returns a resource-conscious configuration for
// constrained environments or processes holding many clients.
func ConservativeConfig() Config {
	return Config{
		Timeout: 10 * time.Second,

		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 5,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout: 10 * time.Second,

		DialTimeout: 5 * time.Second,
		KeepAlive:   30 * time.Second,

		MaxResponseBytes: 4 << 20,

		DisableCompression: true,
	}
}

// =============================================================================
// Internal Configuration
// =============================================================================

// internalConfig holds all configuration including HTTP transport and OTel settings.
type internalConfig struct {
	httpConfig Config

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *metrics
	Propagators    propagation.TextMapPropagator

	// ServiceName is added as the "http.client.name" attribute.
	ServiceName string

	// EnableNetworkTrace adds DNS/connect/TLS events to spans. Default: true
	EnableNetworkTrace bool

	TLSConfig            *tls.Config
	ProxyURL             *url.URL
	ProxyFromEnvironment bool

	// BaseTransport replaces the transport built from httpConfig.
	BaseTransport http.RoundTripper

	RateLimit     *RateLimitConfig
	BreakerConfig *BreakerConfig

	Debug        bool
	GenerateCurl bool
	Logger       zerolog.Logger
}

// newConfig creates a new internal config with defaults and applies options.
func newConfig(opts ...Option) *internalConfig {
	cfg := &internalConfig{
		httpConfig:     DefaultConfig(),
		TracerProvider: otel.GetTracerProvider(),
		MeterProvider:  otel.GetMeterProvider(),
		Propagators: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
		EnableNetworkTrace:   true,
		ProxyFromEnvironment: true,
		Logger:               zerolog.New(os.Stdout).With().Timestamp().Logger(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	cfg.Tracer = cfg.TracerProvider.Tracer(scope)
	cfg.Meter = cfg.MeterProvider.Meter(scope)

	// Metrics stay nil on failure; every recorder is nil-safe.
	cfg.Metrics, _ = newMetrics(cfg.Meter)

	return cfg
}

// buildTransport creates an http.Transport from the configuration.
func (cfg *internalConfig) buildTransport() *http.Transport {
	hc := cfg.httpConfig

	dialer := &net.Dialer{
		Timeout:   hc.DialTimeout,
		KeepAlive: hc.KeepAlive,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          hc.MaxIdleConns,
		MaxIdleConnsPerHost:   hc.MaxIdleConnsPerHost,
		MaxConnsPerHost:       hc.MaxConnsPerHost,
		IdleConnTimeout:       hc.IdleConnTimeout,
		TLSHandshakeTimeout:   hc.TLSHandshakeTimeout,
		ResponseHeaderTimeout: hc.ResponseHeaderTimeout,
		DisableKeepAlives:     hc.DisableKeepAlives,
		DisableCompression:    hc.DisableCompression,
		TLSClientConfig:       cfg.TLSConfig,
		ForceAttemptHTTP2:     hc.ForceHTTP2,
	}

	if cfg.ProxyURL != nil {
		transport.Proxy = http.ProxyURL(cfg.ProxyURL)
	} else if cfg.ProxyFromEnvironment {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return transport
}

// maxResponseBytes returns the configured body cap, or the default.
func (cfg *internalConfig) maxResponseBytes() int64 {
	if cfg.httpConfig.MaxResponseBytes > 0 {
		return cfg.httpConfig.MaxResponseBytes
	}
	return defaultMaxResponseBytes
}

// baseAttributes returns common attributes for all spans and metrics.
func (cfg *internalConfig) baseAttributes() []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 1)
	if cfg.ServiceName != "" {
		attrs = append(attrs, attribute.String("http.client.name", cfg.ServiceName))
	}
	return attrs
}

// =============================================================================
// Options - Functional Options for Client Configuration
// =============================================================================

// Option configures the HTTP client.
type Option func(*internalConfig)

// WithConfig sets the HTTP transport configuration.
// Use DefaultConfig(), LowLatencyConfig() or ConservativeConfig() as a
// starting point, then customize as needed.
func WithConfig(c Config) Option {
	return func(cfg *internalConfig) {
		cfg.httpConfig = c
	}
}

// WithServiceName sets an identifier for this client in traces and metrics.
// It is also the circuit breaker name.
func WithServiceName(name string) Option {
	return func(cfg *internalConfig) {
		cfg.ServiceName = name
	}
}

// WithTracerProvider sets a custom OpenTelemetry TracerProvider.
// If not called, the global provider from otel.GetTracerProvider() is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *internalConfig) {
		cfg.TracerProvider = tp
	}
}

// WithMeterProvider sets a custom OpenTelemetry MeterProvider.
// If not called, the global provider from otel.GetMeterProvider() is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *internalConfig) {
		cfg.MeterProvider = mp
	}
}

// WithPropagators sets the propagators used to inject trace context into
// outgoing headers. Default: W3C TraceContext + Baggage.
func WithPropagators(p propagation.TextMapPropagator) Option {
	return func(cfg *internalConfig) {
		cfg.Propagators = p
	}
}

// WithTLSConfig sets a custom TLS configuration.
//
// Example - Mutual TLS with client certificate:
//
//	cert, _ := tls.LoadX509KeyPair("client.crt", "client.key")
//	client := httpclient.New(
//	    httpclient.WithTLSConfig(&tls.Config{
//	        Certificates: []tls.Certificate{cert},
//	    }),
//	)
func WithTLSConfig(tlsCfg *tls.Config) Option {
	return func(cfg *internalConfig) {
		cfg.TLSConfig = tlsCfg
	}
}

// WithProxyURL sets a specific proxy URL for all requests.
// When set, this takes precedence over environment variables.
func WithProxyURL(proxyURL *url.URL) Option {
	return func(cfg *internalConfig) {
		cfg.ProxyURL = proxyURL
		cfg.ProxyFromEnvironment = false
	}
}

// WithDisableNetworkTrace disables httptrace span events.
func WithDisableNetworkTrace() Option {
	return func(cfg *internalConfig) {
		cfg.EnableNetworkTrace = false
	}
}

// WithBaseTransport replaces the pooled transport built from Config.
// Instrumentation, rate limiting and circuit breaking still wrap it.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(cfg *internalConfig) {
		cfg.BaseTransport = rt
	}
}

// WithMockTransport routes every request through mock.
//
// Example:
//
//	mock := httpclient.NewMockTransport().StubResponse(200, `{"id":1}`)
//	client := httpclient.New(httpclient.WithMockTransport(mock))
func WithMockTransport(mock *MockTransport) Option {
	return WithBaseTransport(mock)
}

// WithRateLimit limits the request rate of the whole client.
func WithRateLimit(rl RateLimitConfig) Option {
	return func(cfg *internalConfig) {
		cfg.RateLimit = &rl
	}
}

// WithBreaker enables circuit breaking. Use DefaultBreakerConfig() or
// DistributedBreakerConfig(store) as a starting point.
func WithBreaker(bc BreakerConfig) Option {
	return func(cfg *internalConfig) {
		cfg.BreakerConfig = &bc
	}
}

// WithDebug logs every request and response at debug level.
func WithDebug() Option {
	return func(cfg *internalConfig) {
		cfg.Debug = true
	}
}

// WithLogger sets the zerolog logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *internalConfig) {
		cfg.Logger = logger
	}
}

// WithGenerateCurl attaches an equivalent cURL command to every Exchange.
func WithGenerateCurl() Option {
	return func(cfg *internalConfig) {
		cfg.GenerateCurl = true
	}
}
