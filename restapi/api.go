package restapi

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/kroma-labs/restapi/httpclient"
)

// Transport sends a prepared request and reports the outcome exactly
// once, on a goroutine of its choosing.
type Transport interface {
	Dispatch(ctx context.Context, req *http.Request, done func(*httpclient.Exchange, error))
}

var _ Transport = (*httpclient.Client)(nil)

// TransportFunc adapts a synchronous round trip to Transport. Each
// dispatch runs f on a new goroutine.
type TransportFunc func(ctx context.Context, req *http.Request) (*httpclient.Exchange, error)

func (f TransportFunc) Dispatch(ctx context.Context, req *http.Request, done func(*httpclient.Exchange, error)) {
	go func() {
		done(f(ctx, req))
	}()
}

// API is a client for one REST service rooted at a base URL.
//
// Requests are issued with the generic verb functions:
//
//	api := restapi.New("https://jsonplaceholder.typicode.com")
//	err := restapi.Get(ctx, api, "/posts", restapi.Array(restapi.Decodable[Post](nil)),
//	    func(status *restapi.Status, posts *[]Post) { ... },
//	    restapi.WithQuery(restapi.Query{"userId": restapi.String("1")}),
//	)
type API struct {
	baseURL   string
	transport Transport
	auth      *Authenticator
	decoders  *Decoders

	logger      zerolog.Logger
	logRequests bool
	logErrors   bool

	coalesce bool
	flights  singleflight.Group

	metrics *cacheMetrics

	mu      sync.RWMutex
	headers http.Header
}

type config struct {
	transport   Transport
	httpOpts    []httpclient.Option
	auth        *Authenticator
	decoders    *Decoders
	headers     http.Header
	logger      zerolog.Logger
	logRequests bool
	logErrors   bool
	coalesce    bool
	meter       metric.MeterProvider
	getenv      func(string) string
}

// Option configures an API.
type Option func(*config)

// WithTransport replaces the default httpclient-backed transport.
func WithTransport(t Transport) Option {
	return func(c *config) {
		c.transport = t
	}
}

// WithHTTPClient configures the default transport. It is ignored when
// WithTransport is also given.
func WithHTTPClient(opts ...httpclient.Option) Option {
	return func(c *config) {
		c.httpOpts = append(c.httpOpts, opts...)
	}
}

// WithAuthenticator sets the credentials strategy. The Authenticator
// stays mutable through API.Auth.
func WithAuthenticator(a *Authenticator) Option {
	return func(c *config) {
		c.auth = a
	}
}

// WithHeaders adds default headers, replacing built-in defaults of the same name.
func WithHeaders(h http.Header) Option {
	return func(c *config) {
		for k, vs := range h {
			c.headers[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
		}
	}
}

// WithDecoders sets the registry Decodable codecs obtained from
// API.Decoders use.
func WithDecoders(d *Decoders) Option {
	return func(c *config) {
		c.decoders = d
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithRequestLogging logs every outgoing request at debug level,
// including headers and body.
func WithRequestLogging() Option {
	return func(c *config) {
		c.logRequests = true
	}
}

// WithErrorLogging logs every non-success response at warn level with its body.
func WithErrorLogging() Option {
	return func(c *config) {
		c.logErrors = true
	}
}

// WithCoalescedLoads shares one network fetch between concurrent Load
// calls for the same URL. Off by default: each Load does its own fetch.
// The shared fetch is not cancelled by any single caller's context; the
// httpclient timeout still bounds it.
func WithCoalescedLoads() Option {
	return func(c *config) {
		c.coalesce = true
	}
}

// WithMeterProvider sets the provider for cache metrics. Defaults to the global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		c.meter = mp
	}
}

// New creates an API for baseURL. Endpoints passed to the verb functions
// are appended to baseURL verbatim.
func New(baseURL string, opts ...Option) *API {
	cfg := &config{
		headers: make(http.Header),
		logger:  zerolog.Nop(),
		meter:   otel.GetMeterProvider(),
		getenv:  os.Getenv,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	headers := defaultHeaders(cfg.getenv)
	for k, vs := range cfg.headers {
		headers[k] = vs
	}

	transport := cfg.transport
	if transport == nil {
		transport = httpclient.New(cfg.httpOpts...)
	}

	auth := cfg.auth
	if auth == nil {
		auth = NewAuthenticator()
	}

	decoders := cfg.decoders
	if decoders == nil {
		decoders = NewDecoders(nil)
	}

	m, err := newCacheMetrics(cfg.meter.Meter(scope))
	if err != nil {
		cfg.logger.Warn().Err(err).Msg("cache metrics disabled")
	}

	return &API{
		baseURL:     baseURL,
		transport:   transport,
		auth:        auth,
		decoders:    decoders,
		logger:      cfg.logger,
		logRequests: cfg.logRequests,
		logErrors:   cfg.logErrors,
		coalesce:    cfg.coalesce,
		metrics:     m,
		headers:     headers,
	}
}

const scope = "github.com/kroma-labs/restapi"

// BaseURL returns the URL endpoints are appended to.
func (a *API) BaseURL() string { return a.baseURL }

// Auth returns the authenticator applied to every request.
func (a *API) Auth() *Authenticator { return a.auth }

// Decoders returns the registry configured with WithDecoders.
func (a *API) Decoders() *Decoders { return a.decoders }

// SetHeader sets a default header sent with every later request.
func (a *API) SetHeader(key, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.headers.Set(key, value)
}

// DelHeader removes a default header.
func (a *API) DelHeader(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.headers.Del(key)
}

// Headers returns a copy of the default headers.
func (a *API) Headers() http.Header {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.headers.Clone()
}

// defaultHeaders accepts JSON in the user's language.
func defaultHeaders(getenv func(string) string) http.Header {
	h := make(http.Header)
	h.Set("Accept", "application/json")
	h.Set("Accept-Language", preferredLanguage(getenv))
	return h
}

// preferredLanguage returns the base language of the POSIX locale, or "en".
func preferredLanguage(getenv func(string) string) string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		loc := getenv(name)
		if loc == "" || loc == "C" || loc == "POSIX" {
			continue
		}
		if i := strings.IndexAny(loc, ".@"); i >= 0 {
			loc = loc[:i]
		}
		tag, err := language.Parse(strings.ReplaceAll(loc, "_", "-"))
		if err != nil {
			continue
		}
		if base, conf := tag.Base(); conf != language.No {
			return base.String()
		}
	}
	return "en"
}
