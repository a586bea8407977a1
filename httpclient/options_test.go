package httpclient

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestConfigPresets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		cfg               Config
		wantTimeout       time.Duration
		wantIdlePerHost   int
		wantMaxResponse   int64
		wantForceHTTP2    bool
		wantHeaderTimeout time.Duration
	}{
		{
			name:            "given DefaultConfig, then balanced values",
			cfg:             DefaultConfig(),
			wantTimeout:     15 * time.Second,
			wantIdlePerHost: 20,
			wantMaxResponse: defaultMaxResponseBytes,
		},
		{
			name:              "given LowLatencyConfig, then fails fast",
			cfg:               LowLatencyConfig(),
			wantTimeout:       5 * time.Second,
			wantIdlePerHost:   25,
			wantMaxResponse:   defaultMaxResponseBytes,
			wantForceHTTP2:    true,
			wantHeaderTimeout: 3 * time.Second,
		},
		{
			name:            "given ConservativeConfig, then small pool and body cap",
			cfg:             ConservativeConfig(),
			wantTimeout:     10 * time.Second,
			wantIdlePerHost: 5,
			wantMaxResponse: 4 << 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantTimeout, tt.cfg.Timeout)
			assert.Equal(t, tt.wantIdlePerHost, tt.cfg.MaxIdleConnsPerHost)
			assert.Equal(t, tt.wantMaxResponse, tt.cfg.MaxResponseBytes)
			assert.Equal(t, tt.wantForceHTTP2, tt.cfg.ForceHTTP2)
			assert.Equal(t, tt.wantHeaderTimeout, tt.cfg.ResponseHeaderTimeout)
			assert.True(t, tt.cfg.DisableCompression)
		})
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := newConfig()

	assert.Equal(t, DefaultConfig(), cfg.httpConfig)
	assert.True(t, cfg.EnableNetworkTrace)
	assert.True(t, cfg.ProxyFromEnvironment)
	assert.NotNil(t, cfg.Tracer)
	assert.NotNil(t, cfg.Meter)
	assert.NotNil(t, cfg.Metrics)
	assert.NotNil(t, cfg.Propagators)
	assert.Nil(t, cfg.RateLimit)
	assert.Nil(t, cfg.BreakerConfig)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.baseAttributes())
}

func TestOptions(t *testing.T) {
	t.Parallel()

	proxy, err := url.Parse("http://proxy.internal:3128")
	require.NoError(t, err)
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS13}
	mt := NewMockTransport()

	cfg := newConfig(
		WithServiceName("posts-api"),
		WithProxyURL(proxy),
		WithTLSConfig(tlsCfg),
		WithDisableNetworkTrace(),
		WithMockTransport(mt),
		WithRateLimit(DefaultRateLimitConfig()),
		WithBreaker(DefaultBreakerConfig()),
		WithDebug(),
		WithGenerateCurl(),
	)

	assert.Equal(t, "posts-api", cfg.ServiceName)
	assert.Equal(t, []attribute.KeyValue{attribute.String("http.client.name", "posts-api")}, cfg.baseAttributes())
	assert.False(t, cfg.EnableNetworkTrace)
	assert.False(t, cfg.ProxyFromEnvironment)
	assert.Same(t, mt, cfg.BaseTransport)
	require.NotNil(t, cfg.RateLimit)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	require.NotNil(t, cfg.BreakerConfig)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.GenerateCurl)

	tr := cfg.buildTransport()
	assert.Same(t, tlsCfg, tr.TLSClientConfig)
	require.NotNil(t, tr.Proxy)
	got, err := tr.Proxy(&http.Request{URL: &url.URL{Scheme: "https", Host: "api.example.com"}})
	require.NoError(t, err)
	assert.Equal(t, proxy, got)
}

func TestMaxResponseBytes(t *testing.T) {
	t.Parallel()

	cfg := newConfig(WithConfig(Config{}))
	assert.Equal(t, int64(defaultMaxResponseBytes), cfg.maxResponseBytes())

	custom := DefaultConfig()
	custom.MaxResponseBytes = 1024
	cfg = newConfig(WithConfig(custom))
	assert.Equal(t, int64(1024), cfg.maxResponseBytes())
}
