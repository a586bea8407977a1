package posts

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/kroma-labs/restapi/cachestore"
	"github.com/kroma-labs/restapi/example/posts/internal/config"
	"github.com/kroma-labs/restapi/httpclient"
	"github.com/kroma-labs/restapi/restapi"
)

type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Client wraps the posts API with a file-backed cache.
type Client struct {
	api    *restapi.API
	cache  restapi.Persisted[[]Post]
	logger zerolog.Logger
}

func New(logger zerolog.Logger) (*Client, error) {
	store, err := cachestore.NewFileStore(filepath.Join(os.TempDir(), config.CacheDir))
	if err != nil {
		return nil, err
	}

	api := restapi.New(config.BaseURL,
		restapi.WithLogger(logger),
		restapi.WithErrorLogging(),
		restapi.WithCoalescedLoads(),
		restapi.WithHTTPClient(
			httpclient.WithServiceName(config.ServiceName),
			httpclient.WithConfig(httpclient.ConservativeConfig()),
			httpclient.WithRateLimit(httpclient.RateLimitConfig{RequestsPerSecond: 2, Burst: 1, WaitOnLimit: true}),
			httpclient.WithBreaker(httpclient.DefaultBreakerConfig()),
		),
	)

	return &Client{
		api:    api,
		cache:  restapi.JSONCache[[]Post](store, api.Decoders()),
		logger: logger,
	}, nil
}

// LoadUserPosts reports the cached posts first, then the fresh ones.
func (c *Client) LoadUserPosts(ctx context.Context, onPosts func([]Post)) error {
	return restapi.Load(ctx, c.api, "/posts?userId="+config.UserID, restapi.RefreshCache, c.cache,
		func(posts *[]Post) {
			if posts == nil {
				c.logger.Warn().Msg("no posts available")
				return
			}
			onPosts(*posts)
		})
}

// Create posts a new entry and waits for the echoed copy.
func (c *Client) Create(ctx context.Context, p Post) (Post, error) {
	res, err := restapi.Do(ctx, c.api, http.MethodPost, "/posts",
		restapi.Decodable[Post](c.api.Decoders()),
		restapi.WithBody(restapi.JSONBody(p)))
	if err != nil {
		return Post{}, err
	}
	if !res.Status.IsSuccess() || res.Value == nil {
		return Post{}, fmt.Errorf("create post: %s", res.Status)
	}
	return *res.Value, nil
}

// Missing fetches a post that does not exist to show the error shape.
func (c *Client) Missing(ctx context.Context) (string, error) {
	res, err := restapi.Do(ctx, c.api, http.MethodGet, "/posts/0",
		restapi.Dual(restapi.Decodable[Post](nil), restapi.APIErrorCodec()))
	if err != nil {
		return "", err
	}
	return res.Status.String(), nil
}
