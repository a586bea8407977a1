package restapi

import (
	"bytes"
	"context"
	"net/http"
	"sync"

	"github.com/goccy/go-json"

	"github.com/kroma-labs/restapi/httpclient"
)

// CachePolicy decides how Load combines a persisted copy with a network fetch.
type CachePolicy int

const (
	// Newest delivers whichever of the cached copy and the network result
	// is available first, exactly once. The network result is persisted
	// even when the cached copy won. This is the zero value.
	Newest CachePolicy = iota

	// NoCache never reads or writes the cache.
	NoCache

	// AcceptCache delivers a cached copy and stops; only a miss goes to
	// the network.
	AcceptCache

	// RefreshCache delivers the cached copy, if any, then always fetches,
	// persists and delivers the network result. Completion may run twice,
	// cached value first.
	RefreshCache
)

func (p CachePolicy) String() string {
	switch p {
	case NoCache:
		return "noCache"
	case AcceptCache:
		return "acceptCache"
	case RefreshCache:
		return "refreshCache"
	default:
		return "newest"
	}
}

// Store holds persisted response bytes addressed by request URL.
// Get returns an error, any error, when there is nothing usable.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}

// Cacheable is a response codec that can also load and persist values.
type Cacheable[T any] interface {
	ResponseCodec[T]
	Cached(ctx context.Context, key string) (T, error)
	Persist(ctx context.Context, key string, v T) error
}

// Persisted makes a response codec cacheable through a Store.
type Persisted[T any] struct {
	Codec  ResponseCodec[T]
	Encode func(T) ([]byte, error)
	Store  Store
}

func (p Persisted[T]) Decode(data []byte) (T, error) {
	return p.Codec.Decode(data)
}

func (p Persisted[T]) Cached(ctx context.Context, key string) (T, error) {
	data, err := p.Store.Get(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.Codec.Decode(data)
}

func (p Persisted[T]) Persist(ctx context.Context, key string, v T) error {
	data, err := p.Encode(v)
	if err != nil {
		return err
	}
	return p.Store.Set(ctx, key, data)
}

// BytesCache caches raw response bodies, e.g. images or documents.
func BytesCache(store Store) Persisted[[]byte] {
	return Persisted[[]byte]{
		Codec:  Bytes(),
		Encode: func(b []byte) ([]byte, error) { return b, nil },
		Store:  store,
	}
}

// JSONCache caches T as JSON, decoding with the registry's decoder for T.
func JSONCache[T any](store Store, decoders *Decoders) Persisted[T] {
	return Persisted[T]{
		Codec: Decodable[T](decoders),
		Encode: func(v T) ([]byte, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, codecErr("encode cache entry", KindSerialize, err)
			}
			return b, nil
		},
		Store: store,
	}
}

// Load fetches endpoint with GET under policy, consulting cache as the
// policy allows. The cache key is the resolved request URL.
//
// completion receives nil when nothing could be delivered. Cache read and
// write failures are never reported; they only show up in debug logs and
// metrics. An error is returned only when the request cannot be built.
func Load[T any](
	ctx context.Context,
	a *API,
	endpoint string,
	policy CachePolicy,
	cache Cacheable[T],
	completion func(*T),
) error {
	req, _, err := a.prepare(ctx, http.MethodGet, endpoint, &call{})
	if err != nil {
		return err
	}
	u, err := a.URL(endpoint)
	if err != nil {
		return err
	}
	l := &loader[T]{ctx: ctx, api: a, req: req, key: u.String(), cache: cache}

	switch policy {
	case NoCache:
		l.fetch(func(v *T, _ bool) { completion(v) })

	case AcceptCache:
		if v, ok := l.read(); ok {
			completion(v)
			return nil
		}
		l.fetch(l.persistThen(completion))

	case RefreshCache:
		if v, ok := l.read(); ok {
			completion(v)
		}
		l.fetch(l.persistThen(completion))

	default:
		l.race(completion)
	}
	return nil
}

type loader[T any] struct {
	ctx   context.Context
	api   *API
	req   *http.Request
	key   string
	cache Cacheable[T]
}

// read returns the cached value, if any.
func (l *loader[T]) read() (*T, bool) {
	v, err := l.cache.Cached(l.ctx, l.key)
	if err != nil {
		l.api.metrics.recordLookup(l.ctx, false)
		l.api.logger.Debug().Err(err).Str("key", l.key).Msg("cache miss")
		return nil, false
	}
	l.api.metrics.recordLookup(l.ctx, true)
	return &v, true
}

// fetch performs the GET and reports the decoded value and whether the
// response was a success worth persisting.
func (l *loader[T]) fetch(done func(v *T, ok bool)) {
	handle := func(ex *httpclient.Exchange, err error) {
		status, v := decodeExchange[T](l.api, l.req, l.cache, ex, err)
		done(v, v != nil && status != nil && status.IsSuccess())
	}

	if !l.api.coalesce {
		l.api.dispatch(l.ctx, l.req, nil, handle)
		return
	}

	go func() {
		res, err, _ := l.api.flights.Do(l.key, func() (any, error) {
			return l.api.roundTrip(context.WithoutCancel(l.ctx), l.req, nil)
		})
		ex, _ := res.(*httpclient.Exchange)
		handle(ownCopy(ex), err)
	}()
}

// ownCopy gives each coalesced caller its own body and header.
func ownCopy(ex *httpclient.Exchange) *httpclient.Exchange {
	if ex == nil {
		return nil
	}
	cp := *ex
	cp.Header = ex.Header.Clone()
	cp.Body = bytes.Clone(ex.Body)
	return &cp
}

func (l *loader[T]) persist(v *T) {
	if err := l.cache.Persist(l.ctx, l.key, *v); err != nil {
		l.api.metrics.recordWrite(l.ctx, false)
		l.api.logger.Debug().Err(err).Str("key", l.key).Msg("cache write failed")
		return
	}
	l.api.metrics.recordWrite(l.ctx, true)
}

func (l *loader[T]) persistThen(completion func(*T)) func(*T, bool) {
	return func(v *T, ok bool) {
		if ok {
			l.persist(v)
		}
		completion(v)
	}
}

// race runs the cache read and the network fetch concurrently and
// delivers the first content either produces: a cached value, or a
// successful network result. A network result with an error status is
// delivered only when the cache missed too. If neither produces a value,
// completion gets nil after both have finished.
func (l *loader[T]) race(completion func(*T)) {
	var (
		mu        sync.Mutex
		delivered bool
		pending   = 2
		fallback  *T
	)
	finish := func(v *T, wins bool) {
		mu.Lock()
		pending--
		if !wins && v != nil {
			fallback = v
		}
		var out *T
		deliver := false
		switch {
		case delivered:
		case wins:
			out, deliver = v, true
		case pending == 0:
			out, deliver = fallback, true
		}
		if deliver {
			delivered = true
		}
		mu.Unlock()

		if deliver {
			completion(out)
		}
	}

	l.fetch(func(v *T, ok bool) {
		if ok {
			l.persist(v)
		}
		finish(v, ok)
	})

	go func() {
		v, ok := l.read()
		finish(v, ok)
	}()
}
