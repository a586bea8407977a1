package restapi

import (
	"context"
	"net/http"

	"github.com/kroma-labs/restapi/httpclient"
)

// Completion receives the outcome of a request. status is nil when no
// response arrived; object is nil when there was no body or it failed
// to decode.
type Completion[T any] func(status *Status, object *T)

type call struct {
	query  Query
	body   Payload
	header http.Header
}

// CallOption configures a single request.
type CallOption func(*call)

// WithQuery appends q to the request URL, keys as top-level names.
func WithQuery(q Query) CallOption {
	return func(c *call) {
		if c.query == nil {
			c.query = make(Query, len(q))
		}
		for k, v := range q {
			c.query[k] = v
		}
	}
}

// WithBody sets the request body.
func WithBody(p Payload) CallOption {
	return func(c *call) {
		c.body = p
	}
}

// WithHeader sets a header on this request only. It wins over defaults
// and over the payload's Content-Type.
func WithHeader(key, value string) CallOption {
	return func(c *call) {
		if c.header == nil {
			c.header = make(http.Header)
		}
		c.header.Set(key, value)
	}
}

func newCall(opts []CallOption) *call {
	c := &call{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET. See Send.
func Get[T any](
	ctx context.Context,
	a *API,
	endpoint string,
	codec ResponseCodec[T],
	completion Completion[T],
	opts ...CallOption,
) error {
	return Send(ctx, a, http.MethodGet, endpoint, codec, completion, opts...)
}

// Post issues a POST. See Send.
func Post[T any](
	ctx context.Context,
	a *API,
	endpoint string,
	codec ResponseCodec[T],
	completion Completion[T],
	opts ...CallOption,
) error {
	return Send(ctx, a, http.MethodPost, endpoint, codec, completion, opts...)
}

// Put issues a PUT. See Send.
func Put[T any](
	ctx context.Context,
	a *API,
	endpoint string,
	codec ResponseCodec[T],
	completion Completion[T],
	opts ...CallOption,
) error {
	return Send(ctx, a, http.MethodPut, endpoint, codec, completion, opts...)
}

// Delete issues a DELETE. See Send.
func Delete[T any](
	ctx context.Context,
	a *API,
	endpoint string,
	codec ResponseCodec[T],
	completion Completion[T],
	opts ...CallOption,
) error {
	return Send(ctx, a, http.MethodDelete, endpoint, codec, completion, opts...)
}

// Patch issues a PATCH. See Send.
func Patch[T any](
	ctx context.Context,
	a *API,
	endpoint string,
	codec ResponseCodec[T],
	completion Completion[T],
	opts ...CallOption,
) error {
	return Send(ctx, a, http.MethodPatch, endpoint, codec, completion, opts...)
}

// Send builds, authenticates and dispatches a request, then calls
// completion exactly once from the transport's goroutine.
//
// An error is returned only when the request could not be built, for
// example when the body fails to encode. Nothing is sent in that case
// and completion is never called.
func Send[T any](
	ctx context.Context,
	a *API,
	method, endpoint string,
	codec ResponseCodec[T],
	completion Completion[T],
	opts ...CallOption,
) error {
	req, body, err := a.prepare(ctx, method, endpoint, newCall(opts))
	if err != nil {
		return err
	}

	a.dispatch(ctx, req, body, func(ex *httpclient.Exchange, err error) {
		status, obj := decodeExchange(a, req, codec, ex, err)
		completion(status, obj)
	})
	return nil
}

// Result is the outcome of a synchronous Do.
type Result[T any] struct {
	Status Status
	Value  *T

	// DecodeErr is set when the body was present but did not decode.
	DecodeErr error

	Exchange *httpclient.Exchange
}

// Do is the blocking form of Send. The error is non-nil when the request
// could not be built or no response arrived.
func Do[T any](
	ctx context.Context,
	a *API,
	method, endpoint string,
	codec ResponseCodec[T],
	opts ...CallOption,
) (Result[T], error) {
	req, body, err := a.prepare(ctx, method, endpoint, newCall(opts))
	if err != nil {
		return Result[T]{}, err
	}

	ex, err := a.roundTrip(ctx, req, body)
	if err != nil {
		a.logTransportError(req, err)
		return Result[T]{}, err
	}
	if ex == nil {
		return Result[T]{}, ErrNoContent
	}

	res := Result[T]{Status: Classify(ex.StatusCode), Exchange: ex}
	a.logErrorStatus(req, res.Status, ex)
	if ex.HasBody() {
		v, err := codec.Decode(ex.Body)
		if err != nil {
			res.DecodeErr = err
		} else {
			res.Value = &v
		}
	}
	return res, nil
}

// prepare builds and authenticates a request. body is the encoded payload,
// kept for request logging.
func (a *API) prepare(ctx context.Context, method, endpoint string, c *call) (*http.Request, []byte, error) {
	req, body, err := a.buildRequest(ctx, method, endpoint, c)
	if err != nil {
		return nil, nil, err
	}
	return a.auth.Decorate(req), body, nil
}

// dispatch logs req and hands it to the transport.
func (a *API) dispatch(ctx context.Context, req *http.Request, body []byte, done func(*httpclient.Exchange, error)) {
	a.logRequest(req, body)
	a.transport.Dispatch(ctx, req, done)
}

// roundTrip waits for a single dispatch.
func (a *API) roundTrip(ctx context.Context, req *http.Request, body []byte) (*httpclient.Exchange, error) {
	type outcome struct {
		ex  *httpclient.Exchange
		err error
	}
	ch := make(chan outcome, 1)
	a.dispatch(ctx, req, body, func(ex *httpclient.Exchange, err error) {
		ch <- outcome{ex, err}
	})
	o := <-ch
	return o.ex, o.err
}

func decodeExchange[T any](
	a *API,
	req *http.Request,
	codec ResponseCodec[T],
	ex *httpclient.Exchange,
	err error,
) (*Status, *T) {
	if err != nil || ex == nil {
		a.logTransportError(req, err)
		return nil, nil
	}

	status := ClassifyExchange(ex)
	a.logErrorStatus(req, *status, ex)

	if !ex.HasBody() {
		return status, nil
	}
	v, err := codec.Decode(ex.Body)
	if err != nil {
		a.logger.Debug().Err(err).Str("url", req.URL.String()).Msg("response body did not decode")
		return status, nil
	}
	return status, &v
}
