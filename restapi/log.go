package restapi

import (
	"net/http"
	"sort"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/kroma-labs/restapi/httpclient"
)

func (a *API) logRequest(req *http.Request, body []byte) {
	if !a.logRequests {
		return
	}

	headers := zerolog.Dict()
	keys := make([]string, 0, len(req.Header))
	for k := range req.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		headers.Strs(k, req.Header[k])
	}

	ev := a.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Dict("headers", headers)
	switch {
	case len(body) == 0:
		ev = ev.Bool("empty_body", true)
	case utf8.Valid(body):
		ev = ev.Str("body", string(body))
	default:
		ev = ev.Int("body_bytes", len(body))
	}
	ev.Msg("request")
}

// logErrorStatus logs non-success responses. The body is rendered as JSON
// when it parses, as text when it is UTF-8, and omitted otherwise.
func (a *API) logErrorStatus(req *http.Request, status Status, ex *httpclient.Exchange) {
	if !a.logErrors || status.IsSuccess() {
		return
	}

	ev := a.logger.Warn().
		Str("url", req.URL.String()).
		Stringer("status", status).
		Int("code", ex.StatusCode)

	if tree, err := ParseJSON(ex.Body); err == nil && !tree.IsNull() {
		ev = ev.RawJSON("body", mustCompact(tree))
	} else if len(ex.Body) > 0 && utf8.Valid(ex.Body) {
		ev = ev.Str("body", string(ex.Body))
	}
	ev.Msg("request failed")
}

func (a *API) logTransportError(req *http.Request, err error) {
	if !a.logErrors {
		return
	}
	a.logger.Warn().
		Err(err).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("no response")
}

func mustCompact(j JSON) []byte {
	b, err := j.Raw()
	if err != nil {
		return []byte("null")
	}
	return b
}
