package restapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// URL resolves endpoint against the base URL.
func (a *API) URL(endpoint string) (*url.URL, error) {
	u, err := url.Parse(a.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("restapi: invalid URL %q: %w", a.baseURL+endpoint, err)
	}
	return u, nil
}

func supportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// buildRequest assembles an undecorated request. It fails without side
// effects when the method is unsupported, the URL is invalid or the
// payload cannot be encoded.
//
// Headers are layered: API defaults, then Content-Type from the payload
// (JSON when there is none), then per-call headers.
func (a *API) buildRequest(ctx context.Context, method, endpoint string, c *call) (*http.Request, []byte, error) {
	if !supportedMethod(method) {
		return nil, nil, fmt.Errorf("restapi: %w: %s", ErrUnsupportedMethod, method)
	}

	u, err := a.URL(endpoint)
	if err != nil {
		return nil, nil, err
	}
	appendQuery(u, EncodeQuery(c.query, ""))

	contentType := ContentTypeJSON
	var body []byte
	if c.body != nil {
		contentType = c.body.ContentType()
		if body, err = c.body.Encode(); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("restapi: build request: %w", err)
	}
	req.Header = a.Headers()
	req.Header.Set("Content-Type", contentType.HeaderValue())
	if c.body != nil {
		req.Header.Set("Content-Length", strconv.Itoa(len(body)))
	}
	for k, vs := range c.header {
		req.Header[k] = append([]string(nil), vs...)
	}

	return req, body, nil
}
