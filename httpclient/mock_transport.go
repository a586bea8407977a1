package httpclient

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync"
)

// ErrNoStub is returned by MockTransport when no stub matches a request.
var ErrNoStub = errors.New("httpclient: no stub for request")

// RecordedRequest is a request seen by MockTransport, with its body read.
type RecordedRequest struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// MockTransport is a stub http.RoundTripper for tests. Stubs are matched in
// registration order; the first match wins, then the default response.
type MockTransport struct {
	mu          sync.Mutex
	stubs       []stub
	fallback    *stub
	requests    []RecordedRequest
	requestHook func(*http.Request)
}

type stub struct {
	matcher func(*http.Request) bool
	status  int
	header  http.Header
	body    []byte
	err     error
}

func (s stub) response(req *http.Request) *http.Response {
	header := s.header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	return &http.Response{
		StatusCode:    s.status,
		Status:        http.StatusText(s.status),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(s.body)),
		ContentLength: int64(len(s.body)),
		Request:       req,
	}
}

// NewMockTransport creates a new MockTransport for testing.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// StubResponse answers every otherwise unmatched request with statusCode and body.
func (m *MockTransport) StubResponse(statusCode int, body string) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &stub{status: statusCode, body: []byte(body)}
	return m
}

// StubError fails every otherwise unmatched request with err.
func (m *MockTransport) StubError(err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &stub{err: err}
	return m
}

// StubPath answers requests for path.
func (m *MockTransport) StubPath(path string, statusCode int, body string) *MockTransport {
	return m.StubFunc(func(req *http.Request) bool {
		return req.URL.Path == path
	}, statusCode, body)
}

// StubJSON answers requests for path with a JSON body and content type.
func (m *MockTransport) StubJSON(path string, statusCode int, body string) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, stub{
		matcher: func(req *http.Request) bool { return req.URL.Path == path },
		status:  statusCode,
		header:  http.Header{"Content-Type": {"application/json"}},
		body:    []byte(body),
	})
	return m
}

// StubMethod answers requests with the given method.
func (m *MockTransport) StubMethod(method string, statusCode int, body string) *MockTransport {
	return m.StubFunc(func(req *http.Request) bool {
		return req.Method == method
	}, statusCode, body)
}

// StubFunc answers requests matching the predicate.
func (m *MockTransport) StubFunc(
	matcher func(*http.Request) bool,
	statusCode int,
	body string,
) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, stub{matcher: matcher, status: statusCode, body: []byte(body)})
	return m
}

// StubFuncError fails requests matching the predicate with err.
func (m *MockTransport) StubFuncError(matcher func(*http.Request) bool, err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, stub{matcher: matcher, err: err})
	return m
}

// OnRequest sets a hook called for each request before a stub is chosen.
func (m *MockTransport) OnRequest(fn func(*http.Request)) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestHook = fn
	return m
}

// RoundTrip implements http.RoundTripper.
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := RecordedRequest{
		Method: req.Method,
		URL:    req.URL,
		Header: req.Header.Clone(),
	}
	if req.Body != nil {
		rec.Body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}

	m.mu.Lock()
	m.requests = append(m.requests, rec)
	hook := m.requestHook
	m.mu.Unlock()

	if hook != nil {
		hook(req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.stubs {
		if s.matcher(req) {
			if s.err != nil {
				return nil, s.err
			}
			return s.response(req), nil
		}
	}

	if m.fallback != nil {
		if m.fallback.err != nil {
			return nil, m.fallback.err
		}
		return m.fallback.response(req), nil
	}

	return nil, errors.Join(ErrNoStub, errors.New(req.Method+" "+req.URL.String()))
}

// Requests returns all requests made through this transport.
func (m *MockTransport) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// RequestCount returns the number of requests made.
func (m *MockTransport) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// PathCount returns the number of requests made for path.
func (m *MockTransport) PathCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.requests {
		if r.URL.Path == path {
			n++
		}
	}
	return n
}

// LastRequest returns the most recent request. ok is false if there was none.
func (m *MockTransport) LastRequest() (req RecordedRequest, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return RecordedRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// Reset clears all recorded requests and stubs.
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.stubs = nil
	m.fallback = nil
	m.requestHook = nil
}
