package restapi

import (
	"net/http"
	"sync"
)

// AuthMode selects where credentials are attached.
type AuthMode int

const (
	AuthNone AuthMode = iota
	AuthHeader
	AuthQueryParameter
)

func (m AuthMode) String() string {
	switch m {
	case AuthHeader:
		return "header"
	case AuthQueryParameter:
		return "query-parameter"
	default:
		return "none"
	}
}

// Authenticator decorates outgoing requests with an access token.
// It is safe to reconfigure while requests are in flight; each request
// sees one consistent snapshot of mode, key and token.
type Authenticator struct {
	mu    sync.RWMutex
	mode  AuthMode
	key   string
	token string
}

// NewAuthenticator returns an Authenticator in AuthNone mode.
func NewAuthenticator() *Authenticator {
	return &Authenticator{}
}

// HeaderAuth sends token in the header named key.
func HeaderAuth(key, token string) *Authenticator {
	return &Authenticator{mode: AuthHeader, key: key, token: token}
}

// QueryAuth sends token as the query parameter named key.
func QueryAuth(key, token string) *Authenticator {
	return &Authenticator{mode: AuthQueryParameter, key: key, token: token}
}

// BearerAuth sends "Authorization: Bearer <token>".
func BearerAuth(token string) *Authenticator {
	return HeaderAuth("Authorization", "Bearer "+token)
}

// Configure replaces mode, key and token at once.
func (a *Authenticator) Configure(mode AuthMode, key, token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode, a.key, a.token = mode, key, token
}

func (a *Authenticator) SetMode(mode AuthMode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = mode
}

func (a *Authenticator) SetKey(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.key = key
}

func (a *Authenticator) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

// Clear drops the token, typically on logout. Mode and key are kept.
func (a *Authenticator) Clear() {
	a.SetToken("")
}

func (a *Authenticator) Mode() AuthMode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *Authenticator) Key() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.key
}

func (a *Authenticator) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// HasSession reports whether a token is set.
func (a *Authenticator) HasSession() bool {
	return a.Token() != ""
}

// Decorate returns req with credentials attached. When the mode is
// AuthNone, or key or token is empty, req itself is returned. Otherwise
// the result is a clone and req is left untouched.
func (a *Authenticator) Decorate(req *http.Request) *http.Request {
	if a == nil {
		return req
	}

	a.mu.RLock()
	mode, key, token := a.mode, a.key, a.token
	a.mu.RUnlock()

	if key == "" || token == "" {
		return req
	}

	switch mode {
	case AuthHeader:
		out := req.Clone(req.Context())
		out.Header.Set(key, token)
		return out
	case AuthQueryParameter:
		out := req.Clone(req.Context())
		appendQuery(out.URL, []QueryItem{{Name: key, Value: token}})
		return out
	default:
		return req
	}
}
