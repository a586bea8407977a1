package httpclient

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// generateCurlCommand creates a cURL command equivalent for the given request.
//
// Example output:
//
//	curl -X POST 'https://api.example.com/posts' -H 'Content-Type: application/json' -d '{"title":"x"}'
func generateCurlCommand(req *http.Request, body []byte) string {
	parts := []string{"curl"}

	if req.Method != http.MethodGet {
		parts = append(parts, "-X", req.Method)
	}

	parts = append(parts, shellQuote(req.URL.String()))

	keys := make([]string, 0, len(req.Header))
	for k := range req.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range req.Header[k] {
			parts = append(parts, "-H", shellQuote(fmt.Sprintf("%s: %s", k, v)))
		}
	}

	if len(body) > 0 {
		parts = append(parts, "--data-binary", shellQuote(string(body)))
	}

	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func logRequest(logger zerolog.Logger, req *http.Request) {
	logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int64("content_length", req.ContentLength).
		Msg("HTTP request")
}

func logResponse(logger zerolog.Logger, req *http.Request, ex *Exchange) {
	logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", ex.StatusCode).
		Dur("duration", ex.Duration).
		Int("body_bytes", len(ex.Body)).
		Msg("HTTP response")
}

func logFailure(logger zerolog.Logger, req *http.Request, err error, duration time.Duration) {
	logger.Debug().
		Err(err).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("error_type", classifyError(err)).
		Dur("duration", duration).
		Msg("HTTP request failed")
}
