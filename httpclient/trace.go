package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http/httptrace"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Error type classifications for the error.type attribute.
const (
	ErrorTypeTimeout           = "timeout"
	ErrorTypeConnectionRefused = "connection_refused"
	ErrorTypeDNSError          = "dns_error"
	ErrorTypeTLSError          = "tls_error"
	ErrorTypeCancelled         = "cancelled"
	ErrorTypeConnectionReset   = "connection_reset"
	ErrorTypeEOF               = "eof"
	ErrorTypeRateLimited       = "rate_limited"
	ErrorTypeCircuitOpen       = "circuit_open"
	ErrorTypeUnknown           = "unknown"
)

// networkTrace records connection milestones from httptrace callbacks.
// Callbacks may fire on transport goroutines, hence the mutex.
type networkTrace struct {
	mu sync.Mutex

	dnsStart, dnsDone         time.Time
	connectStart, connectDone time.Time
	tlsStart, tlsDone         time.Time
	gotConn                   time.Time
	firstByte                 time.Time

	connReused bool
	remoteAddr string
}

func (nt *networkTrace) mark(dst *time.Time) {
	nt.mu.Lock()
	*dst = time.Now()
	nt.mu.Unlock()
}

func (nt *networkTrace) clientTrace() *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		DNSStart:          func(httptrace.DNSStartInfo) { nt.mark(&nt.dnsStart) },
		DNSDone:           func(httptrace.DNSDoneInfo) { nt.mark(&nt.dnsDone) },
		ConnectStart:      func(_, _ string) { nt.mark(&nt.connectStart) },
		ConnectDone:       func(_, _ string, _ error) { nt.mark(&nt.connectDone) },
		TLSHandshakeStart: func() { nt.mark(&nt.tlsStart) },
		TLSHandshakeDone: func(tls.ConnectionState, error) {
			nt.mark(&nt.tlsDone)
		},
		GotConn: func(info httptrace.GotConnInfo) {
			nt.mu.Lock()
			defer nt.mu.Unlock()
			nt.gotConn = time.Now()
			nt.connReused = info.Reused
			if info.Conn != nil && info.Conn.RemoteAddr() != nil {
				nt.remoteAddr = info.Conn.RemoteAddr().String()
			}
		},
		GotFirstResponseByte: func() { nt.mark(&nt.firstByte) },
	}
}

// addTraceEvents adds one span event per completed network phase.
func (nt *networkTrace) addTraceEvents(span trace.Span) {
	nt.mu.Lock()
	defer nt.mu.Unlock()

	phase := func(name string, start, end time.Time) {
		if start.IsZero() || end.IsZero() {
			return
		}
		span.AddEvent(name, trace.WithTimestamp(end), trace.WithAttributes(
			attribute.Int64(name+".duration_ms", end.Sub(start).Milliseconds()),
		))
	}

	phase("dns", nt.dnsStart, nt.dnsDone)
	phase("connect", nt.connectStart, nt.connectDone)
	phase("tls", nt.tlsStart, nt.tlsDone)

	if !nt.gotConn.IsZero() {
		span.AddEvent("got_conn", trace.WithTimestamp(nt.gotConn), trace.WithAttributes(
			attribute.Bool("connection.reused", nt.connReused),
			attribute.String("network.peer.address", nt.remoteAddr),
		))
	}
	if !nt.firstByte.IsZero() {
		span.AddEvent("got_first_response_byte", trace.WithTimestamp(nt.firstByte))
	}
}

// classifyError returns an error.type classification for the given error.
func classifyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, context.Canceled):
		return ErrorTypeCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	case errors.Is(err, ErrRateLimited):
		return ErrorTypeRateLimited
	case errors.Is(err, ErrCircuitOpen):
		return ErrorTypeCircuitOpen
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTypeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrorTypeDNSError
	}

	var tlsRecordErr *tls.RecordHeaderError
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &tlsRecordErr) || errors.As(err, &certErr) {
		return ErrorTypeTLSError
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return ErrorTypeConnectionRefused
	case errors.Is(err, syscall.ECONNRESET):
		return ErrorTypeConnectionReset
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return ErrorTypeEOF
	}

	// Some transports only expose these conditions through the message.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return ErrorTypeTimeout
	case strings.Contains(msg, "connection refused"):
		return ErrorTypeConnectionRefused
	case strings.Contains(msg, "connection reset"):
		return ErrorTypeConnectionReset
	case strings.Contains(msg, "no such host"):
		return ErrorTypeDNSError
	case strings.Contains(msg, "x509"), strings.Contains(msg, "certificate"):
		return ErrorTypeTLSError
	}

	return ErrorTypeUnknown
}

// errorTypeFromStatusCode returns error.type for HTTP status codes.
// Per OTel semconv, the status code itself is the error type for 4xx/5xx.
func errorTypeFromStatusCode(statusCode int) string {
	if statusCode >= 400 {
		return strconv.Itoa(statusCode)
	}
	return ""
}

// setSpanError records an error on the span with status and error.type.
func setSpanError(span trace.Span, err error, errorType string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if errorType != "" {
		span.SetAttributes(attribute.String("error.type", errorType))
	}
}
