package restapi

import (
	"strconv"

	"github.com/kroma-labs/restapi/httpclient"
)

// StatusKind names a classified HTTP status.
type StatusKind int

const (
	StatusOther StatusKind = iota
	StatusOK
	StatusCreated
	StatusAccepted
	StatusNoContent
	StatusResetContent
	StatusPartialContent
	StatusMultipleChoice
	StatusBadRequest
	StatusUnauthorized
	StatusForbidden
	StatusNotFound
	StatusMethodNotAllowed
	StatusNotAcceptable
	StatusRequestTimeout
	StatusConflict
	StatusServerError
	StatusNotImplemented
	StatusGatewayTimeout
)

var kindNames = [...]string{
	StatusOther:            "other",
	StatusOK:               "ok",
	StatusCreated:          "created",
	StatusAccepted:         "accepted",
	StatusNoContent:        "noContent",
	StatusResetContent:     "resetContent",
	StatusPartialContent:   "partialContent",
	StatusMultipleChoice:   "multipleChoice",
	StatusBadRequest:       "badRequest",
	StatusUnauthorized:     "unauthorized",
	StatusForbidden:        "forbidden",
	StatusNotFound:         "notFound",
	StatusMethodNotAllowed: "methodNotAllowed",
	StatusNotAcceptable:    "notAcceptable",
	StatusRequestTimeout:   "requestTimeout",
	StatusConflict:         "conflict",
	StatusServerError:      "serverError",
	StatusNotImplemented:   "notImplemented",
	StatusGatewayTimeout:   "gatewayTimeout",
}

func (k StatusKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "StatusKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// exactCodes is consulted before the 5xx range fallback.
var exactCodes = map[int]StatusKind{
	200: StatusOK,
	201: StatusCreated,
	202: StatusAccepted,
	204: StatusNoContent,
	205: StatusResetContent,
	206: StatusPartialContent,
	300: StatusMultipleChoice,
	400: StatusBadRequest,
	401: StatusUnauthorized,
	403: StatusForbidden,
	404: StatusNotFound,
	405: StatusMethodNotAllowed,
	406: StatusNotAcceptable,
	408: StatusRequestTimeout,
	409: StatusConflict,
	501: StatusNotImplemented,
	504: StatusGatewayTimeout,
}

var canonicalCodes = func() map[StatusKind]int {
	m := make(map[StatusKind]int, len(exactCodes)+1)
	for code, kind := range exactCodes {
		m[kind] = code
	}
	m[StatusServerError] = 500
	return m
}()

// Status is the classified outcome of a completed exchange.
//
// Statuses compare with ==: the raw code is carried only by StatusOther,
// so Classify(502) == Classify(503).
type Status struct {
	kind StatusKind
	code int
}

// Classify maps an HTTP status code to a Status. It is total: every int
// yields exactly one Status.
func Classify(code int) Status {
	if kind, ok := exactCodes[code]; ok {
		return Status{kind: kind}
	}
	if code >= 500 && code <= 599 {
		return Status{kind: StatusServerError}
	}
	return Status{kind: StatusOther, code: code}
}

// ClassifyExchange returns nil when no response was received.
func ClassifyExchange(ex *httpclient.Exchange) *Status {
	if ex == nil {
		return nil
	}
	s := Classify(ex.StatusCode)
	return &s
}

// OtherStatus returns the fallback variant wrapping code, regardless of
// whether code has a named variant.
func OtherStatus(code int) Status {
	return Status{kind: StatusOther, code: code}
}

// Kind returns the variant.
func (s Status) Kind() StatusKind {
	return s.kind
}

// Code returns the wrapped code for StatusOther and the canonical code
// (500 for StatusServerError) for named variants.
func (s Status) Code() int {
	if s.kind == StatusOther {
		return s.code
	}
	return canonicalCodes[s.kind]
}

func (s Status) IsSuccess() bool {
	switch s.kind {
	case StatusOK, StatusCreated, StatusAccepted, StatusNoContent, StatusResetContent, StatusPartialContent:
		return true
	case StatusOther:
		return s.code >= 200 && s.code <= 299
	}
	return false
}

func (s Status) IsClientError() bool {
	switch s.kind {
	case StatusBadRequest, StatusUnauthorized, StatusForbidden, StatusNotFound,
		StatusMethodNotAllowed, StatusNotAcceptable, StatusRequestTimeout, StatusConflict:
		return true
	case StatusOther:
		return s.code >= 400 && s.code <= 499
	}
	return false
}

func (s Status) IsServerError() bool {
	switch s.kind {
	case StatusServerError, StatusNotImplemented, StatusGatewayTimeout:
		return true
	case StatusOther:
		return s.code >= 500 && s.code <= 599
	}
	return false
}

func (s Status) String() string {
	if s.kind == StatusOther {
		return "other(" + strconv.Itoa(s.code) + ")"
	}
	return s.kind.String()
}
