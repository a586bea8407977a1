package restapi

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// ResponseCodec turns response bytes into a T.
type ResponseCodec[T any] interface {
	Decode(data []byte) (T, error)
}

// CodecFunc adapts a function to ResponseCodec.
type CodecFunc[T any] func(data []byte) (T, error)

func (f CodecFunc[T]) Decode(data []byte) (T, error) { return f(data) }

// Bytes returns the response body unchanged.
func Bytes() ResponseCodec[[]byte] {
	return CodecFunc[[]byte](func(data []byte) ([]byte, error) {
		return data, nil
	})
}

// JSONTree parses the body into a JSON tree.
func JSONTree() ResponseCodec[JSON] {
	return CodecFunc[JSON](ParseJSON)
}

// Decodable decodes the body straight into T using the decoder decoders
// selects for T. A nil registry uses JSONDecoder{}.
func Decodable[T any](decoders *Decoders) ResponseCodec[T] {
	return CodecFunc[T](func(data []byte) (T, error) {
		var v T
		if err := DecoderFor[T](decoders).Decode(data, &v); err != nil {
			var zero T
			return zero, codecErr(fmt.Sprintf("decode %T", v), KindDecode, err)
		}
		return v, nil
	})
}

// Parse parses the body into a JSON tree and builds T from it with fn.
// Errors from fn are returned as they are.
func Parse[T any](fn func(JSON) (T, error)) ResponseCodec[T] {
	return CodecFunc[T](func(data []byte) (T, error) {
		tree, err := ParseJSON(data)
		if err != nil {
			var zero T
			return zero, err
		}
		return fn(tree)
	})
}

// Array requires a top-level JSON array and decodes every element's raw
// bytes with elem. The first failing element fails the whole decode.
func Array[T any](elem ResponseCodec[T]) ResponseCodec[[]T] {
	return CodecFunc[[]T](func(data []byte) ([]T, error) {
		trimmed := bytes.TrimSpace(data)
		if !wellFormed(trimmed) {
			return nil, codecErr("decode array", KindParse, errInvalidJSON)
		}
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, codecErr("decode array", KindParse, ErrNotArray)
		}

		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, codecErr("decode array", KindParse, err)
		}

		out := make([]T, 0, len(raws))
		for i, raw := range raws {
			v, err := elem.Decode(raw)
			if err != nil {
				return nil, fmt.Errorf("array element %d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	})
}

// Envelope carries whichever shapes of a response decoded successfully.
// Both, one or neither may be set.
type Envelope[D, E any] struct {
	Data  *D
	Error *E
}

// Dual attempts both codecs against the same body. It never fails.
func Dual[D, E any](data ResponseCodec[D], errShape ResponseCodec[E]) ResponseCodec[Envelope[D, E]] {
	return CodecFunc[Envelope[D, E]](func(body []byte) (Envelope[D, E], error) {
		var env Envelope[D, E]
		if d, err := data.Decode(body); err == nil {
			env.Data = &d
		}
		if e, err := errShape.Decode(body); err == nil {
			env.Error = &e
		}
		return env, nil
	})
}

// APIError is the conventional {"message": "..."} error body.
type APIError struct {
	Message string
}

func (e APIError) Error() string { return e.Message }

// ParseAPIError requires a string "message" member.
func ParseAPIError(j JSON) (APIError, error) {
	msg, ok := j.Get("message").String()
	if !ok {
		return APIError{}, codecErr("parse api error", KindMissingField, fmt.Errorf("%q", "message"))
	}
	return APIError{Message: msg}, nil
}

// APIErrorCodec decodes APIError bodies.
func APIErrorCodec() ResponseCodec[APIError] {
	return Parse(ParseAPIError)
}
