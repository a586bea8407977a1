package restapi

import (
	"bytes"
	"reflect"
	"sync"

	"github.com/goccy/go-json"
)

// Decoder fills v from data.
type Decoder interface {
	Decode(data []byte, v any) error
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte, v any) error

func (f DecoderFunc) Decode(data []byte, v any) error { return f(data, v) }

// JSONDecoder decodes JSON with goccy/go-json.
type JSONDecoder struct {
	// DisallowUnknownFields rejects object keys with no matching field.
	DisallowUnknownFields bool

	// UseNumber decodes numbers into interface values as json.Number.
	UseNumber bool
}

func (d JSONDecoder) Decode(data []byte, v any) error {
	if !wellFormed(data) {
		return errInvalidJSON
	}
	if !d.DisallowUnknownFields && !d.UseNumber {
		return json.Unmarshal(data, v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if d.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if d.UseNumber {
		dec.UseNumber()
	}
	return dec.Decode(v)
}

// Decoders selects a Decoder per target type, falling back to a default.
// A Decoders value is configuration: build one, register overrides, and
// hand it to New via WithDecoders or to Decodable directly.
type Decoders struct {
	mu       sync.RWMutex
	byType   map[reflect.Type]Decoder
	fallback Decoder
}

// NewDecoders returns a registry using fallback for unregistered types.
// A nil fallback means JSONDecoder{}.
func NewDecoders(fallback Decoder) *Decoders {
	if fallback == nil {
		fallback = JSONDecoder{}
	}
	return &Decoders{
		byType:   make(map[reflect.Type]Decoder),
		fallback: fallback,
	}
}

// RegisterDecoder makes d use dec for values of type T.
func RegisterDecoder[T any](d *Decoders, dec Decoder) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byType[reflect.TypeFor[T]()] = dec
}

// DecoderFor returns the decoder registered for T, or the fallback.
// A nil registry yields JSONDecoder{}.
func DecoderFor[T any](d *Decoders) Decoder {
	if d == nil {
		return JSONDecoder{}
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if dec, ok := d.byType[reflect.TypeFor[T]()]; ok {
		return dec
	}
	return d.fallback
}
