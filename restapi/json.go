package restapi

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/goccy/go-json"
)

// JSON is a read-only view over a decoded JSON document. Numbers keep
// their literal form as json.Number.
//
// Accessors never panic: walking into a missing key or a value of the
// wrong shape yields an undefined JSON whose Exists reports false.
type JSON struct {
	v      any
	exists bool
}

// ParseJSON decodes data into a JSON tree.
func ParseJSON(data []byte) (JSON, error) {
	if !wellFormed(data) {
		return JSON{}, codecErr("parse json", KindParse, errInvalidJSON)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return JSON{}, codecErr("parse json", KindParse, err)
	}
	return JSON{v: v, exists: true}, nil
}

var errInvalidJSON = errors.New("invalid JSON document")

// wellFormed reports whether data is exactly one RFC 8259 value. goccy's
// Valid accepts truncated literals such as nul and numbers such as 01 or 1.,
// so conformance is checked with the encoding/json scanner.
func wellFormed(data []byte) bool {
	return stdjson.Valid(data)
}

// NewJSON wraps an already decoded value such as map[string]any.
func NewJSON(v any) JSON {
	return JSON{v: v, exists: true}
}

// Exists reports whether the value was present in the document.
func (j JSON) Exists() bool { return j.exists }

// IsNull reports whether the value is present and JSON null.
func (j JSON) IsNull() bool { return j.exists && j.v == nil }

// Value returns the underlying decoded value.
func (j JSON) Value() any { return j.v }

// Get returns the member named key of an object.
func (j JSON) Get(key string) JSON {
	m, ok := j.v.(map[string]any)
	if !ok {
		return JSON{}
	}
	v, ok := m[key]
	return JSON{v: v, exists: ok}
}

// Index returns element i of an array.
func (j JSON) Index(i int) JSON {
	a, ok := j.v.([]any)
	if !ok || i < 0 || i >= len(a) {
		return JSON{}
	}
	return JSON{v: a[i], exists: true}
}

// Lookup evaluates a JSONPath expression such as "$.data.items[0].id".
func (j JSON) Lookup(path string) (JSON, error) {
	v, err := jsonpath.Get(path, j.v)
	if err != nil {
		return JSON{}, err
	}
	return JSON{v: v, exists: true}, nil
}

func (j JSON) String() (string, bool) {
	s, ok := j.v.(string)
	return s, ok
}

func (j JSON) Bool() (bool, bool) {
	b, ok := j.v.(bool)
	return b, ok
}

func (j JSON) Int() (int64, bool) {
	switch n := j.v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case float64:
		return int64(n), n == float64(int64(n))
	}
	return 0, false
}

func (j JSON) Float() (float64, bool) {
	switch n := j.v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	}
	return 0, false
}

// StringValue returns the string, or "" when the value is not a string.
func (j JSON) StringValue() string {
	s, _ := j.String()
	return s
}

// IntValue returns the integer, or 0 when the value is not an integer.
func (j JSON) IntValue() int64 {
	i, _ := j.Int()
	return i
}

func (j JSON) FloatValue() float64 {
	f, _ := j.Float()
	return f
}

func (j JSON) BoolValue() bool {
	b, _ := j.Bool()
	return b
}

// Array returns the elements of an array, or nil for any other value.
func (j JSON) Array() []JSON {
	a, ok := j.v.([]any)
	if !ok {
		return nil
	}
	out := make([]JSON, len(a))
	for i, v := range a {
		out[i] = JSON{v: v, exists: true}
	}
	return out
}

// Map returns the members of an object, or nil for any other value.
func (j JSON) Map() map[string]JSON {
	m, ok := j.v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]JSON, len(m))
	for k, v := range m {
		out[k] = JSON{v: v, exists: true}
	}
	return out
}

// Raw re-encodes the value.
func (j JSON) Raw() ([]byte, error) {
	return json.Marshal(j.v)
}

func (j JSON) MarshalJSON() ([]byte, error) {
	return j.Raw()
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*j = parsed
	return nil
}

// Describe renders the value as compact JSON for logs.
func (j JSON) Describe() string {
	if !j.exists {
		return "<undefined>"
	}
	b, err := j.Raw()
	if err != nil {
		return strconv.Quote(err.Error())
	}
	return string(b)
}
