package restapi

import (
	"errors"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// ContentType tags a request body. It is one of ContentTypeJSON,
// ContentTypeForm or a CustomContentType.
type ContentType struct {
	custom string
	kind   contentKind
}

type contentKind uint8

const (
	contentJSON contentKind = iota
	contentForm
	contentCustom
)

var (
	ContentTypeJSON = ContentType{kind: contentJSON}
	ContentTypeForm = ContentType{kind: contentForm}
)

// CustomContentType returns a tag carrying a literal header value.
func CustomContentType(value string) ContentType {
	return ContentType{kind: contentCustom, custom: value}
}

// HeaderValue returns the Content-Type header value.
func (c ContentType) HeaderValue() string {
	switch c.kind {
	case contentForm:
		return "application/x-www-form-urlencoded"
	case contentCustom:
		return c.custom
	default:
		return "application/json"
	}
}

func (c ContentType) String() string {
	return c.HeaderValue()
}

// Payload is a request body: a content type and the bytes to send.
type Payload interface {
	ContentType() ContentType
	Encode() ([]byte, error)
}

// JSONBody returns a payload marshalling v with encoding/json semantics.
func JSONBody(v any) Payload {
	return jsonPayload{v: v}
}

type jsonPayload struct {
	v any
}

func (jsonPayload) ContentType() ContentType { return ContentTypeJSON }

func (p jsonPayload) Encode() ([]byte, error) {
	b, err := json.Marshal(p.v)
	if err != nil {
		return nil, codecErr("encode json body", KindSerialize, err)
	}
	return b, nil
}

// Form returns an application/x-www-form-urlencoded payload. Keys are
// emitted in sorted order so identical maps encode identically.
func Form(values map[string]string) Payload {
	return formPayload(values)
}

type formPayload map[string]string

func (formPayload) ContentType() ContentType { return ContentTypeForm }

func (p formPayload) Encode() ([]byte, error) {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		v := p[k]
		if !utf8.ValidString(k) || !utf8.ValidString(v) {
			return nil, codecErr("encode form body", KindFormEncode,
				errors.New("field "+url.QueryEscape(k)+" is not valid UTF-8"))
		}
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(v))
	}
	return []byte(sb.String()), nil
}

// Raw returns a payload sending data as is under contentType.
func Raw(data []byte, contentType string) Payload {
	return rawPayload{data: data, contentType: CustomContentType(contentType)}
}

type rawPayload struct {
	data        []byte
	contentType ContentType
}

func (p rawPayload) ContentType() ContentType { return p.contentType }

func (p rawPayload) Encode() ([]byte, error) { return p.data, nil }
