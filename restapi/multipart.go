package restapi

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Part is one named section of a multipart body. Params are added to the
// Content-Disposition header after name, e.g. filename.
type Part struct {
	Name    string
	Payload Payload
	Params  map[string]string
}

// Multipart is a multipart/form-data payload. Parts are written in order.
type Multipart struct {
	Boundary string
	Parts    []Part
}

// NewBoundary returns a boundary token unique to one request.
func NewBoundary() string {
	return "boundary-" + uuid.NewString()
}

// NewMultipart returns a payload with a fresh boundary.
func NewMultipart(parts ...Part) *Multipart {
	return &Multipart{Boundary: NewBoundary(), Parts: parts}
}

// Add appends a part and returns m for chaining.
func (m *Multipart) Add(name string, payload Payload, params map[string]string) *Multipart {
	m.Parts = append(m.Parts, Part{Name: name, Payload: payload, Params: params})
	return m
}

func (m *Multipart) ContentType() ContentType {
	return CustomContentType("multipart/form-data; boundary=" + m.Boundary)
}

// Encode writes each part as
//
//	--B
//	Content-Disposition: form-data; name="N"; k="v"
//	Content-Type: T
//
//	<bytes>
//
// followed by the closing --B-- line. Lines end with CRLF.
func (m *Multipart) Encode() ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(m.Boundary); err != nil {
		return nil, codecErr("encode multipart body", KindSerialize, err)
	}

	for i, p := range m.Parts {
		data, err := p.Payload.Encode()
		if err != nil {
			return nil, codecErr(fmt.Sprintf("encode multipart part %d (%s)", i, p.Name), KindSerialize, err)
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", contentDisposition(p.Name, p.Params))
		header.Set("Content-Type", p.Payload.ContentType().HeaderValue())

		pw, err := w.CreatePart(header)
		if err != nil {
			return nil, codecErr("encode multipart body", KindSerialize, err)
		}
		if _, err := pw.Write(data); err != nil {
			return nil, codecErr("encode multipart body", KindSerialize, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, codecErr("encode multipart body", KindSerialize, err)
	}
	return buf.Bytes(), nil
}

func contentDisposition(name string, params map[string]string) string {
	var sb strings.Builder
	sb.WriteString(`form-data; name="`)
	sb.WriteString(escapeQuotes(name))
	sb.WriteByte('"')

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, `; %s="%s"`, k, escapeQuotes(params[k]))
	}
	return sb.String()
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// JPEGUpload builds the single-part image upload expected by upload
// endpoints: part "upfile" with filename "<fileName>.jpg".
func JPEGUpload(fileName string, img image.Image) *Multipart {
	return NewMultipart(Part{
		Name:    "upfile",
		Payload: JPEG(img),
		Params:  map[string]string{"filename": fileName + ".jpg"},
	})
}

// JPEG returns an image/jpeg payload encoding img at full quality.
func JPEG(img image.Image) Payload {
	return jpegPayload{img: img}
}

type jpegPayload struct {
	img image.Image
}

func (jpegPayload) ContentType() ContentType { return CustomContentType("image/jpeg") }

func (p jpegPayload) Encode() ([]byte, error) {
	if p.img == nil {
		return nil, codecErr("encode jpeg", KindSerialize, fmt.Errorf("nil image"))
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, p.img, &jpeg.Options{Quality: 100}); err != nil {
		return nil, codecErr("encode jpeg", KindSerialize, err)
	}
	return buf.Bytes(), nil
}
