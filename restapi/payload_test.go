package restapi

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		payload         Payload
		wantContentType string
		wantBody        string
		wantKind        ErrorKind
	}{
		{
			name:            "given JSON object, then marshals with json content type",
			payload:         JSONBody(map[string]any{"title": "foo", "userId": 1}),
			wantContentType: "application/json",
			wantBody:        `{"title":"foo","userId":1}`,
		},
		{
			name:            "given JSON string, then a JSON string literal",
			payload:         JSONBody("hi"),
			wantContentType: "application/json",
			wantBody:        `"hi"`,
		},
		{
			name:            "given unmarshalable JSON value, then serialize error",
			payload:         JSONBody(make(chan int)),
			wantContentType: "application/json",
			wantKind:        KindSerialize,
		},
		{
			name:            "given form values, then sorted and escaped pairs",
			payload:         Form(map[string]string{"b": "2 3", "a": "x&y"}),
			wantContentType: "application/x-www-form-urlencoded",
			wantBody:        "a=x%26y&b=2+3",
		},
		{
			name:            "given empty form, then empty body",
			payload:         Form(nil),
			wantContentType: "application/x-www-form-urlencoded",
			wantBody:        "",
		},
		{
			name:            "given invalid UTF-8 form value, then form encode error",
			payload:         Form(map[string]string{"k": "\xff"}),
			wantContentType: "application/x-www-form-urlencoded",
			wantKind:        KindFormEncode,
		},
		{
			name:            "given raw bytes, then passes them through",
			payload:         Raw([]byte("plain"), "text/plain; charset=utf-8"),
			wantContentType: "text/plain; charset=utf-8",
			wantBody:        "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantContentType, tt.payload.ContentType().HeaderValue())

			body, err := tt.payload.Encode()
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, IsKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestMultipart_Framing(t *testing.T) {
	t.Parallel()

	m := &Multipart{Boundary: "boundary-test"}
	m.Add("title", Raw([]byte("hello"), "text/plain"), nil).
		Add("file", Raw([]byte{0x01, 0x02}, "application/octet-stream"), map[string]string{"filename": "a.bin"})

	body, err := m.Encode()
	require.NoError(t, err)

	want := "--boundary-test\r\n" +
		"Content-Disposition: form-data; name=\"title\"\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"hello\r\n" +
		"--boundary-test\r\n" +
		"Content-Disposition: form-data; name=\"file\"; filename=\"a.bin\"\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"\r\n" +
		"\x01\x02\r\n" +
		"--boundary-test--\r\n"
	assert.Equal(t, want, string(body))
	assert.Equal(t, "multipart/form-data; boundary=boundary-test", m.ContentType().HeaderValue())
}

func TestMultipart_ParsesWithStandardReader(t *testing.T) {
	t.Parallel()

	m := NewMultipart(
		Part{Name: "meta", Payload: JSONBody(map[string]int{"v": 1})},
		Part{Name: "note", Payload: Form(map[string]string{"q": "a b"}), Params: map[string]string{"b": "2", "a": `quo"te`}},
	)
	assert.True(t, strings.HasPrefix(m.Boundary, "boundary-"))

	body, err := m.Encode()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(m.ContentType().HeaderValue())
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	r := multipart.NewReader(bytes.NewReader(body), params["boundary"])

	p, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "meta", p.FormName())
	assert.Equal(t, "application/json", p.Header.Get("Content-Type"))
	data, err := io.ReadAll(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(data))

	p, err = r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, `form-data; name="note"; a="quo\"te"; b="2"`, p.Header.Get("Content-Disposition"))
	data, err = io.ReadAll(p)
	require.NoError(t, err)
	assert.Equal(t, "q=a+b", string(data))

	_, err = r.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestMultipart_PartEncodeFailure(t *testing.T) {
	t.Parallel()

	m := NewMultipart(Part{Name: "bad", Payload: JSONBody(func() {})})

	_, err := m.Encode()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerialize)
	assert.Contains(t, err.Error(), "bad")
}

func TestNewBoundary_Unique(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, NewBoundary(), NewBoundary())
}

func TestJPEGUpload(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	m := JPEGUpload("avatar", img)
	body, err := m.Encode()
	require.NoError(t, err)

	r := multipart.NewReader(bytes.NewReader(body), m.Boundary)
	p, err := r.NextPart()
	require.NoError(t, err)

	assert.Equal(t, "upfile", p.FormName())
	assert.Equal(t, "avatar.jpg", p.FileName())
	assert.Equal(t, "image/jpeg", p.Header.Get("Content-Type"))

	data, err := io.ReadAll(p)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xff, 0xd8}), "JPEG SOI marker")
}

func TestJPEG_NilImage(t *testing.T) {
	t.Parallel()

	_, err := JPEG(nil).Encode()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSerialize))
}
