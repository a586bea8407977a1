package restapi

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

func TestBytes(t *testing.T) {
	t.Parallel()

	got, err := Bytes().Decode([]byte{0x00, 0xff})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, got)
}

func TestDecodable(t *testing.T) {
	t.Parallel()

	strict := NewDecoders(JSONDecoder{DisallowUnknownFields: true})

	custom := NewDecoders(nil)
	RegisterDecoder[post](custom, DecoderFunc(func(_ []byte, v any) error {
		*(v.(*post)) = post{ID: 99}
		return nil
	}))

	tests := []struct {
		name     string
		decoders *Decoders
		body     string
		want     post
		wantErr  bool
	}{
		{
			name: "given nil registry, then decodes with default JSON decoder",
			body: `{"userId":1,"id":2,"title":"t","body":"b","extra":true}`,
			want: post{UserID: 1, ID: 2, Title: "t", Body: "b"},
		},
		{
			name:     "given strict fallback and unknown field, then decode error",
			decoders: strict,
			body:     `{"id":2,"extra":true}`,
			wantErr:  true,
		},
		{
			name:     "given registered decoder for the type, then it is used",
			decoders: custom,
			body:     `{"id":2}`,
			want:     post{ID: 99},
		},
		{
			name:    "given malformed body, then decode error",
			body:    `{"id":`,
			wantErr: true,
		},
		{
			name:    "given truncated literal, then decode error",
			body:    `{"id":2,"title":nul}`,
			wantErr: true,
		},
		{
			name:    "given wrong field type, then decode error",
			body:    `{"id":"two"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decodable[post](tt.decoders).Decode([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrDecode)
				assert.True(t, IsKind(err, KindDecode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	values := []post{
		{},
		{UserID: 1, ID: 1, Title: "sunt aut facere", Body: "quia et suscipit\nsuscipit"},
		{ID: -3, Title: `quotes " and \ backslashes`, Body: "ünïcödé ✓"},
	}

	for _, v := range values {
		data, err := JSONBody(v).Encode()
		require.NoError(t, err)

		got, err := Decodable[post](nil).Decode(data)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestJSONTree_Malformed(t *testing.T) {
	t.Parallel()

	_, err := JSONTree().Decode([]byte(`{"a":`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParse(t *testing.T) {
	t.Parallel()

	errNoTitle := errors.New("no title")
	codec := Parse(func(j JSON) (string, error) {
		title, ok := j.Get("title").String()
		if !ok {
			return "", errNoTitle
		}
		return title, nil
	})

	got, err := codec.Decode([]byte(`{"title":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = codec.Decode([]byte(`{"name":"x"}`))
	assert.ErrorIs(t, err, errNoTitle)

	_, err = codec.Decode([]byte(`not json`))
	assert.ErrorIs(t, err, ErrParse)
}

func TestArray(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		want      []post
		wantIs    error
		wantInMsg string
	}{
		{
			name: "given array of objects, then decodes each element in order",
			body: `[{"id":1,"title":"a"},{"id":2,"title":"b"},{"id":3,"title":"c"}]`,
			want: []post{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}, {ID: 3, Title: "c"}},
		},
		{
			name: "given empty array, then empty result",
			body: ` [] `,
			want: []post{},
		},
		{
			name:   "given object, then not an array",
			body:   `{"id":1}`,
			wantIs: ErrNotArray,
		},
		{
			name:   "given malformed JSON, then parse error",
			body:   `[{"id":1}`,
			wantIs: ErrParse,
		},
		{
			name:   "given number with a leading zero, then parse error",
			body:   `[01]`,
			wantIs: ErrParse,
		},
		{
			name:   "given number with a bare decimal point, then parse error",
			body:   `[{"id":1.}]`,
			wantIs: ErrParse,
		},
		{
			name:   "given truncated literal, then parse error",
			body:   `[tru]`,
			wantIs: ErrParse,
		},
		{
			name:      "given one bad element, then the whole decode fails",
			body:      `[{"id":1},{"id":"x"}]`,
			wantIs:    ErrDecode,
			wantInMsg: "array element 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Array(Decodable[post](nil)).Decode([]byte(tt.body))
			if tt.wantIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantIs)
				assert.Contains(t, err.Error(), tt.wantInMsg)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArray_NotArrayIsParseKind(t *testing.T) {
	t.Parallel()

	_, err := Array(Bytes()).Decode([]byte(`"str"`))
	assert.True(t, IsKind(err, KindParse))
	assert.ErrorIs(t, err, ErrNotArray)
}

func TestCodecs_RejectMalformedNumbersAndLiterals(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`[1.]`, `[01]`, `nul`, `tru`, `fals`, `01`, `1.`} {
		_, err := Array(Bytes()).Decode([]byte(body))
		assert.ErrorIs(t, err, ErrParse, "array %q", body)

		_, err = JSONTree().Decode([]byte(body))
		assert.ErrorIs(t, err, ErrParse, "tree %q", body)

		_, err = APIErrorCodec().Decode([]byte(body))
		assert.ErrorIs(t, err, ErrParse, "api error %q", body)
	}
}

func TestDual(t *testing.T) {
	t.Parallel()

	codec := Dual(Array(Decodable[post](nil)), APIErrorCodec())

	tests := []struct {
		name      string
		body      string
		wantData  bool
		wantError string
	}{
		{name: "given data shape, then only data", body: `[{"id":1}]`, wantData: true},
		{name: "given error shape, then only error", body: `{"message":"rate limited"}`, wantError: "rate limited"},
		{name: "given neither shape, then both empty", body: `{"status":"?"}`},
		{name: "given invalid JSON, then both empty", body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, err := codec.Decode([]byte(tt.body))
			require.NoError(t, err)

			assert.Equal(t, tt.wantData, env.Data != nil)
			if tt.wantError == "" {
				assert.Nil(t, env.Error)
			} else {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantError, env.Error.Message)
			}
		})
	}
}

func TestAPIErrorCodec(t *testing.T) {
	t.Parallel()

	got, err := APIErrorCodec().Decode([]byte(`{"message":"not allowed","code":7}`))
	require.NoError(t, err)
	assert.Equal(t, "not allowed", got.Message)
	assert.EqualError(t, got, "not allowed")

	_, err = APIErrorCodec().Decode([]byte(`{"message":5}`))
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = APIErrorCodec().Decode([]byte(`{}`))
	assert.True(t, IsKind(err, KindMissingField))
}

func TestImage(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := Image().Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), img.Bounds())

	_, err = Image().Decode([]byte("not an image"))
	assert.ErrorIs(t, err, ErrDecode)
}
