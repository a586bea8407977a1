package restapi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodecError(t *testing.T) {
	t.Parallel()

	inner := errors.New("unexpected EOF")

	tests := []struct {
		name     string
		err      *CodecError
		wantMsg  string
		wantIs   error
		wantNot  error
		wantKind ErrorKind
	}{
		{
			name:     "given wrapped error, then message has op, kind and cause",
			err:      &CodecError{Op: "parse json", Kind: KindParse, Err: inner},
			wantMsg:  "parse json: parse: unexpected EOF",
			wantIs:   ErrParse,
			wantNot:  ErrDecode,
			wantKind: KindParse,
		},
		{
			name:     "given no cause, then message has op and kind",
			err:      &CodecError{Op: "encode json body", Kind: KindSerialize},
			wantMsg:  "encode json body: serialize",
			wantIs:   ErrSerialize,
			wantNot:  ErrFormEncode,
			wantKind: KindSerialize,
		},
		{
			name:     "given missing field, then matches ErrMissingField",
			err:      &CodecError{Op: "parse api error", Kind: KindMissingField, Err: errors.New(`"message"`)},
			wantMsg:  `parse api error: missing_field: "message"`,
			wantIs:   ErrMissingField,
			wantNot:  ErrParse,
			wantKind: KindMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wrapped := fmt.Errorf("request: %w", tt.err)

			assert.EqualError(t, tt.err, tt.wantMsg)
			assert.ErrorIs(t, wrapped, tt.wantIs)
			assert.NotErrorIs(t, wrapped, tt.wantNot)
			assert.True(t, IsKind(wrapped, tt.wantKind))
		})
	}
}

func TestCodecError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("cause")
	err := codecErr("decode", KindDecode, inner)
	assert.ErrorIs(t, err, inner)
	assert.ErrorIs(t, err, ErrDecode)

	var nilErr *CodecError
	assert.Equal(t, "<nil>", nilErr.Error())
	assert.NoError(t, nilErr.Unwrap())
	assert.False(t, nilErr.Is(ErrDecode))

	assert.False(t, IsKind(inner, KindDecode))
	assert.False(t, IsKind(nil, KindDecode))
}
