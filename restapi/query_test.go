package restapi

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		query  Query
		prefix string
		want   []QueryItem
	}{
		{
			name:  "given scalar without prefix, then uses the key",
			query: Query{"a": String("1")},
			want:  []QueryItem{{Name: "a", Value: "1"}},
		},
		{
			name:   "given scalar with prefix, then brackets the key",
			query:  Query{"a": String("1")},
			prefix: "p",
			want:   []QueryItem{{Name: "p[a]", Value: "1"}},
		},
		{
			name:  "given sequence, then one key[] item per element in order",
			query: Query{"tags": Strings("x", "y", "z")},
			want: []QueryItem{
				{Name: "tags[]", Value: "x"},
				{Name: "tags[]", Value: "y"},
				{Name: "tags[]", Value: "z"},
			},
		},
		{
			name:  "given mapping, then nested bracket names",
			query: Query{"filter": Nested(Query{"status": String("open")})},
			want:  []QueryItem{{Name: "filter[status]", Value: "open"}},
		},
		{
			name: "given deep nesting with a sequence inside, then composes brackets",
			query: Query{"a": Nested(Query{
				"b": Nested(Query{"c": Strings("1", "2")}),
			})},
			want: []QueryItem{
				{Name: "a[b][c][]", Value: "1"},
				{Name: "a[b][c][]", Value: "2"},
			},
		},
		{
			name:  "given sequence of mappings, then recurses under key[]",
			query: Query{"items": List(Nested(Query{"id": String("7")}))},
			want:  []QueryItem{{Name: "items[][id]", Value: "7"}},
		},
		{
			name:  "given empty sequence, then no items",
			query: Query{"tags": Strings()},
			want:  nil,
		},
		{
			name:  "given values needing escapes, then leaves them raw",
			query: Query{"q": String("a b&c")},
			want:  []QueryItem{{Name: "q", Value: "a b&c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EncodeQuery(tt.query, tt.prefix))
		})
	}
}

func TestEncodeQuery_SiblingsInAnyOrder(t *testing.T) {
	t.Parallel()

	got := EncodeQuery(Query{
		"a":   String("1"),
		"b":   Strings("x", "y"),
		"map": Nested(Query{"k": String("v"), "n": String("m")}),
	}, "")

	assert.ElementsMatch(t, []QueryItem{
		{Name: "a", Value: "1"},
		{Name: "b[]", Value: "x"},
		{Name: "b[]", Value: "y"},
		{Name: "map[k]", Value: "v"},
		{Name: "map[n]", Value: "m"},
	}, got)
}

func TestQueryFromMap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      map[string]any
		want    []QueryItem
		wantErr bool
	}{
		{
			name: "given scalars of several kinds, then formats them",
			in:   map[string]any{"s": "x", "i": 42, "f": 1.5, "b": true},
			want: []QueryItem{
				{Name: "s", Value: "x"},
				{Name: "i", Value: "42"},
				{Name: "f", Value: "1.5"},
				{Name: "b", Value: "true"},
			},
		},
		{
			name: "given stringer, then uses String()",
			in:   map[string]any{"d": 90 * time.Second},
			want: []QueryItem{{Name: "d", Value: "1m30s"}},
		},
		{
			name: "given nested loose maps and slices, then builds a nested query",
			in: map[string]any{
				"user": map[string]any{"ids": []any{1, "2"}},
				"tags": []string{"go"},
				"opts": map[string]string{"sort": "asc"},
			},
			want: []QueryItem{
				{Name: "user[ids][]", Value: "1"},
				{Name: "user[ids][]", Value: "2"},
				{Name: "tags[]", Value: "go"},
				{Name: "opts[sort]", Value: "asc"},
			},
		},
		{
			name:    "given unsupported leaf, then error",
			in:      map[string]any{"ch": make(chan int)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q, err := QueryFromMap(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, EncodeQuery(q, ""))
		})
	}
}

func TestAppendQuery(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("https://api.example.com/posts?page=2")
	require.NoError(t, err)

	appendQuery(u, []QueryItem{
		{Name: "tags[]", Value: "a b"},
		{Name: "tags[]", Value: "c&d"},
	})

	assert.Equal(t, "page=2&tags%5B%5D=a+b&tags%5B%5D=c%26d", u.RawQuery)
	assert.Equal(t, []string{"a b", "c&d"}, u.Query()["tags[]"])
}
