package cachestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []RedisOption
		wantKey    string
		wantTTL    time.Duration
		wantExpire bool
	}{
		{
			name:    "given defaults, then default prefix and no expiry",
			wantKey: "restapi:cache:https://api.example.com/posts",
		},
		{
			name:       "given prefix and TTL, then both applied",
			opts:       []RedisOption{WithPrefix("posts-api:"), WithTTL(time.Minute)},
			wantKey:    "posts-api:https://api.example.com/posts",
			wantTTL:    time.Minute,
			wantExpire: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mr, rdb := newRedisForTest(t)
			s := NewRedisStore(rdb, tt.opts...)
			ctx := context.Background()

			require.NoError(t, s.Set(ctx, "https://api.example.com/posts", []byte("[]")))

			assert.True(t, mr.Exists(tt.wantKey))
			raw, err := mr.Get(tt.wantKey)
			require.NoError(t, err)
			assert.Equal(t, "[]", raw)
			assert.Equal(t, tt.wantTTL, mr.TTL(tt.wantKey))

			if tt.wantExpire {
				mr.FastForward(tt.wantTTL + time.Second)
				_, err := s.Get(ctx, "https://api.example.com/posts")
				assert.ErrorIs(t, err, ErrNotFound)
			}
		})
	}
}

func TestRedisStore_ServerDown(t *testing.T) {
	t.Parallel()

	mr, rdb := newRedisForTest(t)
	s := NewRedisStore(rdb)
	mr.Close()

	_, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.Set(context.Background(), "k", []byte("v")))
}
