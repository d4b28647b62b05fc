package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type session struct {
	SID   string `json:"sid"`
	Email string `json:"email"`
}

func TestRedisJSONHelpers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	ctx := context.Background()

	var got session
	found, err := RedisGetJSON(ctx, rdb, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, RedisSetJSON(ctx, rdb, "user:session:1", session{SID: "abc", Email: "a@x.com"}, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("user:session:1"))

	found, err = RedisGetJSON(ctx, rdb, "user:session:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, session{SID: "abc", Email: "a@x.com"}, got)

	require.NoError(t, RedisDel(ctx, rdb, "user:session:1"))
	assert.False(t, mr.Exists("user:session:1"))
}
