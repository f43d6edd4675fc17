package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	SetJSON(ctx, UserKey(1), cachedUser{ID: 1, Name: "ada"}, UserTTL)

	var got cachedUser
	require.NoError(t, GetJSON(ctx, UserKey(1), &got))
	assert.Equal(t, cachedUser{ID: 1, Name: "ada"}, got)
}

func TestGetJSONMiss(t *testing.T) {
	setupMiniredis(t)

	var got cachedUser
	err := GetJSON(context.Background(), UserKey(99), &got)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestGetJSONNilClient(t *testing.T) {
	SetClient(nil)

	var got cachedUser
	err := GetJSON(context.Background(), UserKey(1), &got)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestAside(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	load := func() (interface{}, error) {
		calls++
		return cachedUser{ID: 7, Name: "grace"}, nil
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(7), time.Minute, &first, load))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "grace", first.Name)

	// Second read is served from cache.
	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(7), time.Minute, &second, load))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestFeedEpoch(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	assert.EqualValues(t, 0, FeedEpoch(ctx))

	BumpFeedEpoch(ctx)
	assert.EqualValues(t, 1, FeedEpoch(ctx))

	BumpFeedEpoch(ctx)
	BumpFeedEpoch(ctx)
	assert.EqualValues(t, 3, FeedEpoch(ctx))
}

func TestFeedKeyVersioning(t *testing.T) {
	assert.Equal(t, "feed:user:5:v0", FeedKey(5, 0))
	assert.NotEqual(t, FeedKey(5, 0), FeedKey(5, 1))
}

func TestInvalidate(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	SetJSON(ctx, MediaKey(3), []string{"x"}, MediaTTL)
	SetJSON(ctx, StatsKey(3), map[string]int{"n": 1}, StatsTTL)
	require.True(t, mr.Exists(MediaKey(3)))

	InvalidateMedia(ctx, 3)
	assert.False(t, mr.Exists(MediaKey(3)))
	assert.False(t, mr.Exists(StatsKey(3)))
}
