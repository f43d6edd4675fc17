package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix  = "user:%d"
	PostKeyPrefix  = "post:%d"
	MediaKeyPrefix = "media:user:%d"
	StatsKeyPrefix = "stats:user:%d"
	FeedKeyPrefix  = "feed:user:%d:v%d"

	// FeedEpochKey is a global counter bumped on every content or friendship
	// change. It versions all per-viewer feed keys at once, so invalidation
	// is a single INCR instead of a scan over every viewer.
	FeedEpochKey = "feed:epoch"
)

const (
	UserTTL  = 5 * time.Minute
	PostTTL  = 30 * time.Minute
	MediaTTL = 10 * time.Minute
	StatsTTL = 10 * time.Minute
	FeedTTL  = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func MediaKey(userID uint) string {
	return fmt.Sprintf(MediaKeyPrefix, userID)
}

func StatsKey(userID uint) string {
	return fmt.Sprintf(StatsKeyPrefix, userID)
}

func FeedKey(viewerID uint, epoch int64) string {
	return fmt.Sprintf(FeedKeyPrefix, viewerID, epoch)
}

// FeedEpoch returns the current feed epoch, or 0 when the cache is down.
func FeedEpoch(ctx context.Context) int64 {
	if client == nil {
		return 0
	}
	epoch, err := client.Get(ctx, FeedEpochKey).Int64()
	if err != nil {
		return 0
	}
	return epoch
}

// BumpFeedEpoch invalidates every cached feed by advancing the epoch.
func BumpFeedEpoch(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, FeedEpochKey)
	}
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateMedia(ctx context.Context, userID uint) {
	Invalidate(ctx, MediaKey(userID))
	Invalidate(ctx, StatsKey(userID))
}
