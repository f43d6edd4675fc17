package service

import (
	"context"
	"time"

	"harmonic/internal/cache"
	"harmonic/internal/feed"
	"harmonic/internal/models"
	"harmonic/internal/observability"
	"harmonic/internal/repository"
)

// candidateLimit is how many of the newest rows each source contributes to a
// composition. The feed is a recency window, not a full history.
const candidateLimit = 100

// FeedItem is one rendered feed entry. Exactly one of Post and Media is set,
// matching Kind. This flat shape is what gets cached and serialized, so it
// must round-trip through JSON.
type FeedItem struct {
	Kind  feed.Kind         `json:"kind"`
	Post  *models.Post      `json:"post,omitempty"`
	Media *models.MediaItem `json:"media,omitempty"`
}

// FeedPage is a composed feed for one viewer.
type FeedPage struct {
	Items   []FeedItem `json:"items"`
	Skipped int        `json:"-"`
}

type FeedService struct {
	postRepo   repository.PostRepository
	mediaRepo  repository.MediaRepository
	friendRepo repository.FriendRepository
}

func NewFeedService(
	postRepo repository.PostRepository,
	mediaRepo repository.MediaRepository,
	friendRepo repository.FriendRepository,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		mediaRepo:  mediaRepo,
		friendRepo: friendRepo,
	}
}

// GetFeed returns the viewer's feed, newest first. Results are cached per
// viewer under the current feed epoch; any content or friendship change bumps
// the epoch, so a cached page can never outlive the data it was built from.
func (s *FeedService) GetFeed(ctx context.Context, viewerID uint, limit int) (*FeedPage, error) {
	if limit <= 0 || limit > candidateLimit {
		limit = candidateLimit
	}

	epoch := cache.FeedEpoch(ctx)
	key := cache.FeedKey(viewerID, epoch)

	var page FeedPage
	composed := false
	err := cache.Aside(ctx, key, cache.FeedTTL, &page, func() (interface{}, error) {
		composed = true
		observability.RecordFeedCacheMiss()
		return s.compose(ctx, viewerID)
	})
	if err != nil {
		return nil, err
	}
	if !composed {
		observability.RecordFeedCacheHit()
	}

	if len(page.Items) > limit {
		page.Items = page.Items[:limit]
	}
	return &page, nil
}

// compose builds the feed from scratch: fetch the newest candidates from both
// sources, load the viewer's friend set, and run them through the pure
// composition logic.
func (s *FeedService) compose(ctx context.Context, viewerID uint) (page *FeedPage, err error) {
	ctx, span := observability.StartSpan(ctx, "feed.compose")
	defer func() { observability.EndSpan(span, err) }()

	start := time.Now()

	posts, err := s.postRepo.ListRecent(ctx, candidateLimit, viewerID)
	if err != nil {
		return nil, err
	}
	media, err := s.mediaRepo.ListRecent(ctx, candidateLimit)
	if err != nil {
		return nil, err
	}

	var friends feed.IDSet
	if viewerID != 0 {
		ids, err := s.friendRepo.GetFriendIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		friends = feed.NewIDSet(ids...)
	}

	postItems := make([]feed.Item, len(posts))
	for i, p := range posts {
		postItems[i] = p
	}
	mediaItems := make([]feed.Item, len(media))
	for i, m := range media {
		mediaItems[i] = m
	}

	composition := feed.Compose(postItems, mediaItems, viewerID, friends)
	observability.ObserveFeedComposition(start, composition.Skipped)

	page = &FeedPage{
		Items:   make([]FeedItem, 0, len(composition.Entries)),
		Skipped: composition.Skipped,
	}
	for _, e := range composition.Entries {
		switch item := e.Item.(type) {
		case *models.Post:
			page.Items = append(page.Items, FeedItem{Kind: feed.KindPost, Post: item})
		case *models.MediaItem:
			page.Items = append(page.Items, FeedItem{Kind: feed.KindMedia, Media: item})
		}
	}
	return page, nil
}
