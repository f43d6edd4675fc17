package seed

import (
	"testing"
	"time"

	"harmonic/internal/feed"
	"harmonic/internal/models"
)

func TestBuildPost_TimestampsAndCategories(t *testing.T) {
	opts := SeedOptions{DryRun: true, MaxDays: 30}
	f := NewFactory(nil, opts)
	user := &models.User{ID: 1}

	p := f.BuildPost(user, models.PostCategoryReview)
	if p.Content == "" {
		t.Fatalf("expected content for review post")
	}
	if p.Category != models.PostCategoryReview {
		t.Fatalf("unexpected category: %s", p.Category)
	}

	// timestamp should be within MaxDays
	if time.Since(p.CreatedAt) > (time.Duration(opts.MaxDays)+1)*24*time.Hour {
		t.Fatalf("created_at too old: %v", p.CreatedAt)
	}

	switch p.Visibility {
	case feed.VisibilityPublic, feed.VisibilityFriends, feed.VisibilityPrivate:
	default:
		t.Fatalf("unexpected visibility: %s", p.Visibility)
	}
}

func TestBuildMediaItem_TypeSpecificFields(t *testing.T) {
	f := NewFactory(nil, SeedOptions{DryRun: true, MaxDays: 30})
	user := &models.User{ID: 1}

	book := f.BuildMediaItem(user, models.MediaTypeBook)
	if book.Author == "" {
		t.Fatalf("expected author for book entry")
	}
	if !models.ValidMediaStatus(book.Status) {
		t.Fatalf("invalid status: %s", book.Status)
	}
	if _, err := time.Parse("2006-01-02", book.LoggedDate); err != nil {
		t.Fatalf("invalid logged_date %q: %v", book.LoggedDate, err)
	}
	if book.Rating < 0 || book.Rating > 10 {
		t.Fatalf("rating out of range: %d", book.Rating)
	}

	game := f.BuildMediaItem(user, models.MediaTypeGame)
	if game.Platform == "" {
		t.Fatalf("expected platform for game entry")
	}
	if game.Author != "" {
		t.Fatalf("game entry should not carry an author")
	}
}

func TestBuildMediaItem_RatingOnlyWhenFinished(t *testing.T) {
	f := NewFactory(nil, SeedOptions{DryRun: true})
	user := &models.User{ID: 1}

	for i := 0; i < 50; i++ {
		item := f.BuildMediaItem(user, models.MediaTypeMovie)
		finished := item.Status == models.MediaStatusCompleted || item.Status == models.MediaStatusDropped
		if !finished && item.Rating != 0 {
			t.Fatalf("unfinished entry has rating %d (status %s)", item.Rating, item.Status)
		}
	}
}
