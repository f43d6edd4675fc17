package service

import (
	"context"
	"testing"

	"harmonic/internal/feed"
	"harmonic/internal/models"
)

type mediaRepoStub struct {
	createFn         func(context.Context, *models.MediaItem) error
	getByIDFn        func(context.Context, uint) (*models.MediaItem, error)
	getByUserIDFn    func(context.Context, uint, int, int) ([]models.MediaItem, error)
	getAllByUserIDFn func(context.Context, uint) ([]models.MediaItem, error)
	listRecentFn     func(context.Context, int) ([]*models.MediaItem, error)
	searchFn         func(context.Context, string, int, int) ([]models.MediaItem, error)
	updateFn         func(context.Context, *models.MediaItem) error
	deleteFn         func(context.Context, uint) error
}

func (s *mediaRepoStub) Create(ctx context.Context, item *models.MediaItem) error {
	return s.createFn(ctx, item)
}
func (s *mediaRepoStub) GetByID(ctx context.Context, id uint) (*models.MediaItem, error) {
	return s.getByIDFn(ctx, id)
}
func (s *mediaRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]models.MediaItem, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset)
}
func (s *mediaRepoStub) GetAllByUserID(ctx context.Context, userID uint) ([]models.MediaItem, error) {
	return s.getAllByUserIDFn(ctx, userID)
}
func (s *mediaRepoStub) ListRecent(ctx context.Context, limit int) ([]*models.MediaItem, error) {
	return s.listRecentFn(ctx, limit)
}
func (s *mediaRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]models.MediaItem, error) {
	return s.searchFn(ctx, query, limit, offset)
}
func (s *mediaRepoStub) Update(ctx context.Context, item *models.MediaItem) error {
	return s.updateFn(ctx, item)
}
func (s *mediaRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopMediaRepo() *mediaRepoStub {
	return &mediaRepoStub{
		createFn:         func(context.Context, *models.MediaItem) error { return nil },
		getByIDFn:        func(context.Context, uint) (*models.MediaItem, error) { return &models.MediaItem{}, nil },
		getByUserIDFn:    func(context.Context, uint, int, int) ([]models.MediaItem, error) { return nil, nil },
		getAllByUserIDFn: func(context.Context, uint) ([]models.MediaItem, error) { return nil, nil },
		listRecentFn:     func(context.Context, int) ([]*models.MediaItem, error) { return nil, nil },
		searchFn:         func(context.Context, string, int, int) ([]models.MediaItem, error) { return nil, nil },
		updateFn:         func(context.Context, *models.MediaItem) error { return nil },
		deleteFn:         func(context.Context, uint) error { return nil },
	}
}

func TestMediaServiceLogMediaInvalidType(t *testing.T) {
	svc := NewMediaService(noopMediaRepo(), noopFriendRepo(), nil)
	_, err := svc.LogMedia(context.Background(), LogMediaInput{UserID: 1, Title: "Dune", Type: "podcast"})
	assertAppError(t, err, "VALIDATION_ERROR")
}

func TestMediaServiceLogMediaDefaults(t *testing.T) {
	repo := noopMediaRepo()
	var created models.MediaItem
	repo.createFn = func(_ context.Context, item *models.MediaItem) error {
		item.ID = 3
		created = *item
		return nil
	}

	svc := NewMediaService(repo, noopFriendRepo(), nil)
	_, err := svc.LogMedia(context.Background(), LogMediaInput{
		UserID: 1,
		Title:  "Dune",
		Type:   models.MediaTypeBook,
		Author: "Frank Herbert",
		// Fields for other types must be scrubbed.
		Director: "someone",
		Artist:   "someone else",
	})
	if err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if created.Status != models.MediaStatusCompleted {
		t.Fatalf("expected completed default status, got %q", created.Status)
	}
	if created.Visibility != feed.VisibilityFriends {
		t.Fatalf("expected friends default visibility, got %q", created.Visibility)
	}
	if created.Author != "Frank Herbert" {
		t.Fatalf("expected author kept, got %q", created.Author)
	}
	if created.Director != "" || created.Artist != "" {
		t.Fatalf("expected non-matching type fields scrubbed, got %+v", created)
	}
}

func TestMediaServiceLogMediaBadRating(t *testing.T) {
	svc := NewMediaService(noopMediaRepo(), noopFriendRepo(), nil)
	_, err := svc.LogMedia(context.Background(), LogMediaInput{UserID: 1, Title: "Dune", Type: models.MediaTypeBook, Rating: 11})
	assertAppError(t, err, "VALIDATION_ERROR")
}

func TestMediaServiceLogMediaBadLoggedDate(t *testing.T) {
	svc := NewMediaService(noopMediaRepo(), noopFriendRepo(), nil)
	_, err := svc.LogMedia(context.Background(), LogMediaInput{UserID: 1, Title: "Dune", Type: models.MediaTypeBook, LoggedDate: "03/15/2026"})
	assertAppError(t, err, "VALIDATION_ERROR")
}

func TestMediaServiceGetMediaItemHidesDefaultVisibility(t *testing.T) {
	repo := noopMediaRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.MediaItem, error) {
		// No visibility set; media entries default to friends-only.
		return &models.MediaItem{ID: 6, UserID: 2}, nil
	}
	friendRepo := noopFriendRepo()
	friendRepo.getFriendIDsFn = func(_ context.Context, viewerID uint) ([]uint, error) {
		if viewerID == 5 {
			return []uint{2}, nil
		}
		return nil, nil
	}

	svc := NewMediaService(repo, friendRepo, nil)

	if _, err := svc.GetMediaItem(context.Background(), 6, 2); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, err := svc.GetMediaItem(context.Background(), 6, 5); err != nil {
		t.Fatalf("friend read failed: %v", err)
	}
	_, err := svc.GetMediaItem(context.Background(), 6, 7)
	assertAppError(t, err, "NOT_FOUND")
}

func TestMediaServiceUpdateMediaAuthorization(t *testing.T) {
	repo := noopMediaRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.MediaItem, error) {
		return &models.MediaItem{ID: 6, UserID: 2, Title: "Dune", Type: models.MediaTypeBook}, nil
	}

	svc := NewMediaService(repo, noopFriendRepo(), adminCheck(9))

	_, err := svc.UpdateMedia(context.Background(), UpdateMediaInput{UserID: 3, MediaID: 6, Title: "Other"})
	assertAppError(t, err, "UNAUTHORIZED")

	item, err := svc.UpdateMedia(context.Background(), UpdateMediaInput{UserID: 9, MediaID: 6, Title: "Dune Messiah"})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if item.Title != "Dune Messiah" {
		t.Fatalf("expected updated title, got %q", item.Title)
	}
}

func TestMediaServiceUpdateMediaVisibilityOwnerOnly(t *testing.T) {
	repo := noopMediaRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.MediaItem, error) {
		return &models.MediaItem{ID: 6, UserID: 2, Title: "Dune", Type: models.MediaTypeBook, Visibility: feed.VisibilityPrivate}, nil
	}

	svc := NewMediaService(repo, noopFriendRepo(), adminCheck(9))

	// An admin may edit the entry but never flip someone else's private
	// entry to a wider audience.
	_, err := svc.UpdateMedia(context.Background(), UpdateMediaInput{
		UserID: 9, MediaID: 6, Visibility: feed.VisibilityPublic,
	})
	assertAppError(t, err, "UNAUTHORIZED")

	if _, err := svc.UpdateMedia(context.Background(), UpdateMediaInput{UserID: 9, MediaID: 6, Title: "Dune Messiah"}); err != nil {
		t.Fatalf("admin title edit failed: %v", err)
	}

	item, err := svc.UpdateMedia(context.Background(), UpdateMediaInput{
		UserID: 2, MediaID: 6, Visibility: feed.VisibilityFriends,
	})
	if err != nil {
		t.Fatalf("owner visibility change failed: %v", err)
	}
	if item.Visibility != feed.VisibilityFriends {
		t.Fatalf("expected friends visibility, got %q", item.Visibility)
	}
}

func TestMediaServiceUpdateMediaClearRating(t *testing.T) {
	repo := noopMediaRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.MediaItem, error) {
		return &models.MediaItem{ID: 6, UserID: 2, Title: "Dune", Type: models.MediaTypeBook, Rating: 8}, nil
	}

	svc := NewMediaService(repo, noopFriendRepo(), nil)
	zero := 0
	item, err := svc.UpdateMedia(context.Background(), UpdateMediaInput{UserID: 2, MediaID: 6, Rating: &zero})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if item.Rating != 0 {
		t.Fatalf("expected rating cleared, got %d", item.Rating)
	}
}

func TestMediaServiceGetUserMediaFiltersVisibility(t *testing.T) {
	repo := noopMediaRepo()
	repo.getByUserIDFn = func(context.Context, uint, int, int) ([]models.MediaItem, error) {
		return []models.MediaItem{
			{ID: 1, UserID: 2, Visibility: feed.VisibilityPublic},
			{ID: 2, UserID: 2, Visibility: feed.VisibilityFriends},
			{ID: 3, UserID: 2, Visibility: feed.VisibilityPrivate},
		}, nil
	}

	svc := NewMediaService(repo, noopFriendRepo(), nil)

	// A stranger sees only the public entry.
	items, err := svc.GetUserMedia(context.Background(), 2, 50, 0, 7)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != 1 {
		t.Fatalf("expected only public entry, got %+v", items)
	}

	// The owner sees everything.
	items, err = svc.GetUserMedia(context.Background(), 2, 50, 0, 2)
	if err != nil {
		t.Fatalf("owner list failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected all 3 entries for owner, got %d", len(items))
	}
}

func TestMediaServiceGetStats(t *testing.T) {
	repo := noopMediaRepo()
	repo.getAllByUserIDFn = func(context.Context, uint) ([]models.MediaItem, error) {
		return []models.MediaItem{
			{ID: 1, Type: models.MediaTypeBook, Status: models.MediaStatusCompleted, Rating: 8},
			{ID: 2, Type: models.MediaTypeBook, Status: models.MediaStatusInProgress, Rating: 0},
			{ID: 3, Type: models.MediaTypeMovie, Status: models.MediaStatusCompleted, Rating: 7},
		}, nil
	}

	svc := NewMediaService(repo, noopFriendRepo(), nil)
	out, err := svc.GetStats(context.Background(), 2)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if out.Total != 3 {
		t.Fatalf("expected total 3, got %d", out.Total)
	}
	// Unrated entries are excluded from the average: (8+7)/2.
	if out.AverageRating != 7.5 {
		t.Fatalf("expected average rating 7.5, got %v", out.AverageRating)
	}
	if out.ByStatus[models.MediaStatusCompleted] != 2 {
		t.Fatalf("expected 2 completed, got %d", out.ByStatus[models.MediaStatusCompleted])
	}
}
