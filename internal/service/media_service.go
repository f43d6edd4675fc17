package service

import (
	"context"
	"strings"
	"time"

	"harmonic/internal/cache"
	"harmonic/internal/feed"
	"harmonic/internal/models"
	"harmonic/internal/repository"
	"harmonic/internal/stats"
	"harmonic/internal/validation"
)

type MediaService struct {
	mediaRepo  repository.MediaRepository
	visibility *visibilityChecker
	isAdmin    func(ctx context.Context, userID uint) (bool, error)
}

type LogMediaInput struct {
	UserID     uint
	Title      string
	Type       string
	Status     string
	Rating     int
	Review     string
	CoverURL   string
	Visibility feed.Visibility
	LoggedDate string
	Tags       []string

	Author      string
	Director    string
	Platform    string
	SeasonCount string
	Studio      string
	Artist      string
}

type UpdateMediaInput struct {
	UserID     uint
	MediaID    uint
	Title      string
	Status     string
	Rating     *int
	Review     *string
	CoverURL   string
	Visibility feed.Visibility
	LoggedDate string
	Tags       []string
}

func NewMediaService(
	mediaRepo repository.MediaRepository,
	friendRepo repository.FriendRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *MediaService {
	return &MediaService{
		mediaRepo:  mediaRepo,
		visibility: &visibilityChecker{friendRepo: friendRepo},
		isAdmin:    isAdmin,
	}
}

func (s *MediaService) LogMedia(ctx context.Context, in LogMediaInput) (*models.MediaItem, error) {
	if err := validation.ValidateMediaTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if !models.ValidMediaType(in.Type) {
		return nil, models.NewValidationError("Invalid media type")
	}

	status := in.Status
	if status == "" {
		status = models.MediaStatusCompleted
	}
	if !models.ValidMediaStatus(status) {
		return nil, models.NewValidationError("Invalid media status")
	}

	if err := validation.ValidateRating(in.Rating); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateReview(in.Review); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validateLoggedDate(in.LoggedDate); err != nil {
		return nil, err
	}

	item := &models.MediaItem{
		UserID:     in.UserID,
		Title:      strings.TrimSpace(in.Title),
		Type:       in.Type,
		Status:     status,
		Rating:     in.Rating,
		Review:     in.Review,
		CoverURL:   in.CoverURL,
		Visibility: in.Visibility.Normalize(feed.KindMedia),
		LoggedDate: in.LoggedDate,
		Tags:       in.Tags,
	}
	applyTypeFields(item, in)

	if err := s.mediaRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return s.mediaRepo.GetByID(ctx, item.ID)
}

// applyTypeFields copies over only the extra field matching the entry's type;
// the rest stay empty no matter what the client sent.
func applyTypeFields(item *models.MediaItem, in LogMediaInput) {
	switch item.Type {
	case models.MediaTypeBook:
		item.Author = in.Author
	case models.MediaTypeMovie:
		item.Director = in.Director
	case models.MediaTypeGame:
		item.Platform = in.Platform
	case models.MediaTypeSeries:
		item.SeasonCount = in.SeasonCount
	case models.MediaTypeAnime:
		item.Studio = in.Studio
	case models.MediaTypeMusic:
		item.Artist = in.Artist
	}
}

// validateLoggedDate accepts an empty date or a YYYY-MM-DD one.
func validateLoggedDate(d string) error {
	if d == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", d); err != nil {
		return models.NewValidationError("Logged date must be YYYY-MM-DD")
	}
	return nil
}

// GetMediaItem returns the entry if the viewer may see it. Invisible entries
// are reported as not found so the response does not confirm their existence.
func (s *MediaService) GetMediaItem(ctx context.Context, mediaID, viewerID uint) (*models.MediaItem, error) {
	item, err := s.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	visible, err := s.visibility.canView(ctx, viewerID, item)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewNotFoundError("Media item", mediaID)
	}
	return item, nil
}

// GetUserMedia returns the target user's logged entries that the viewer may see.
func (s *MediaService) GetUserMedia(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]models.MediaItem, error) {
	items, err := s.mediaRepo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	friends, err := s.visibility.friendSet(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	out := make([]models.MediaItem, 0, len(items))
	for i := range items {
		if feed.IsVisible(&items[i], viewerID, friends) {
			out = append(out, items[i])
		}
	}
	return out, nil
}

// SearchMedia finds logged entries by title, filtered to what the viewer may see.
func (s *MediaService) SearchMedia(ctx context.Context, query string, limit, offset int, viewerID uint) ([]models.MediaItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}

	items, err := s.mediaRepo.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}

	friends, err := s.visibility.friendSet(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	out := make([]models.MediaItem, 0, len(items))
	for i := range items {
		if feed.IsVisible(&items[i], viewerID, friends) {
			out = append(out, items[i])
		}
	}
	return out, nil
}

func (s *MediaService) UpdateMedia(ctx context.Context, in UpdateMediaInput) (*models.MediaItem, error) {
	item, err := s.mediaRepo.GetByID(ctx, in.MediaID)
	if err != nil {
		return nil, err
	}

	if item.UserID != in.UserID {
		if err := s.requireAdmin(ctx, in.UserID, "You can only update your own media entries"); err != nil {
			return nil, err
		}
	}

	if in.Title != "" {
		if err := validation.ValidateMediaTitle(in.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		item.Title = strings.TrimSpace(in.Title)
	}
	if in.Status != "" {
		if !models.ValidMediaStatus(in.Status) {
			return nil, models.NewValidationError("Invalid media status")
		}
		item.Status = in.Status
	}
	if in.Rating != nil {
		if err := validation.ValidateRating(*in.Rating); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		item.Rating = *in.Rating
	}
	if in.Review != nil {
		if err := validation.ValidateReview(*in.Review); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		item.Review = *in.Review
	}
	if in.CoverURL != "" {
		item.CoverURL = in.CoverURL
	}
	if in.Visibility != "" {
		// Admins may moderate content but never widen someone else's
		// audience; flipping private to public would bypass the rule that
		// private entries are readable by the owner only.
		if item.UserID != in.UserID {
			return nil, models.NewUnauthorizedError("Only the owner can change visibility")
		}
		if !in.Visibility.Known() {
			return nil, models.NewValidationError("Invalid visibility")
		}
		item.Visibility = in.Visibility
	}
	if in.LoggedDate != "" {
		if err := validateLoggedDate(in.LoggedDate); err != nil {
			return nil, err
		}
		item.LoggedDate = in.LoggedDate
	}
	if in.Tags != nil {
		item.Tags = in.Tags
	}

	if err := s.mediaRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MediaService) DeleteMedia(ctx context.Context, userID, mediaID uint) error {
	item, err := s.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		return err
	}

	if item.UserID != userID {
		if err := s.requireAdmin(ctx, userID, "You can only delete your own media entries"); err != nil {
			return err
		}
	}

	return s.mediaRepo.Delete(ctx, mediaID)
}

// UserStats is the aggregate view of one user's media collection.
type UserStats struct {
	Total           int                   `json:"total"`
	ByType          stats.CategoryCounts  `json:"by_type"`
	Distribution    []stats.CategoryShare `json:"distribution"`
	ByStatus        map[string]int        `json:"by_status"`
	AverageRating   float64               `json:"average_rating"`
	AvgRatingByType map[string]float64    `json:"avg_rating_by_type"`
	TopRated        []models.MediaItem    `json:"top_rated"`
	Monthly         []stats.MonthActivity `json:"monthly"`
	Recent          []models.MediaItem    `json:"recent"`
}

// GetStats aggregates the user's whole collection. Stats cover the owner's
// own entries regardless of visibility, so only the owner may request them.
func (s *MediaService) GetStats(ctx context.Context, userID uint) (*UserStats, error) {
	var out UserStats
	key := cache.StatsKey(userID)

	err := cache.Aside(ctx, key, cache.StatsTTL, &out, func() (interface{}, error) {
		items, err := s.mediaRepo.GetAllByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &UserStats{
			Total:           len(items),
			ByType:          stats.CountByType(items),
			Distribution:    stats.Distribution(items),
			ByStatus:        stats.StatusCounts(items),
			AverageRating:   stats.AverageRating(items),
			AvgRatingByType: stats.AverageRatingByType(items),
			TopRated:        stats.TopRated(items, 5),
			Monthly:         stats.MonthlyActivity(items, 12),
			Recent:          stats.Recent(items, 10),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MediaService) requireAdmin(ctx context.Context, userID uint, denial string) error {
	if s.isAdmin == nil {
		return models.NewUnauthorizedError(denial)
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewUnauthorizedError(denial)
	}
	return nil
}
