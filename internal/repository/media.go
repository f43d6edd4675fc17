package repository

import (
	"context"
	"errors"

	"harmonic/internal/cache"
	"harmonic/internal/models"

	"gorm.io/gorm"
)

// MediaRepository defines the interface for logged media data operations
type MediaRepository interface {
	Create(ctx context.Context, item *models.MediaItem) error
	GetByID(ctx context.Context, id uint) (*models.MediaItem, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]models.MediaItem, error)
	GetAllByUserID(ctx context.Context, userID uint) ([]models.MediaItem, error)
	ListRecent(ctx context.Context, limit int) ([]*models.MediaItem, error)
	Search(ctx context.Context, query string, limit, offset int) ([]models.MediaItem, error)
	Update(ctx context.Context, item *models.MediaItem) error
	Delete(ctx context.Context, id uint) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, item *models.MediaItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateMedia(ctx, item.UserID)
	cache.BumpFeedEpoch(ctx)
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id uint) (*models.MediaItem, error) {
	var item models.MediaItem
	if err := r.db.WithContext(ctx).Preload("User").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Media item", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *mediaRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]models.MediaItem, error) {
	var items []models.MediaItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

// GetAllByUserID returns the user's full collection, for stats aggregation.
func (r *mediaRepository) GetAllByUserID(ctx context.Context, userID uint) ([]models.MediaItem, error) {
	var items []models.MediaItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

// ListRecent returns the newest logged entries regardless of owner. Visibility
// is the caller's concern; this is the raw candidate set for feed composition.
func (r *mediaRepository) ListRecent(ctx context.Context, limit int) ([]*models.MediaItem, error) {
	var items []*models.MediaItem
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *mediaRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.MediaItem, error) {
	var items []models.MediaItem
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("title ILIKE ?", "%"+query+"%").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *mediaRepository) Update(ctx context.Context, item *models.MediaItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateMedia(ctx, item.UserID)
	cache.BumpFeedEpoch(ctx)
	return nil
}

func (r *mediaRepository) Delete(ctx context.Context, id uint) error {
	var item models.MediaItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Media item", id)
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&models.MediaItem{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateMedia(ctx, item.UserID)
	cache.BumpFeedEpoch(ctx)
	return nil
}
