package repository

import (
	"context"
	"errors"

	"harmonic/internal/models"

	"gorm.io/gorm"
)

// CoverRepository defines the interface for cover image metadata operations
type CoverRepository interface {
	Create(ctx context.Context, cover *models.CoverImage) error
	GetByHash(ctx context.Context, hash string) (*models.CoverImage, error)
}

type coverRepository struct {
	db *gorm.DB
}

// NewCoverRepository creates a new cover repository
func NewCoverRepository(db *gorm.DB) CoverRepository {
	return &coverRepository{db: db}
}

func (r *coverRepository) Create(ctx context.Context, cover *models.CoverImage) error {
	if err := r.db.WithContext(ctx).Create(cover).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Same bytes already uploaded; content addressing makes this a no-op.
			return nil
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *coverRepository) GetByHash(ctx context.Context, hash string) (*models.CoverImage, error) {
	var cover models.CoverImage
	if err := r.db.WithContext(ctx).Where("hash = ?", hash).First(&cover).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &cover, nil
}
