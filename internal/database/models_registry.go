package database

import "harmonic/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Friendship{},
		&models.Post{},
		&models.Vote{},
		&models.Comment{},
		&models.MediaItem{},
		&models.Notification{},
		&models.CoverImage{},
	}
}
