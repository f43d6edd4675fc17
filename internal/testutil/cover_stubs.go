// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"time"

	"harmonic/internal/models"
)

// CoverRepoStub is an in-memory cover repository implementation for tests.
type CoverRepoStub struct {
	items  map[string]*models.CoverImage
	nextID uint
}

// NewCoverRepoStub creates an in-memory cover repository stub for tests.
func NewCoverRepoStub() *CoverRepoStub {
	return &CoverRepoStub{items: make(map[string]*models.CoverImage), nextID: 1}
}

// Create stores cover metadata in-memory. Duplicate hashes are a no-op,
// mirroring the content-addressed unique constraint.
func (s *CoverRepoStub) Create(_ context.Context, cover *models.CoverImage) error {
	if _, ok := s.items[cover.Hash]; ok {
		return nil
	}
	if cover.ID == 0 {
		cover.ID = s.nextID
		s.nextID++
	}
	cover.CreatedAt = time.Now().UTC()
	s.items[cover.Hash] = cover
	return nil
}

// GetByHash fetches a cover by content hash, nil when absent.
func (s *CoverRepoStub) GetByHash(_ context.Context, hash string) (*models.CoverImage, error) {
	item, ok := s.items[hash]
	if !ok {
		return nil, nil
	}
	return item, nil
}

// TinyPNG returns an in-memory PNG byte slice with the requested dimensions.
func TinyPNG(t interface {
	Helper()
	Fatalf(string, ...any)
}, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
