package server

import (
	"io"
	"strings"

	"harmonic/internal/models"
	"harmonic/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CoverUploadResponse is the API response after uploading cover art.
type CoverUploadResponse struct {
	ID        uint   `json:"id"`
	Hash      string `json:"hash"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	SizeBytes int64  `json:"size_bytes"`
	URL       string `json:"url"`
}

// UploadCover handles POST /api/covers
func (s *Server) UploadCover(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	file, err := c.FormFile("cover")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}

	cover, err := s.coverSvc().Upload(c.Context(), service.UploadCoverInput{
		UserID:      userID,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(CoverUploadResponse{
		ID:        cover.ID,
		Hash:      cover.Hash,
		Width:     cover.Width,
		Height:    cover.Height,
		SizeBytes: cover.SizeBytes,
		URL:       s.coverSvc().CoverURL(cover.Hash),
	})
}

// ServeCover handles GET /api/covers/:hash
// Content negotiation picks the WebP rendition when the client accepts it.
func (s *Server) ServeCover(c *fiber.Ctx) error {
	hash := strings.TrimSpace(c.Params("hash"))
	preferWebP := strings.Contains(c.Get(fiber.HeaderAccept), "image/webp")

	_, fullPath, err := s.coverSvc().ResolveForServing(c.Context(), hash, preferWebP)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	// Content is immutable; the hash is the identity.
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.SendFile(fullPath)
}
