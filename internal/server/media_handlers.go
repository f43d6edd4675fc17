package server

import (
	"time"

	"harmonic/internal/feed"
	"harmonic/internal/models"
	"harmonic/internal/service"

	"github.com/gofiber/fiber/v2"
)

// mediaRequest is the request body shared by LogMedia and UpdateMedia.
type mediaRequest struct {
	Title      string   `json:"title"`
	Type       string   `json:"type"`
	Status     string   `json:"status"`
	Rating     *int     `json:"rating"`
	Review     *string  `json:"review"`
	CoverURL   string   `json:"cover_url"`
	Visibility string   `json:"visibility"`
	LoggedDate string   `json:"logged_date"`
	Tags       []string `json:"tags"`

	Author      string `json:"author"`
	Director    string `json:"director"`
	Platform    string `json:"platform"`
	SeasonCount string `json:"season_count"`
	Studio      string `json:"studio"`
	Artist      string `json:"artist"`
}

// LogMedia handles POST /api/media
func (s *Server) LogMedia(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req mediaRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.LogMediaInput{
		UserID:      userID,
		Title:       req.Title,
		Type:        req.Type,
		Status:      req.Status,
		Review:      "",
		CoverURL:    req.CoverURL,
		Visibility:  feed.Visibility(req.Visibility),
		LoggedDate:  req.LoggedDate,
		Tags:        req.Tags,
		Author:      req.Author,
		Director:    req.Director,
		Platform:    req.Platform,
		SeasonCount: req.SeasonCount,
		Studio:      req.Studio,
		Artist:      req.Artist,
	}
	if req.Rating != nil {
		in.Rating = *req.Rating
	}
	if req.Review != nil {
		in.Review = *req.Review
	}

	item, err := s.mediaSvc().LogMedia(ctx, in)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if item.Visibility == feed.VisibilityPublic {
		s.publishBroadcastEvent(EventMediaLogged, map[string]interface{}{
			"media_id":   item.ID,
			"author_id":  item.UserID,
			"type":       item.Type,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetMediaItem handles GET /api/media/:id
func (s *Server) GetMediaItem(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	item, err := s.mediaSvc().GetMediaItem(ctx, id, viewerID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(item)
}

// GetUserMedia handles GET /api/users/:id/media
func (s *Server) GetUserMedia(c *fiber.Ctx) error {
	ctx := c.Context()
	userIDParam, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	viewerID, _ := s.optionalUserID(c)

	items, err := s.mediaSvc().GetUserMedia(ctx, userIDParam, page.Limit, page.Offset, viewerID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(items)
}

// SearchMedia handles GET /api/media/search?q=...
func (s *Server) SearchMedia(c *fiber.Ctx) error {
	ctx := c.Context()
	q := c.Query("q")

	page := parsePagination(c, 10)
	viewerID, _ := s.optionalUserID(c)

	items, err := s.mediaSvc().SearchMedia(ctx, q, page.Limit, page.Offset, viewerID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(items)
}

// UpdateMedia handles PUT /api/media/:id
func (s *Server) UpdateMedia(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	mediaID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req mediaRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.mediaSvc().UpdateMedia(ctx, service.UpdateMediaInput{
		UserID:     userID,
		MediaID:    mediaID,
		Title:      req.Title,
		Status:     req.Status,
		Rating:     req.Rating,
		Review:     req.Review,
		CoverURL:   req.CoverURL,
		Visibility: feed.Visibility(req.Visibility),
		LoggedDate: req.LoggedDate,
		Tags:       req.Tags,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(item)
}

// DeleteMedia handles DELETE /api/media/:id
func (s *Server) DeleteMedia(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	mediaID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if delErr := s.mediaSvc().DeleteMedia(ctx, userID, mediaID); delErr != nil {
		return models.RespondWithError(c, mapServiceError(delErr), delErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetMediaStats handles GET /api/media/stats
func (s *Server) GetMediaStats(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	out, err := s.mediaSvc().GetStats(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(out)
}
