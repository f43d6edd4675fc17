package server

import (
	"harmonic/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed
// Works with or without authentication; anonymous viewers get the public feed.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	viewerID, _ := s.optionalUserID(c)
	page := parsePagination(c, 20)

	feedPage, err := s.feedSvc().GetFeed(ctx, viewerID, page.Limit)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(feedPage)
}
