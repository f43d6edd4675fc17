package server

import (
	"time"

	"harmonic/internal/feed"
	"harmonic/internal/models"
	"harmonic/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	q := c.Query("q")

	page := parsePagination(c, 10)
	userID, _ := s.optionalUserID(c)

	posts, err := s.postSvc().SearchPosts(ctx, q, page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Content    string `json:"content"`
		Category   string `json:"category"`
		Visibility string `json:"visibility"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postSvc().CreatePost(ctx, service.CreatePostInput{
		UserID:     userID,
		Content:    req.Content,
		Category:   req.Category,
		Visibility: feed.Visibility(req.Visibility),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	// Only public posts are announced to everyone; visibility-restricted
	// content must not leak through the event stream.
	if post.Visibility == feed.VisibilityPublic {
		s.publishBroadcastEvent(EventPostCreated, map[string]interface{}{
			"post_id":    post.ID,
			"author_id":  post.UserID,
			"category":   post.Category,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	posts, err := s.postSvc().ListPosts(ctx, page.Limit, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	post, err := s.postSvc().GetPost(ctx, id, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	userIDParam, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	currentUserID, _ := s.optionalUserID(c)

	posts, err := s.postSvc().GetUserPosts(ctx, userIDParam, page.Limit, page.Offset, currentUserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content    string `json:"content"`
		Category   string `json:"category"`
		Visibility string `json:"visibility"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postSvc().UpdatePost(ctx, service.UpdatePostInput{
		UserID:     userID,
		PostID:     postID,
		Content:    req.Content,
		Category:   req.Category,
		Visibility: feed.Visibility(req.Visibility),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if delErr := s.postSvc().DeletePost(ctx, service.DeletePostInput{
		UserID: userID,
		PostID: postID,
	}); delErr != nil {
		return models.RespondWithError(c, mapServiceError(delErr), delErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleVote handles POST /api/posts/:id/vote
// Voting is a toggle: a second vote from the same user removes the first.
func (s *Server) ToggleVote(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postSvc().ToggleVote(ctx, userID, postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if post.Visibility == feed.VisibilityPublic {
		s.publishBroadcastEvent(EventPostVoteUpdated, map[string]interface{}{
			"post_id":       post.ID,
			"vote_count":    post.VoteCount,
			"comment_count": post.CommentCount,
			"updated_at":    time.Now().UTC().Format(time.RFC3339Nano),
		})
	}

	// Voted is true when this toggle added a vote, which is when a
	// notification row was persisted for the post owner.
	if post.Voted && post.UserID != userID {
		s.publishUserEvent(post.UserID, EventNotificationCreated, map[string]interface{}{
			"kind":     models.NotificationVote,
			"actor_id": userID,
			"post_id":  post.ID,
		})
	}

	return c.JSON(post)
}
