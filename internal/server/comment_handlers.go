package server

import (
	"time"

	"harmonic/internal/feed"
	"harmonic/internal/models"

	"github.com/gofiber/fiber/v2"
)

// publishCommentEvent routes a comment event by the parent post's audience.
// Comments on public posts broadcast to everyone; comments on friends-only
// or private posts go to the post owner alone, so restricted activity never
// crosses the event stream.
func (s *Server) publishCommentEvent(post *models.Post, actorID uint, eventType string, payload map[string]interface{}) {
	if post == nil {
		return
	}
	if post.Visibility == feed.VisibilityPublic {
		s.publishBroadcastEvent(eventType, payload)
		return
	}
	if post.UserID != actorID {
		s.publishUserEvent(post.UserID, eventType, payload)
	}
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.commentSvc().CreateComment(ctx, userID, postID, req.Content)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if post, postErr := s.postSvc().GetPost(ctx, postID, userID); postErr == nil {
		s.publishCommentEvent(post, userID, EventCommentCreated, map[string]interface{}{
			"post_id":       postID,
			"comment":       created,
			"comment_count": post.CommentCount,
			"updated_at":    time.Now().UTC().Format(time.RFC3339Nano),
		})
		if post.UserID != userID {
			s.publishUserEvent(post.UserID, EventNotificationCreated, map[string]interface{}{
				"kind":    models.NotificationComment,
				"actor":   userSummary(created.User),
				"post_id": postID,
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 50)
	viewerID, _ := s.optionalUserID(c)

	comments, err := s.commentSvc().GetComments(ctx, postID, page.Limit, page.Offset, viewerID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(comments)
}

// UpdateComment handles PUT /api/posts/:id/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.commentSvc().UpdateComment(ctx, userID, commentID, req.Content)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if post, postErr := s.postSvc().GetPost(ctx, updated.PostID, userID); postErr == nil {
		s.publishCommentEvent(post, userID, EventCommentUpdated, map[string]interface{}{
			"post_id":    updated.PostID,
			"comment":    updated,
			"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
	}

	return c.JSON(updated)
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if delErr := s.commentSvc().DeleteComment(ctx, userID, commentID); delErr != nil {
		return models.RespondWithError(c, mapServiceError(delErr), delErr)
	}

	if post, postErr := s.postSvc().GetPost(ctx, postID, userID); postErr == nil {
		s.publishCommentEvent(post, userID, EventCommentDeleted, map[string]interface{}{
			"post_id":       postID,
			"comment_id":    commentID,
			"comment_count": post.CommentCount,
			"updated_at":    time.Now().UTC().Format(time.RFC3339Nano),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
