package server

import (
	"time"

	"harmonic/internal/models"

	"github.com/gofiber/fiber/v2"
)

func eventStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// SendFriendRequest handles POST /api/friends/requests/:userId. Both sides
// get a realtime event so their pending lists update without a refresh.
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	friendship, err := s.friendSvc().SendFriendRequest(c.Context(), userID, targetUserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishUserEvent(friendship.AddresseeID, EventFriendRequestReceived, map[string]interface{}{
		"request_id": friendship.ID,
		"from_user":  userSummary(friendship.Requester),
		"created_at": eventStamp(),
	})
	s.publishUserEvent(friendship.RequesterID, EventFriendRequestSent, map[string]interface{}{
		"request_id": friendship.ID,
		"to_user":    userSummary(friendship.Addressee),
		"created_at": eventStamp(),
	})
	s.publishUserEvent(friendship.AddresseeID, EventNotificationCreated, map[string]interface{}{
		"kind":  models.NotificationFriendRequest,
		"actor": userSummary(friendship.Requester),
	})

	return c.Status(fiber.StatusCreated).JSON(friendship)
}

// GetPendingRequests handles GET /api/friends/requests, the requests waiting
// on this user's decision.
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := s.friendSvc().GetPendingRequests(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(requests)
}

// GetSentRequests handles GET /api/friends/requests/sent, the requests this
// user has made that nobody answered yet.
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := s.friendSvc().GetSentRequests(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(requests)
}

// AcceptFriendRequest handles POST /api/friends/requests/:requestId/accept.
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	friendship, err := s.friendSvc().AcceptFriendRequest(c.Context(), userID, requestID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishUserEvent(friendship.RequesterID, EventFriendRequestAccepted, map[string]interface{}{
		"request_id":  friendship.ID,
		"friend_user": userSummary(friendship.Addressee),
		"created_at":  eventStamp(),
	})
	s.publishUserEvent(friendship.AddresseeID, EventFriendAdded, map[string]interface{}{
		"request_id":  friendship.ID,
		"friend_user": userSummary(friendship.Requester),
		"created_at":  eventStamp(),
	})
	s.publishUserEvent(friendship.RequesterID, EventNotificationCreated, map[string]interface{}{
		"kind":  models.NotificationFriendAccept,
		"actor": userSummary(friendship.Addressee),
	})

	return c.JSON(friendship)
}

// RejectFriendRequest handles POST /api/friends/requests/:requestId/reject.
// The same endpoint covers the requester cancelling their own request; the
// event type tells the two apart.
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	friendship, err := s.friendSvc().RejectFriendRequest(c.Context(), userID, requestID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	eventType := EventFriendRequestRejected
	if friendship.RequesterID == userID {
		eventType = EventFriendRequestCancelled
	}
	payload := map[string]interface{}{
		"request_id":  friendship.ID,
		"by_user_id":  userID,
		"rejected_at": eventStamp(),
	}
	s.publishUserEvent(friendship.RequesterID, eventType, payload)
	s.publishUserEvent(friendship.AddresseeID, eventType, payload)

	return c.SendStatus(fiber.StatusNoContent)
}

// GetFriends handles GET /api/friends.
func (s *Server) GetFriends(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	friends, err := s.friendSvc().GetFriends(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(friends)
}

// GetFriendshipStatus handles GET /api/friends/status/:userId, used by
// profile pages to pick the right button state.
func (s *Server) GetFriendshipStatus(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	status, requestID, statusErr := s.friendSvc().GetFriendshipStatus(c.Context(), userID, targetUserID)
	if statusErr != nil {
		return models.RespondWithError(c, mapServiceError(statusErr), statusErr)
	}

	return c.JSON(fiber.Map{
		"status":     status,
		"request_id": requestID,
	})
}

// RemoveFriend handles DELETE /api/friends/:userId. Both sides hear about it
// so cached friend lists drop the entry.
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if _, removeErr := s.friendSvc().RemoveFriend(c.Context(), userID, targetUserID); removeErr != nil {
		return models.RespondWithError(c, mapServiceError(removeErr), removeErr)
	}

	s.publishUserEvent(userID, EventFriendRemoved, map[string]interface{}{
		"user_id":    targetUserID,
		"removed_at": eventStamp(),
	})
	s.publishUserEvent(targetUserID, EventFriendRemoved, map[string]interface{}{
		"user_id":    userID,
		"removed_at": eventStamp(),
	})

	return c.SendStatus(fiber.StatusOK)
}
