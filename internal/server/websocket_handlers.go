package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"harmonic/internal/models"
	"harmonic/internal/observability"
)

// wsTicketTTL bounds the window between ticket issuance and the WebSocket
// upgrade request.
const wsTicketTTL = 30 * time.Second

// IssueWSTicket handles POST /api/ws/ticket
// The browser WebSocket API cannot set an Authorization header, so clients
// trade their JWT for a short-lived single-use ticket passed as a query param.
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if s.redis == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fmt.Errorf("ticket store unavailable")))
	}

	ticket := uuid.New().String()
	key := fmt.Sprintf("ws_ticket:%s", ticket)
	if err := s.redis.Set(c.Context(), key, fmt.Sprintf("%d", userID), wsTicketTTL).Err(); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(wsTicketTTL.Seconds()),
	})
}

// WebsocketHandler returns a websocket handler that registers connections with the Hub.
// Authentication is handled by route middleware and userID is read from connection locals.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		observability.WebSocketConnectionsTotal.Inc()
		defer observability.WebSocketConnectionsTotal.Dec()

		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			if cerr := conn.Close(); cerr != nil {
				log.Printf("websocket close error: %v", cerr)
			}
			return
		}
		uid, ok := userIDVal.(uint)
		if !ok {
			if cerr := conn.Close(); cerr != nil {
				log.Printf("websocket close error: %v", cerr)
			}
			return
		}

		// The upgrade is done; the single-use ticket has served its purpose.
		s.consumeWSTicket(context.Background(), conn.Locals("wsTicket"))

		if s.hub == nil {
			_ = conn.Close()
			return
		}

		// Register connection with scaling guardrails
		client, err := s.hub.Register(uid, conn)
		if err != nil {
			log.Printf("WebSocket Notification: Failed to register user %d: %v", uid, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		defer s.hub.UnregisterClient(client)

		// Presence logic
		s.notifyFriendsPresence(uid, "online")
		s.sendFriendsOnlineSnapshot(conn, uid)

		// Start pumps
		go client.WritePump()
		client.ReadPump()

		// After ReadPump returns, client is disconnected
		if !s.hub.IsOnline(uid) {
			s.notifyFriendsPresence(uid, "offline")
		}
	})
}

func (s *Server) notifyFriendsPresence(userID uint, status string) {
	if s.friendRepo == nil {
		return
	}
	friends, err := s.friendRepo.GetFriends(context.Background(), userID)
	if err != nil {
		log.Printf("failed to load friends for presence event: %v", err)
		return
	}
	user, err := s.userRepo.GetByID(context.Background(), userID)
	if err != nil {
		log.Printf("failed to load user for presence event: %v", err)
		return
	}
	for _, friend := range friends {
		s.publishUserEvent(friend.ID, EventFriendPresenceChanged, map[string]interface{}{
			"user_id":    user.ID,
			"username":   user.Username,
			"avatar":     user.Avatar,
			"status":     status,
			"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
}

func (s *Server) sendFriendsOnlineSnapshot(conn *websocket.Conn, userID uint) {
	if s.friendRepo == nil || s.hub == nil {
		return
	}
	friends, err := s.friendRepo.GetFriends(context.Background(), userID)
	if err != nil {
		log.Printf("failed to load friends for online snapshot: %v", err)
		return
	}
	onlineFriendIDs := make([]uint, 0, len(friends))
	for _, friend := range friends {
		if s.hub.IsOnline(friend.ID) {
			onlineFriendIDs = append(onlineFriendIDs, friend.ID)
		}
	}
	msg, err := json.Marshal(map[string]interface{}{
		"type": "friends_online_snapshot",
		"payload": map[string]interface{}{
			"user_ids": onlineFriendIDs,
		},
	})
	if err != nil {
		log.Printf("failed to marshal friends online snapshot: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Printf("failed to write friends online snapshot: %v", err)
	}
}
