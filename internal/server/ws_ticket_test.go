package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"harmonic/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The websocket upgrade runs the auth middleware more than once, so a ticket
// pulled out of Redis with GETDEL must stay usable in-process for the rest of
// the handshake. These tests pin that two-stage consumption down.
func TestAuthRequiredWithTicket(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	s := &Server{
		config:          &config.Config{JWTSecret: "test-secret"},
		redis:           rdb,
		consumedTickets: make(map[string]consumedTicketEntry),
	}

	echoIdentity := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"userID":   c.Locals("userID"),
			"wsTicket": c.Locals("wsTicket"),
		})
	}

	app := fiber.New()
	app.Get("/api/ws/feed", s.AuthRequired(), echoIdentity)
	app.Get("/api/profile", s.AuthRequired(), echoIdentity)

	ctx := context.Background()

	storeTicket := func(t *testing.T, ticket, userID string) string {
		t.Helper()
		key := "ws_ticket:" + ticket
		require.NoError(t, rdb.Set(ctx, key, userID, time.Minute).Err())
		return key
	}

	ticketCached := func(ticket string) bool {
		s.consumedTicketsMu.Lock()
		defer s.consumedTicketsMu.Unlock()
		_, ok := s.consumedTickets[ticket]
		return ok
	}

	t.Run("websocket route moves ticket from Redis to process cache", func(t *testing.T) {
		key := storeTicket(t, "upgrade-once", "123")

		req := httptest.NewRequest(http.MethodGet, "/api/ws/feed?ticket=upgrade-once", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		remaining, err := rdb.Exists(ctx, key).Result()
		require.NoError(t, err)
		assert.Zero(t, remaining, "GETDEL should have emptied the Redis key")
		assert.True(t, ticketCached("upgrade-once"), "ticket must survive in-process for the handshake")

		var body map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, float64(123), body["userID"])
		assert.Equal(t, "upgrade-once", body["wsTicket"])
		_ = resp.Body.Close()
	})

	t.Run("second middleware pass authenticates from process cache", func(t *testing.T) {
		storeTicket(t, "upgrade-twice", "789")

		first := httptest.NewRequest(http.MethodGet, "/api/ws/feed?ticket=upgrade-twice", nil)
		resp, err := app.Test(first)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		// Redis no longer has the ticket; only the cache can satisfy this.
		second := httptest.NewRequest(http.MethodGet, "/api/ws/feed?ticket=upgrade-twice", nil)
		resp2, err := app.Test(second)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp2.StatusCode)

		var body map[string]interface{}
		_ = json.NewDecoder(resp2.Body).Decode(&body)
		assert.Equal(t, float64(789), body["userID"])
		_ = resp2.Body.Close()
	})

	t.Run("ordinary route burns the ticket outright", func(t *testing.T) {
		key := storeTicket(t, "one-shot", "456")

		req := httptest.NewRequest(http.MethodGet, "/api/profile?ticket=one-shot", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		remaining, err := rdb.Exists(ctx, key).Result()
		require.NoError(t, err)
		assert.Zero(t, remaining)
		_ = resp.Body.Close()
	})

	t.Run("unknown ticket is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/ws/feed?ticket=forged", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestConsumeWSTicket(t *testing.T) {
	s := &Server{consumedTickets: make(map[string]consumedTicketEntry)}
	ctx := context.Background()

	s.consumedTicketsMu.Lock()
	s.consumedTickets["spent"] = consumedTicketEntry{userID: 123, consumeAt: time.Now()}
	s.consumedTicketsMu.Unlock()

	s.consumeWSTicket(ctx, "spent")

	s.consumedTicketsMu.Lock()
	_, exists := s.consumedTickets["spent"]
	s.consumedTicketsMu.Unlock()
	assert.False(t, exists, "consumed ticket should leave the cache")

	// Absent or malformed locals must not panic.
	s.consumeWSTicket(ctx, nil)
	s.consumeWSTicket(ctx, "")
}
