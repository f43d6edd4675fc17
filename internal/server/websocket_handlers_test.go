package server

import (
	"context"
	"encoding/json"
	"fmt"
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

func TestIssueWSTicket(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s := &Server{
		config: &config.Config{JWTSecret: "test-secret"},
		redis:  rdb,
	}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(42))
		return c.Next()
	})
	app.Post("/ws/ticket", s.IssueWSTicket)

	req := httptest.NewRequest(http.MethodPost, "/ws/ticket", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	ticket, _ := body["ticket"].(string)
	assert.NotEmpty(t, ticket)

	// The ticket resolves to the issuing user and expires on its own.
	key := fmt.Sprintf("ws_ticket:%s", ticket)
	val, err := rdb.Get(context.Background(), key).Result()
	require.NoError(t, err)
	assert.Equal(t, "42", val)

	ttl, err := rdb.TTL(context.Background(), key).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= wsTicketTTL)
}

func TestIssueWSTicketWithoutRedis(t *testing.T) {
	s := &Server{config: &config.Config{JWTSecret: "test-secret"}}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(42))
		return c.Next()
	})
	app.Post("/ws/ticket", s.IssueWSTicket)

	req := httptest.NewRequest(http.MethodPost, "/ws/ticket", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWSTicketIsSingleUseAcrossConnections(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s := &Server{
		config:          &config.Config{JWTSecret: "test-secret"},
		redis:           rdb,
		consumedTickets: make(map[string]consumedTicketEntry),
	}

	ctx := context.Background()
	ticket := "single-use-ticket"
	require.NoError(t, rdb.Set(ctx, "ws_ticket:"+ticket, "7", time.Minute).Err())

	userID, ok := s.redeemWSTicket(ctx, ticket)
	require.True(t, ok)
	assert.Equal(t, uint(7), userID)

	// The upgrade handshake re-validates through the in-process cache.
	userID, ok = s.redeemWSTicket(ctx, ticket)
	require.True(t, ok)
	assert.Equal(t, uint(7), userID)

	// Once consumed, the ticket is dead for any later connection.
	s.consumeWSTicket(ctx, ticket)
	_, ok = s.redeemWSTicket(ctx, ticket)
	assert.False(t, ok)
}
