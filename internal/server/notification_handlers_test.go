package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"harmonic/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNotificationRepository is a mock of the NotificationRepository interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, notificationID uint) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newNotificationTestApp(mockRepo *MockNotificationRepository) *fiber.App {
	s := &Server{notifRepo: mockRepo}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(4))
		return c.Next()
	})
	app.Get("/notifications", s.GetNotifications)
	app.Get("/notifications/unread-count", s.GetUnreadCount)
	app.Post("/notifications/read-all", s.MarkAllNotificationsRead)
	app.Post("/notifications/:id/read", s.MarkNotificationRead)
	return app
}

func TestGetNotifications(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	app := newNotificationTestApp(mockRepo)

	mockRepo.On("GetByUserID", mock.Anything, uint(4), 20, 0).Return([]models.Notification{
		{ID: 1, UserID: 4, ActorID: 2, Kind: models.NotificationFriendRequest},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetUnreadCount(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	app := newNotificationTestApp(mockRepo)

	mockRepo.On("CountUnread", mock.Anything, uint(4)).Return(int64(3), nil)

	req := httptest.NewRequest(http.MethodGet, "/notifications/unread-count", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	assert.Equal(t, float64(3), out["count"])
}

func TestMarkNotificationRead(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	app := newNotificationTestApp(mockRepo)

	mockRepo.On("MarkRead", mock.Anything, uint(4), uint(9)).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/notifications/9/read", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	mockRepo.AssertCalled(t, "MarkRead", mock.Anything, uint(4), uint(9))
}

func TestMarkAllNotificationsRead(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	app := newNotificationTestApp(mockRepo)

	mockRepo.On("MarkAllRead", mock.Anything, uint(4)).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/notifications/read-all", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
