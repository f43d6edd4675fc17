package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"harmonic/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetUserProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	s := &Server{userRepo: mockRepo}

	app := fiber.New()
	app.Get("/users/:id", s.GetUserProfile)

	profileStatus := func(t *testing.T, idParam string) int {
		t.Helper()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/"+idParam, nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode
	}

	t.Run("existing user", func(t *testing.T) {
		mockRepo.On("GetByID", mock.Anything, uint(1)).
			Return(&models.User{ID: 1, Username: "mediafan"}, nil)
		assert.Equal(t, http.StatusOK, profileStatus(t, "1"))
	})

	t.Run("non-numeric id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, profileStatus(t, "abc"))
	})

	t.Run("unknown user", func(t *testing.T) {
		mockRepo.On("GetByID", mock.Anything, uint(99)).
			Return(nil, models.NewNotFoundError("User", 99))
		assert.Equal(t, http.StatusNotFound, profileStatus(t, "99"))
	})
}

func TestGetMyProfile(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockUserRepository)
	s := &Server{userRepo: mockRepo}

	// Middleware to set userID in Locals
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})
	app.Get("/users/me", s.GetMyProfile)

	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "me"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSearchUsers(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockUserRepository)
	s := &Server{userRepo: mockRepo}

	app.Get("/users/search", s.SearchUsers)

	mockRepo.On("Search", mock.Anything, "alice", 20, 0).
		Return([]models.User{{ID: 2, Username: "alice"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/search?q=alice", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
