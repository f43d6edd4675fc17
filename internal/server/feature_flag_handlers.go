package server

import "github.com/gofiber/fiber/v2"

// GetFeatureFlags reports the configured rollout flags and how each one
// evaluates for the requesting user, so clients can gate UI without
// re-implementing the percentage hashing.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	raw := map[string]string{}
	evaluated := map[string]bool{}
	if s.featureFlags != nil {
		raw = s.featureFlags.Raw()
		evaluated = s.featureFlags.Snapshot(userID)
	}

	return c.JSON(fiber.Map{
		"raw":       raw,
		"evaluated": evaluated,
	})
}
