package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mentorlink/mentorlink-api/database"
	"github.com/mentorlink/mentorlink-api/utils/response"
)

// HandleCheckHealth reports API liveness and database reachability
func HandleCheckHealth(c *fiber.Ctx, store *database.GORMStore) error {
	if err := store.HealthCheck(); err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Database unavailable", "UNHEALTHY")
	}
	return response.Success(c, fiber.Map{"status": "ok"})
}
