package handler

import (
	"go-hpp-engine/internal/middleware"
	"go-hpp-engine/internal/service"
	"go-hpp-engine/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// fail writes err as {"error": ...} with the status its code maps to.
func fail(c *fiber.Ctx, err error) error {
	status, msg := apperror.Status(err)
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(400).JSON(fiber.Map{"error": msg})
}

// Helper untuk ambil owner dari JWT context (set by auth middleware)
func actor(c *fiber.Ctx) (service.Actor, bool) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{OwnerID: ownerID, Email: middleware.Actor(c)}, true
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
}

// Helper untuk parse UUID dari path param
func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(param))
}
