package handler

import (
	"go-hpp-engine/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfile changes the owner's name and business name
// PUT /api/v1/auth/me
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.userService.UpdateProfile(a, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated", "data": user})
}

// ChangePassword replaces the password; the client must log in again
// PUT /api/v1/auth/password
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var req service.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if err := h.userService.ChangePassword(a, req); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password changed, please log in again"})
}
