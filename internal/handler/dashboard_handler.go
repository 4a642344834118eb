package handler

import (
	"strconv"

	"go-hpp-engine/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboardStats returns the HPP overview of the owner
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	stats, err := h.service.GetDashboardStats(c.UserContext(), a.OwnerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// GetLowestMargins returns priced products ordered by margin
// Query params: limit (default 5)
func (h *DashboardHandler) GetLowestMargins(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	limit, err := strconv.Atoi(c.Query("limit", "5"))
	if err != nil || limit <= 0 {
		limit = 5
	}

	data, err := h.service.GetLowestMargins(c.UserContext(), a.OwnerID, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"limit": limit,
		"data":  data,
	})
}
