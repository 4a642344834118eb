package handler

import (
	"go-hpp-engine/internal/costing"
	"go-hpp-engine/internal/service"

	"github.com/gofiber/fiber/v2"
)

type HppHandler struct {
	service service.HppService
}

func NewHppHandler(s service.HppService) *HppHandler {
	return &HppHandler{service: s}
}

type recommendRequest struct {
	Tiers []costing.Tier `json:"tiers"`
}

type evaluateRequest struct {
	SellingPrice *float64 `json:"selling_price"`
}

type bahanSummaryRequest struct {
	BahanPerUnit float64 `json:"bahan_per_unit"`
}

type manualOverheadRequest struct {
	ManualOverheadPerUnit *float64 `json:"manual_overhead_per_unit"`
}

// GetProductCost
// GET /api/v1/products/:id/hpp
func (h *HppHandler) GetProductCost(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	rep, err := h.service.ProductCost(a.OwnerID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rep)
}

// ListProductCosts
// GET /api/v1/hpp
func (h *HppHandler) ListProductCosts(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	reports, err := h.service.ListProductCosts(c.UserContext(), a.OwnerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reports)
}

// Recommend uses the configured tiers on GET and the body's tiers on POST.
// GET|POST /api/v1/products/:id/pricing
func (h *HppHandler) Recommend(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var req recommendRequest
	if c.Method() == fiber.MethodPost && len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid JSON")
		}
	}
	rep, err := h.service.Recommend(a.OwnerID, id, req.Tiers)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rep)
}

// EvaluatePrice
// POST /api/v1/products/:id/evaluate
func (h *HppHandler) EvaluatePrice(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var req evaluateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid JSON")
		}
	}
	ev, err := h.service.EvaluatePrice(a.OwnerID, id, req.SellingPrice)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ev)
}

// EvaluatePromotion
// POST /api/v1/promotions/evaluate
func (h *HppHandler) EvaluatePromotion(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var req service.PromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	res, err := h.service.EvaluatePromotion(a.OwnerID, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

// SnapshotAggregate
// POST /api/v1/products/:id/aggregate/snapshot
func (h *HppHandler) SnapshotAggregate(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	agg, err := h.service.SnapshotAggregate(a, id)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Cost aggregate stored", "data": agg})
}

// ImportAggregate
// PUT /api/v1/products/:id/aggregate
func (h *HppHandler) ImportAggregate(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var req service.AggregateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	agg, err := h.service.ImportAggregate(a, id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cost aggregate stored", "data": agg})
}

// ClearAggregate
// DELETE /api/v1/products/:id/aggregate
func (h *HppHandler) ClearAggregate(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.service.ClearAggregate(a, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cost aggregate cleared"})
}

// SetBahanSummary
// PUT /api/v1/products/:id/bahan-summary
func (h *HppHandler) SetBahanSummary(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var req bahanSummaryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.service.SetBahanSummary(a, id, req.BahanPerUnit); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ingredient cost summary stored"})
}

// ClearBahanSummary
// DELETE /api/v1/products/:id/bahan-summary
func (h *HppHandler) ClearBahanSummary(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.service.ClearBahanSummary(a, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ingredient cost summary cleared"})
}

// SetManualOverhead; a null value clears the override
// PUT /api/v1/products/:id/manual-overhead
func (h *HppHandler) SetManualOverhead(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var req manualOverheadRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.service.SetManualOverhead(a, id, req.ManualOverheadPerUnit); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Manual overhead updated"})
}
