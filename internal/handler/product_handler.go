package handler

import (
	"go-hpp-engine/internal/model"
	"go-hpp-engine/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.service.CreateProduct(a, &product); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	products, err := h.service.ListProducts(a.OwnerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.service.GetProduct(a.OwnerID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	updated, err := h.service.UpdateProduct(a, id, &product)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.service.DeleteProduct(a, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GetRecipe lists the bill of materials
// GET /api/v1/products/:id/recipe
func (h *ProductHandler) GetRecipe(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	lines, err := h.service.ListRecipeLines(a.OwnerID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(lines)
}

// AddRecipeLine
// POST /api/v1/products/:id/recipe
func (h *ProductHandler) AddRecipeLine(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var line model.RecipeLine
	if err := c.BodyParser(&line); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.service.AddRecipeLine(a, id, &line); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Recipe line added", "data": line})
}

// UpdateRecipeLine
// PUT /api/v1/recipe-lines/:id
func (h *ProductHandler) UpdateRecipeLine(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid recipe line ID")
	}
	var req service.RecipeLineUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	line, err := h.service.UpdateRecipeLine(a, id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Recipe line updated", "data": line})
}

// DeleteRecipeLine
// DELETE /api/v1/recipe-lines/:id
func (h *ProductHandler) DeleteRecipeLine(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid recipe line ID")
	}
	if err := h.service.DeleteRecipeLine(a, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Recipe line deleted"})
}
