package handler

import (
	"go-hpp-engine/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler exposes CRUD for one kind of cost master data.
type CatalogHandler[E any] struct {
	service service.CatalogService[E]
	label   string
}

func NewCatalogHandler[E any](s service.CatalogService[E], label string) *CatalogHandler[E] {
	return &CatalogHandler[E]{service: s, label: label}
}

// Mount registers the CRUD routes on r.
func (h *CatalogHandler[E]) Mount(r fiber.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

func (h *CatalogHandler[E]) Create(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var row E
	if err := c.BodyParser(&row); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.service.Create(a, &row); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": h.label + " created", "data": row})
}

func (h *CatalogHandler[E]) List(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	rows, err := h.service.List(a.OwnerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}

func (h *CatalogHandler[E]) Get(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid "+h.label+" ID")
	}
	row, err := h.service.Get(a.OwnerID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(row)
}

func (h *CatalogHandler[E]) Update(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid "+h.label+" ID")
	}
	var row E
	if err := c.BodyParser(&row); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	updated, err := h.service.Update(a, id, &row)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": h.label + " updated", "data": updated})
}

func (h *CatalogHandler[E]) Delete(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid "+h.label+" ID")
	}
	if err := h.service.Delete(a, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": h.label + " deleted"})
}
