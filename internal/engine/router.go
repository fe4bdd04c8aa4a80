package engine

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the management API.
func RegisterRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api")

	// Post status transitions before the generic :kind routes so the fixed
	// segment wins.
	api.Post("/post/:id/publish", h.Status("publish"))
	api.Post("/post/:id/archive", h.Status("archive"))
	api.Post("/post/:id/restore", h.Status("restore"))

	api.Get("/:kind/stats", h.Stats)
	api.Get("/:kind", h.List)
	api.Post("/:kind", h.Create)
	api.Put("/:kind/:id", h.Update)
	api.Delete("/:kind/:id", h.Delete)
}
