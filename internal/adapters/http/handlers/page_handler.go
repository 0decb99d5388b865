package handlers

import (
	"os"

	"room-scheduler/internal/adapters/http/middleware"

	"github.com/gofiber/fiber/v2"
)

// PageHandler serves dashboard pages once RouteGuard has allowed them
type PageHandler struct {
	indexFile string
}

// NewPageHandler creates a new page handler. When indexFile is empty or
// missing, pages are answered with a JSON stub.
func NewPageHandler(indexFile string) *PageHandler {
	if indexFile != "" {
		if _, err := os.Stat(indexFile); err != nil {
			indexFile = ""
		}
	}
	return &PageHandler{indexFile: indexFile}
}

// Page serves the dashboard shell
func (h *PageHandler) Page(c *fiber.Ctx) error {
	if h.indexFile != "" {
		return c.SendFile(h.indexFile)
	}

	body := fiber.Map{"page": c.Path()}
	if claims := middleware.ClaimsFrom(c); claims != nil {
		body["user"] = claims.Subject
	}
	return c.JSON(body)
}
