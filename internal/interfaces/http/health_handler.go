package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// pinger lo implementa *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler estado del servicio y de la base de datos.
type HealthHandler struct {
	db      pinger
	service string
}

// NewHealthHandler construye el handler. db puede ser nil (solo liveness).
func NewHealthHandler(db pinger, service string) *HealthHandler {
	return &HealthHandler{db: db, service: service}
}

// Health GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": h.service, "database": "down"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok", "service": h.service})
}
