package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
)

// RequireRecordMode devuelve un middleware que solo deja pasar si el modo de registro
// configurado es uno de los permitidos. Las facturas solo existen en el modo por
// empresa y los ingresos sueltos solo en el modo por trimestre.
//
// Responde 403 RECORD_MODE_DISABLED si el modo no coincide.
func RequireRecordMode(active string, allowed ...string) fiber.Handler {
	enabled := false
	for _, m := range allowed {
		if m == active {
			enabled = true
		}
	}
	return func(c *fiber.Ctx) error {
		if !enabled {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "RECORD_MODE_DISABLED",
				Message: "operación no disponible en el modo de registro '" + active + "'",
			})
		}
		return c.Next()
	}
}
