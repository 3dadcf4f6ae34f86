package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/internal/domain"
	domfiscal "github.com/jhoicas/autonomo-api/internal/domain/fiscal"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// writeError traduce un error de la capa de aplicación a la respuesta HTTP.
// Los 5xx se registran y no exponen el detalle al cliente.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var re *requestError
	if errors.As(err, &re) {
		return c.Status(re.status).JSON(re.body)
	}
	status, body := classify(err)
	if status >= fiber.StatusInternalServerError {
		if id := GetBusinessID(c); id != "" {
			log = log.ForBusiness(id)
		}
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	}
	return c.Status(status).JSON(body)
}

func classify(err error) (int, dto.ErrorResponse) {
	if reason := domfiscal.SkipReason(err); reason != "" {
		// Precondición de cierre: el estado no cambió, el cliente decide.
		return fiber.StatusConflict, dto.ErrorResponse{Code: strings.ToUpper(reason), Message: err.Error()}
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}
