package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

type businessService interface {
	GetProfile(ctx context.Context, businessID string) (*dto.BusinessResponse, error)
	UpdateProfile(ctx context.Context, businessID string, in dto.UpdateBusinessRequest) (*dto.BusinessResponse, error)
}

// BusinessHandler perfil de la empresa del token.
type BusinessHandler struct {
	uc  businessService
	log *logger.Logger
}

// NewBusinessHandler construye el handler inyectando el caso de uso.
func NewBusinessHandler(uc businessService, log *logger.Logger) *BusinessHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &BusinessHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Perfil de la empresa
// @Description  Datos fiscales, texto legal y próximo número de factura.
// @Tags         business
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BusinessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business [get]
func (h *BusinessHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetProfile(c.Context(), GetBusinessID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar perfil de la empresa
// @Tags         business
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateBusinessRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.BusinessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/business [patch]
func (h *BusinessHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBusinessRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.UpdateProfile(c.Context(), GetBusinessID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
