package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// dashboardService lo implementa *analytics.DashboardUseCase.
type dashboardService interface {
	GetSummary(ctx context.Context, businessID string) (*dto.DashboardResponse, error)
}

// DashboardHandler panel de inicio.
type DashboardHandler struct {
	uc  dashboardService
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc dashboardService, log *logger.Logger) *DashboardHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary godoc
// @Summary      Panel de facturación
// @Description  Facturas del mes, pendiente de cobro, cobrado del mes, borradores, últimas
// @Description  facturas y la serie de los últimos 6 meses. Las fechas las fija el servidor.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.Context(), GetBusinessID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
