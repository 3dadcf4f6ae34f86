package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// fiscalService operaciones de años fiscales y trimestres que expone la API.
// Lo implementa *fiscal.UseCase.
type fiscalService interface {
	CreateFiscalYear(ctx context.Context, businessID string, in dto.CreateFiscalYearRequest) (*dto.FiscalYearResponse, error)
	EnsureQuarters(ctx context.Context, businessID string, year int) ([]dto.QuarterResponse, error)
	ListFiscalYears(ctx context.Context, businessID string) ([]dto.FiscalYearResponse, error)
	GetFiscalYear(ctx context.Context, businessID string, year int) (*dto.FiscalYearDetailResponse, error)
	QuarterDetail(ctx context.Context, businessID string, year, number int) (*dto.QuarterDetailResponse, error)
	ComputeModelo303(ctx context.Context, businessID string, year, number int) (*dto.Modelo303Response, error)
	ComputeModelo130(ctx context.Context, businessID string, year, number int) (*dto.Modelo130Response, error)
	ComputeModelo390(ctx context.Context, businessID string, year int) (*dto.Modelo390Response, error)
	SaveQuarterResult(ctx context.Context, businessID string, year, number int, in dto.SaveQuarterResultRequest) (*dto.QuarterlyResultResponse, error)
	CloseQuarter(ctx context.Context, businessID string, year, number int) (*dto.QuarterResponse, error)
	CloseQuarters(ctx context.Context, businessID string, refs []dto.QuarterRef) *dto.BatchResponse
	SaveQuarterResults(ctx context.Context, businessID string, refs []dto.QuarterRef) *dto.BatchResponse
	CloseFiscalYear(ctx context.Context, businessID string, year int) (*dto.FiscalYearResponse, error)
	CloseFiscalYears(ctx context.Context, businessID string, years []int) *dto.BatchResponse
}

// FiscalHandler maneja años fiscales, trimestres y modelos (protegido).
type FiscalHandler struct {
	uc  fiscalService
	log *logger.Logger
}

// NewFiscalHandler construye el handler.
func NewFiscalHandler(uc fiscalService, log *logger.Logger) *FiscalHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &FiscalHandler{uc: uc, log: log}
}

// CreateFiscalYear godoc
// @Summary      Crear año fiscal (con sus 4 trimestres)
// @Tags         fiscal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFiscalYearRequest  true  "Año y régimen de estimación"
// @Success      201   {object}  dto.FiscalYearResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/fiscal-years [post]
func (h *FiscalHandler) CreateFiscalYear(c *fiber.Ctx) error {
	var in dto.CreateFiscalYearRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.CreateFiscalYear(c.Context(), GetBusinessID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListFiscalYears godoc
// @Summary      Listar años fiscales
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.FiscalYearResponse
// @Router       /api/fiscal-years [get]
func (h *FiscalHandler) ListFiscalYears(c *fiber.Ctx) error {
	out, err := h.uc.ListFiscalYears(c.Context(), GetBusinessID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetFiscalYear godoc
// @Summary      Detalle del año fiscal con el resumen anual (390)
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        year  path  int  true  "Año"
// @Success      200   {object}  dto.FiscalYearDetailResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/fiscal-years/{year} [get]
func (h *FiscalHandler) GetFiscalYear(c *fiber.Ctx) error {
	year, err := yearParam(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.GetFiscalYear(c.Context(), GetBusinessID(c), year)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// EnsureQuarters godoc
// @Summary      Crear los trimestres que falten
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        year  path  int  true  "Año"
// @Success      200   {array}  dto.QuarterResponse
// @Router       /api/fiscal-years/{year}/quarters [post]
func (h *FiscalHandler) EnsureQuarters(c *fiber.Ctx) error {
	year, err := yearParam(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.EnsureQuarters(c.Context(), GetBusinessID(c), year)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Modelo390 godoc
// @Summary      Resumen anual de IVA (modelo 390)
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        year  path  int  true  "Año"
// @Success      200   {object}  dto.Modelo390Response
// @Router       /api/fiscal-years/{year}/modelo-390 [get]
func (h *FiscalHandler) Modelo390(c *fiber.Ctx) error {
	year, err := yearParam(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ComputeModelo390(c.Context(), GetBusinessID(c), year)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// QuarterDetail godoc
// @Summary      Trimestre con 303, 130 y resultado guardado
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        year  path  int  true  "Año"
// @Param        n     path  int  true  "Trimestre (1-4)"
// @Success      200   {object}  dto.QuarterDetailResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/fiscal-years/{year}/quarters/{n} [get]
func (h *FiscalHandler) QuarterDetail(c *fiber.Ctx) error {
	year, n, err := periodParams(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.QuarterDetail(c.Context(), GetBusinessID(c), year, n)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Modelo303 GET /api/fiscal-years/:year/quarters/:n/modelo-303
func (h *FiscalHandler) Modelo303(c *fiber.Ctx) error {
	year, n, err := periodParams(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ComputeModelo303(c.Context(), GetBusinessID(c), year, n)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Modelo130 GET /api/fiscal-years/:year/quarters/:n/modelo-130
func (h *FiscalHandler) Modelo130(c *fiber.Ctx) error {
	year, n, err := periodParams(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ComputeModelo130(c.Context(), GetBusinessID(c), year, n)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SaveQuarterResult godoc
// @Summary      Guardar el resultado del trimestre
// @Description  Recalcula 303 y 130 y guarda, si vienen, los importes presentados.
// @Tags         fiscal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        year  path  int  true  "Año"
// @Param        n     path  int  true  "Trimestre (1-4)"
// @Param        body  body  dto.SaveQuarterResultRequest  false  "Importes presentados"
// @Success      200   {object}  dto.QuarterlyResultResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/fiscal-years/{year}/quarters/{n}/result [post]
func (h *FiscalHandler) SaveQuarterResult(c *fiber.Ctx) error {
	year, n, err := periodParams(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.SaveQuarterResultRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &in); err != nil {
			return writeError(c, h.log, err)
		}
	}
	out, err := h.uc.SaveQuarterResult(c.Context(), GetBusinessID(c), year, n, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CloseQuarter godoc
// @Summary      Cerrar trimestre
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        year  path  int  true  "Año"
// @Param        n     path  int  true  "Trimestre (1-4)"
// @Success      200   {object}  dto.QuarterResponse
// @Failure      409   {object}  dto.ErrorResponse  "MISSING_RESULT o ALREADY_CLOSED"
// @Router       /api/fiscal-years/{year}/quarters/{n}/close [post]
func (h *FiscalHandler) CloseQuarter(c *fiber.Ctx) error {
	year, n, err := periodParams(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.CloseQuarter(c.Context(), GetBusinessID(c), year, n)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CloseQuarters godoc
// @Summary      Cerrar varios trimestres
// @Description  Nunca falla por un trimestre concreto: informa por elemento.
// @Tags         fiscal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuarterBatchRequest  true  "Trimestres"
// @Success      200   {object}  dto.BatchResponse
// @Router       /api/quarters/close [post]
func (h *FiscalHandler) CloseQuarters(c *fiber.Ctx) error {
	var in dto.QuarterBatchRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.uc.CloseQuarters(c.Context(), GetBusinessID(c), in.Quarters))
}

// SaveQuarterResults godoc
// @Summary      Calcular y guardar resultado (303 + 130) de varios trimestres
// @Description  Los trimestres cerrados se omiten con already_closed.
// @Tags         fiscal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuarterBatchRequest  true  "Trimestres"
// @Success      200   {object}  dto.BatchResponse
// @Router       /api/quarters/result [post]
func (h *FiscalHandler) SaveQuarterResults(c *fiber.Ctx) error {
	var in dto.QuarterBatchRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.uc.SaveQuarterResults(c.Context(), GetBusinessID(c), in.Quarters))
}

// CloseFiscalYear godoc
// @Summary      Cerrar año fiscal
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        year  path  int  true  "Año"
// @Success      200   {object}  dto.FiscalYearResponse
// @Failure      409   {object}  dto.ErrorResponse  "MISSING_QUARTERS, OPEN_QUARTERS o ALREADY_CLOSED"
// @Router       /api/fiscal-years/{year}/close [post]
func (h *FiscalHandler) CloseFiscalYear(c *fiber.Ctx) error {
	year, err := yearParam(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.CloseFiscalYear(c.Context(), GetBusinessID(c), year)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CloseFiscalYears godoc
// @Summary      Cerrar varios años fiscales
// @Tags         fiscal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseFiscalYearsRequest  true  "Años"
// @Success      200   {object}  dto.BatchResponse
// @Router       /api/fiscal-years/close [post]
func (h *FiscalHandler) CloseFiscalYears(c *fiber.Ctx) error {
	var in dto.CloseFiscalYearsRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(h.uc.CloseFiscalYears(c.Context(), GetBusinessID(c), in.Years))
}
