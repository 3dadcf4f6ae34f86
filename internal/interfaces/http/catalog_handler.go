package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// catalogService lo implementa *billing.CatalogUseCase.
type catalogService interface {
	Create(ctx context.Context, businessID string, in dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error)
	GetByID(ctx context.Context, businessID, id string) (*dto.CatalogItemResponse, error)
	List(ctx context.Context, businessID string, q dto.ListCatalogQuery) (*dto.CatalogListResponse, error)
	Update(ctx context.Context, businessID, id string, in dto.UpdateCatalogItemRequest) (*dto.CatalogItemResponse, error)
	Delete(ctx context.Context, businessID, id string) error
}

// CatalogHandler conceptos facturables (protegido).
type CatalogHandler struct {
	uc  catalogService
	log *logger.Logger
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc catalogService, log *logger.Logger) *CatalogHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Alta de concepto
// @Description  Sin importes toma precio 0, IVA 21 y retención 0.
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCatalogItemRequest  true  "Concepto"
// @Success      201   {object}  dto.CatalogItemResponse
// @Router       /api/catalog [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCatalogItemRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Create(c.Context(), GetBusinessID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar catálogo
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        inactive  query  bool  false  "Incluir desactivados"
// @Param        limit     query  int   false  "Máximo 100 (20 por defecto)"
// @Param        offset    query  int   false  "Desplazamiento"
// @Success      200       {object}  dto.CatalogListResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	var q dto.ListCatalogQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.List(c.Context(), GetBusinessID(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/catalog/:id
func (h *CatalogHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update PATCH /api/catalog/:id
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCatalogItemRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Update(c.Context(), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/catalog/:id
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetBusinessID(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
