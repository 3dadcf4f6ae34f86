package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// clientService lo implementa *billing.ClientUseCase.
type clientService interface {
	Create(ctx context.Context, businessID string, in dto.CreateClientRequest) (*dto.ClientResponse, error)
	GetByID(ctx context.Context, businessID, id string) (*dto.ClientResponse, error)
	List(ctx context.Context, businessID string, q dto.ListClientsQuery) (*dto.ClientListResponse, error)
	Update(ctx context.Context, businessID, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error)
	Delete(ctx context.Context, businessID, id string) error
}

// ClientHandler maneja las peticiones HTTP de clientes (protegido).
type ClientHandler struct {
	uc  clientService
	log *logger.Logger
}

// NewClientHandler construye el handler.
func NewClientHandler(uc clientService, log *logger.Logger) *ClientHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ClientHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Alta de cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClientRequest  true  "Cliente"
// @Success      201   {object}  dto.ClientResponse
// @Failure      409   {object}  dto.ErrorResponse  "NIF repetido"
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
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
// @Summary      Listar clientes por nombre
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "Busca en nombre, NIF y email"
// @Param        limit   query  int     false  "Máximo 100 (20 por defecto)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200     {object}  dto.ClientListResponse
// @Router       /api/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	var q dto.ListClientsQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.List(c.Context(), GetBusinessID(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/clients/:id
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update PATCH /api/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateClientRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Update(c.Context(), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar cliente
// @Description  Un cliente con facturas no se puede borrar (409).
// @Tags         clients
// @Security     Bearer
// @Param        id   path  string  true  "ID del cliente"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetBusinessID(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
