package http

import (
	"bytes"
	"context"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// invoiceService lo implementa *billing.InvoiceUseCase.
type invoiceService interface {
	CreateInvoice(ctx context.Context, businessID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, businessID, id string) (*dto.InvoiceResponse, error)
	UpdateInvoice(ctx context.Context, businessID, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, businessID string, q dto.ListInvoicesQuery) ([]dto.InvoiceResponse, error)
	ChangeStatus(ctx context.Context, businessID, id string, in dto.ChangeInvoiceStatusRequest) (*dto.InvoiceResponse, error)
	RegisterPayment(ctx context.Context, businessID, invoiceID string, in dto.RegisterPaymentRequest) (*dto.InvoiceResponse, error)
	DeletePayment(ctx context.Context, businessID, invoiceID, paymentID string) (*dto.InvoiceResponse, error)
	ExportCSV(ctx context.Context, businessID string, q dto.ListInvoicesQuery, w io.Writer) error
}

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	uc  invoiceService
	log *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc invoiceService, log *logger.Logger) *InvoiceHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Emitir factura
// @Description  Asigna el siguiente número de la serie de la empresa.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.CreateInvoice(c.Context(), GetBusinessID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Detalle de factura con líneas y cobros
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoice(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar borrador
// @Description  Reemplaza cliente, fechas, notas y líneas. Solo borradores; el resto devuelve 409.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "Cabecera y líneas"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.UpdateInvoice(c.Context(), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (AAAA-MM-DD)"
// @Param        to      query  string  false  "Hasta (AAAA-MM-DD)"
// @Param        status  query  string  false  "draft, sent, paid o cancelled"
// @Success      200     {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var q dto.ListInvoicesQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ListInvoices(c.Context(), GetBusinessID(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado de la factura
// @Description  El estado "paid" solo se alcanza registrando cobros.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.ChangeInvoiceStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [patch]
func (h *InvoiceHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeInvoiceStatusRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ChangeStatus(c.Context(), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RegisterPayment godoc
// @Summary      Registrar cobro
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.RegisterPaymentRequest  true  "Cobro"
// @Success      201   {object}  dto.InvoiceResponse
// @Router       /api/invoices/{id}/payments [post]
func (h *InvoiceHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.RegisterPaymentRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.RegisterPayment(c.Context(), GetBusinessID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeletePayment DELETE /api/invoices/:id/payments/:paymentID
func (h *InvoiceHandler) DeletePayment(c *fiber.Ctx) error {
	out, err := h.uc.DeletePayment(c.Context(), GetBusinessID(c), c.Params("id"), c.Params("paymentID"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ExportCSV godoc
// @Summary      Exportar facturas a CSV
// @Description  Separador ";", UTF-8 con BOM y coma decimal, listo para Excel.
// @Tags         invoices
// @Security     Bearer
// @Produce      text/csv
// @Param        from    query  string  false  "Desde (AAAA-MM-DD)"
// @Param        to      query  string  false  "Hasta (AAAA-MM-DD)"
// @Param        status  query  string  false  "Estado"
// @Success      200
// @Router       /api/invoices/export.csv [get]
func (h *InvoiceHandler) ExportCSV(c *fiber.Ctx) error {
	var q dto.ListInvoicesQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, h.log, err)
	}
	// Se genera entero antes de responder para poder devolver un error JSON.
	var buf bytes.Buffer
	if err := h.uc.ExportCSV(c.Context(), GetBusinessID(c), q, &buf); err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="facturas.csv"`)
	return c.Send(buf.Bytes())
}
