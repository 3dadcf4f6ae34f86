package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

type expenseService interface {
	CreateExpense(ctx context.Context, businessID string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	ListExpenses(ctx context.Context, businessID string, q dto.ListExpensesQuery) ([]dto.ExpenseResponse, error)
	DeleteExpense(ctx context.Context, businessID, id string) error
}

type incomeService interface {
	CreateIncome(ctx context.Context, businessID string, in dto.CreateIncomeRequest) (*dto.IncomeResponse, error)
	ListIncomes(ctx context.Context, businessID string, year, number int) ([]dto.IncomeResponse, error)
	DeleteIncome(ctx context.Context, businessID, id string) error
}

// RecordHandler gastos e ingresos sueltos.
type RecordHandler struct {
	expenses expenseService
	incomes  incomeService
	log      *logger.Logger
}

// NewRecordHandler construye el handler. incomes puede ser nil si el modo no los usa.
func NewRecordHandler(expenses expenseService, incomes incomeService, log *logger.Logger) *RecordHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RecordHandler{expenses: expenses, incomes: incomes, log: log}
}

// CreateExpense godoc
// @Summary      Registrar gasto
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExpenseRequest  true  "Gasto"
// @Success      201   {object}  dto.ExpenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/expenses [post]
func (h *RecordHandler) CreateExpense(c *fiber.Ctx) error {
	var in dto.CreateExpenseRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.expenses.CreateExpense(c.Context(), GetBusinessID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListExpenses GET /api/expenses?from=AAAA-MM-DD&to=AAAA-MM-DD
func (h *RecordHandler) ListExpenses(c *fiber.Ctx) error {
	var q dto.ListExpensesQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.expenses.ListExpenses(c.Context(), GetBusinessID(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeleteExpense DELETE /api/expenses/:id
func (h *RecordHandler) DeleteExpense(c *fiber.Ctx) error {
	if err := h.expenses.DeleteExpense(c.Context(), GetBusinessID(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateIncome godoc
// @Summary      Registrar ingreso en un trimestre
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIncomeRequest  true  "Ingreso"
// @Success      201   {object}  dto.IncomeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/incomes [post]
func (h *RecordHandler) CreateIncome(c *fiber.Ctx) error {
	var in dto.CreateIncomeRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.incomes.CreateIncome(c.Context(), GetBusinessID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListIncomes GET /api/incomes?year=2026&quarter=2
func (h *RecordHandler) ListIncomes(c *fiber.Ctx) error {
	var q dto.ListIncomesQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.incomes.ListIncomes(c.Context(), GetBusinessID(c), q.Year, q.Quarter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeleteIncome DELETE /api/incomes/:id
func (h *RecordHandler) DeleteIncome(c *fiber.Ctx) error {
	if err := h.incomes.DeleteIncome(c.Context(), GetBusinessID(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
