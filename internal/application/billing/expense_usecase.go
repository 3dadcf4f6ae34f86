package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/internal/domain"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/autonomo-api/internal/domain/fiscal"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// ExpenseUseCase registro de gastos. En el modo por empresa el trimestre se deduce de la
// fecha; en el modo por trimestre el gasto se asigna a un trimestre existente.
type ExpenseUseCase struct {
	stores         Stores
	quarters       QuarterResolver
	requireQuarter bool
	log            *logger.Logger
	now            func() time.Time
}

// NewExpenseUseCase construye el caso de uso. requireQuarter activa el modo por trimestre.
func NewExpenseUseCase(stores Stores, quarters QuarterResolver, requireQuarter bool, log *logger.Logger) *ExpenseUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ExpenseUseCase{stores: stores, quarters: quarters, requireQuarter: requireQuarter, log: log, now: time.Now}
}

// CreateExpense valida el gasto, deriva su IVA soportado y lo guarda.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, businessID string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	category := entity.ExpenseCategory(in.Category)
	vat := entity.VATType(in.VATType)
	switch {
	case strings.TrimSpace(in.Concept) == "", in.Date.IsZero():
		return nil, domain.ErrInvalidInput
	case !category.IsValid(), !vat.IsValid(), in.TaxableBase.IsNegative():
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	e := &entity.Expense{
		ID:             uuid.New().String(),
		BusinessID:     businessID,
		Date:           dateOnly(in.Date),
		Concept:        strings.TrimSpace(in.Concept),
		Supplier:       in.Supplier,
		Reference:      in.Reference,
		Category:       category,
		TaxableBase:    in.TaxableBase.Round(2),
		VATType:        vat,
		IRPFDeductible: boolOr(in.IRPFDeductible, true),
		VATDeductible:  boolOr(in.VATDeductible, true),
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if uc.requireQuarter || in.Year != 0 || in.Quarter != 0 {
		q, err := resolveRecordQuarter(ctx, uc.quarters, businessID, in.Year, in.Quarter, e.Date)
		if err != nil {
			return nil, err
		}
		e.QuarterID = q.ID
	}
	e.DeriveAmounts()

	if err := uc.stores.Expenses.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.log.ForBusiness(businessID).Info().Str("expense_id", e.ID).Str("category", string(e.Category)).Msg("gasto registrado")
	out := toExpenseResponse(e)
	return &out, nil
}

// ListExpenses gastos de la empresa con fecha en [from, to].
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, businessID string, q dto.ListExpensesQuery) ([]dto.ExpenseResponse, error) {
	from, err := parseDate(q.From)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(q.To)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil || to.Before(*from) {
		return nil, domain.ErrInvalidInput
	}
	expenses, err := uc.stores.Expenses.ListByBusiness(ctx, businessID, *from, *to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	return out, nil
}

// DeleteExpense elimina un gasto de la empresa.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, businessID, id string) error {
	e, err := uc.stores.Expenses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return domain.ErrNotFound
	}
	if e.BusinessID != businessID {
		return domain.ErrForbidden
	}
	return uc.stores.Expenses.Delete(ctx, id)
}

// resolveRecordQuarter localiza el trimestre y comprueba que la fecha cae dentro.
func resolveRecordQuarter(ctx context.Context, quarters QuarterResolver, businessID string, year, number int, date time.Time) (*entity.Quarter, error) {
	if year == 0 || !domfiscal.ValidQuarter(number) {
		return nil, fmt.Errorf("%w: año y trimestre obligatorios", domain.ErrInvalidInput)
	}
	_, q, err := quarters.ResolveQuarter(ctx, businessID, year, number)
	if err != nil {
		return nil, err
	}
	if !domfiscal.QuarterRange(year, number).Contains(date) {
		return nil, fmt.Errorf("%w: la fecha %s no pertenece al %dT %d", domain.ErrInvalidInput, date.Format(dateLayout), number, year)
	}
	return q, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
