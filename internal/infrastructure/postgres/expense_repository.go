package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implementación de ExpenseRepository (usable con pool o tx).
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

const expenseColumns = `id, business_id, quarter_id, date, concept, supplier, reference, category,
	taxable_base, vat_type, input_vat, irpf_deductible, vat_deductible, notes, created_at, updated_at`

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.BusinessID, nullIfEmpty(e.QuarterID), e.Date, e.Concept, nullIfEmpty(e.Supplier), nullIfEmpty(e.Reference),
		e.Category, e.TaxableBase, int(e.VATType), e.InputVAT, e.IRPFDeductible, e.VATDeductible, nullIfEmpty(e.Notes),
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert expense", err)
	}
	return nil
}

func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	e, err := scanExpense(r.q.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// ListByBusiness gastos de la empresa con fecha en [from, to], por fecha.
func (r *ExpenseRepo) ListByBusiness(ctx context.Context, businessID string, from, to time.Time) ([]*entity.Expense, error) {
	const query = `SELECT ` + expenseColumns + ` FROM expenses
		WHERE business_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date, created_at`
	return r.list(ctx, query, businessID, dateOnly(from), dateOnly(to))
}

// ListByQuarter gastos asignados explícitamente al trimestre.
func (r *ExpenseRepo) ListByQuarter(ctx context.Context, quarterID string) ([]*entity.Expense, error) {
	const query = `SELECT ` + expenseColumns + ` FROM expenses WHERE quarter_id = $1 ORDER BY date, created_at`
	return r.list(ctx, query, quarterID)
}

func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireAffected(tag)
}

func (r *ExpenseRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Expense, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanExpense(row rowScanner) (*entity.Expense, error) {
	var e entity.Expense
	var quarterID, supplier, reference, notes *string
	var vat int
	err := row.Scan(
		&e.ID, &e.BusinessID, &quarterID, &e.Date, &e.Concept, &supplier, &reference, &e.Category,
		&e.TaxableBase, &vat, &e.InputVAT, &e.IRPFDeductible, &e.VATDeductible, &notes,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan expense: %w", err)
	}
	e.VATType = entity.VATType(vat)
	e.QuarterID = derefStr(quarterID)
	e.Supplier = derefStr(supplier)
	e.Reference = derefStr(reference)
	e.Notes = derefStr(notes)
	return &e, nil
}
