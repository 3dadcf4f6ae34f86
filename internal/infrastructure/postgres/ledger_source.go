package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autonomo-api/internal/application/fiscal"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/autonomo-api/internal/domain/fiscal"
)

var (
	_ fiscal.RecordSource = (*BusinessLedgerSource)(nil)
	_ fiscal.RecordSource = (*QuarterLedgerSource)(nil)
)

// BusinessLedgerSource registros del modo por empresa: líneas de facturas devengadas y
// gastos cuya fecha cae en el rango del trimestre.
type BusinessLedgerSource struct {
	q        Querier
	expenses *ExpenseRepo
}

// NewBusinessLedgerSource construye la fuente sobre el pool.
func NewBusinessLedgerSource(q Querier) *BusinessLedgerSource {
	return &BusinessLedgerSource{q: q, expenses: NewExpenseRepository(q)}
}

func (s *BusinessLedgerSource) RevenueLines(ctx context.Context, fy *entity.FiscalYear, q *entity.Quarter) ([]entity.RevenueLine, error) {
	p := domfiscal.QuarterRange(fy.Year, q.Number)
	statuses := make([]string, 0, 2)
	for _, st := range entity.RecognizedStatuses() {
		statuses = append(statuses, string(st))
	}
	const query = `
		SELECT i.issue_date, i.status, l.subtotal, l.tax_rate, l.tax_amount, l.withholding_rate, l.withholding_amount
		FROM invoice_lines l
		JOIN invoices i ON i.id = l.invoice_id
		WHERE i.business_id = $1
		  AND i.issue_date BETWEEN $2 AND $3
		  AND i.status = ANY($4)
		ORDER BY i.issue_date, i.number, l.position`
	rows, err := s.q.Query(ctx, query, fy.BusinessID, p.Start, p.End, statuses)
	if err != nil {
		return nil, fmt.Errorf("revenue lines: %w", err)
	}
	defer rows.Close()
	var out []entity.RevenueLine
	for rows.Next() {
		var line entity.RevenueLine
		var rate decimal.Decimal
		if err := rows.Scan(&line.Date, &line.Status, &line.TaxableBase, &rate, &line.OutputVAT,
			&line.WithholdingRate, &line.Withholding); err != nil {
			return nil, fmt.Errorf("scan revenue line: %w", err)
		}
		line.VATRate = int(rate.IntPart())
		out = append(out, line)
	}
	return out, rows.Err()
}

func (s *BusinessLedgerSource) Expenses(ctx context.Context, fy *entity.FiscalYear, q *entity.Quarter) ([]entity.Expense, error) {
	p := domfiscal.QuarterRange(fy.Year, q.Number)
	list, err := s.expenses.ListByBusiness(ctx, fy.BusinessID, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	return derefExpenses(list), nil
}

// QuarterLedgerSource registros del modo por trimestre: ingresos y gastos con el trimestre asignado.
type QuarterLedgerSource struct {
	incomes  *IncomeRepo
	expenses *ExpenseRepo
}

// NewQuarterLedgerSource construye la fuente sobre el pool.
func NewQuarterLedgerSource(q Querier) *QuarterLedgerSource {
	return &QuarterLedgerSource{incomes: NewIncomeRepository(q), expenses: NewExpenseRepository(q)}
}

func (s *QuarterLedgerSource) RevenueLines(ctx context.Context, fy *entity.FiscalYear, q *entity.Quarter) ([]entity.RevenueLine, error) {
	list, err := s.incomes.ListByQuarter(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.RevenueLine, 0, len(list))
	for _, i := range list {
		out = append(out, i.Revenue())
	}
	return out, nil
}

func (s *QuarterLedgerSource) Expenses(ctx context.Context, fy *entity.FiscalYear, q *entity.Quarter) ([]entity.Expense, error) {
	list, err := s.expenses.ListByQuarter(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return derefExpenses(list), nil
}

func derefExpenses(list []*entity.Expense) []entity.Expense {
	out := make([]entity.Expense, 0, len(list))
	for _, e := range list {
		out = append(out, *e)
	}
	return out
}
