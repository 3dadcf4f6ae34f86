package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el panel de inicio.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// invoiceTotalsCTE total de cada factura de la empresa $1 derivado de sus líneas.
const invoiceTotalsCTE = `
	WITH totals AS (
	    SELECT i.id, i.status, i.issue_date,
	           COALESCE(SUM(l.subtotal + l.tax_amount - l.withholding_amount), 0) AS total
	    FROM invoices i
	    LEFT JOIN invoice_lines l ON l.invoice_id = i.id
	    WHERE i.business_id = $1
	    GROUP BY i.id
	)`

// InvoiceTotals cuenta y suma las facturas que cumplen el filtro.
func (r *AnalyticsRepo) InvoiceTotals(ctx context.Context, businessID string, f repository.InvoiceTotalsFilter) (count int, total decimal.Decimal, err error) {
	const query = invoiceTotalsCTE + `
	SELECT COUNT(*), COALESCE(SUM(total), 0)
	FROM totals
	WHERE ($2::text = '' OR status = $2::text)
	  AND ($3::date IS NULL OR issue_date >= $3::date)
	  AND ($4::date IS NULL OR issue_date <= $4::date)`

	err = r.q.QueryRow(ctx, query, businessID, string(f.Status), f.From, f.To).Scan(&count, &total)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("analytics.InvoiceTotals: %w", err)
	}
	return count, total, nil
}

// MonthlyTotals agrupa por año y mes de emisión las facturas cobradas y las enviadas.
func (r *AnalyticsRepo) MonthlyTotals(ctx context.Context, businessID string, from, to time.Time) ([]repository.MonthlyInvoiceTotals, error) {
	const query = invoiceTotalsCTE + `
	SELECT EXTRACT(YEAR FROM issue_date)::int  AS year,
	       EXTRACT(MONTH FROM issue_date)::int AS month,
	       COALESCE(SUM(total) FILTER (WHERE status = 'paid'), 0) AS revenue,
	       COALESCE(SUM(total) FILTER (WHERE status = 'sent'), 0) AS outstanding
	FROM totals
	WHERE issue_date BETWEEN $2 AND $3
	  AND status IN ('paid', 'sent')
	GROUP BY 1, 2
	ORDER BY 1, 2`

	rows, err := r.q.Query(ctx, query, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.MonthlyTotals: %w", err)
	}
	defer rows.Close()

	var results []repository.MonthlyInvoiceTotals
	for rows.Next() {
		var row repository.MonthlyInvoiceTotals
		var month int
		if err := rows.Scan(&row.Year, &month, &row.Revenue, &row.Outstanding); err != nil {
			return nil, fmt.Errorf("analytics.MonthlyTotals scan: %w", err)
		}
		row.Month = time.Month(month)
		results = append(results, row)
	}
	return results, rows.Err()
}

// RecentInvoices últimas facturas por fecha de creación.
func (r *AnalyticsRepo) RecentInvoices(ctx context.Context, businessID string, limit int) ([]repository.RecentInvoice, error) {
	const query = `
	SELECT i.id, i.number, i.client_name, i.status, i.issue_date,
	       COALESCE(SUM(l.subtotal + l.tax_amount - l.withholding_amount), 0) AS total
	FROM invoices i
	LEFT JOIN invoice_lines l ON l.invoice_id = i.id
	WHERE i.business_id = $1
	GROUP BY i.id
	ORDER BY i.created_at DESC, i.id DESC
	LIMIT $2`

	rows, err := r.q.Query(ctx, query, businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.RecentInvoices: %w", err)
	}
	defer rows.Close()

	results := []repository.RecentInvoice{}
	for rows.Next() {
		var item repository.RecentInvoice
		var status string
		if err := rows.Scan(&item.ID, &item.Number, &item.ClientName, &status, &item.IssueDate, &item.Total); err != nil {
			return nil, fmt.Errorf("analytics.RecentInvoices scan: %w", err)
		}
		item.Status = entity.InvoiceStatus(status)
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.RecentInvoices rows: %w", err)
	}
	return results, nil
}
