package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// InvoiceTotalsFilter acota InvoiceTotals. Status vacío = cualquier estado; From y To
// nil = sin límite por fecha de emisión.
type InvoiceTotalsFilter struct {
	Status entity.InvoiceStatus
	From   *time.Time
	To     *time.Time
}

// MonthlyInvoiceTotals importes de un mes por fecha de emisión. Revenue suma las
// facturas cobradas y Outstanding las enviadas pendientes de cobro.
type MonthlyInvoiceTotals struct {
	Year        int
	Month       time.Month
	Revenue     decimal.Decimal
	Outstanding decimal.Decimal
}

// RecentInvoice resumen de factura para el panel.
type RecentInvoice struct {
	ID         string
	Number     string
	ClientName string
	Status     entity.InvoiceStatus
	IssueDate  time.Time
	Total      decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura sobre facturas para el panel de inicio.
// El total de una factura es base + IVA - retención de sus líneas.
type AnalyticsRepository interface {
	// InvoiceTotals número de facturas y suma de sus totales. Sin filas devuelve cero.
	InvoiceTotals(ctx context.Context, businessID string, f InvoiceTotalsFilter) (count int, total decimal.Decimal, err error)

	// MonthlyTotals cobrado y pendiente por mes entre from y to (ambos incluidos).
	// Los meses sin facturas no aparecen.
	MonthlyTotals(ctx context.Context, businessID string, from, to time.Time) ([]MonthlyInvoiceTotals, error)

	// RecentInvoices las limit facturas creadas más recientemente.
	RecentInvoices(ctx context.Context, businessID string, limit int) ([]RecentInvoice, error)
}
