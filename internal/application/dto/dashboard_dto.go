package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardResponse respuesta de GET /api/dashboard. Los importes son totales de
// factura (base + IVA - retención) y los meses se cuentan por fecha de emisión.
type DashboardResponse struct {
	MonthInvoiceCount int             `json:"month_invoice_count"` // emitidas este mes, cualquier estado
	PendingAmount     decimal.Decimal `json:"pending_amount"`      // enviadas sin cobrar
	PaidThisMonth     decimal.Decimal `json:"paid_this_month"`     // cobradas emitidas este mes
	DraftCount        int             `json:"draft_count"`

	RecentInvoices []RecentInvoiceDTO `json:"recent_invoices"`
	Chart          MonthlyChartDTO    `json:"chart"`

	DateLabel string `json:"date_label"` // ej: "Oct 2026"
}

// RecentInvoiceDTO factura en el widget de últimas facturas.
type RecentInvoiceDTO struct {
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	ClientName  string          `json:"client_name"`
	Status      string          `json:"status"`
	StatusLabel string          `json:"status_label"`
	IssueDate   time.Time       `json:"issue_date"`
	Total       decimal.Decimal `json:"total"`
}

// MonthlyChartDTO serie de los últimos meses, del más antiguo al actual.
// Las tres listas tienen la misma longitud.
type MonthlyChartDTO struct {
	Labels      []string          `json:"labels"`
	Revenue     []decimal.Decimal `json:"revenue"`
	Outstanding []decimal.Decimal `json:"outstanding"`
}
