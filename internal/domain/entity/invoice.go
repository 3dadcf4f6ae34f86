package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de una factura emitida.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"     // Borrador, no cuenta para impuestos
	InvoiceStatusSent      InvoiceStatus = "sent"      // Enviada al cliente
	InvoiceStatusPaid      InvoiceStatus = "paid"      // Cobrada por completo
	InvoiceStatusCancelled InvoiceStatus = "cancelled" // Anulada
)

// IsValid indica si el estado es uno de los conocidos.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Label nombre del estado para listados y exportaciones.
func (s InvoiceStatus) Label() string {
	switch s {
	case InvoiceStatusDraft:
		return "Borrador"
	case InvoiceStatusSent:
		return "Enviada"
	case InvoiceStatusPaid:
		return "Pagada"
	case InvoiceStatusCancelled:
		return "Anulada"
	}
	return string(s)
}

// invoiceTransitions cambios manuales permitidos. "paid" no aparece como destino:
// solo se alcanza registrando cobros.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:     {InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusSent:      {InvoiceStatusCancelled},
	InvoiceStatusPaid:      {},
	InvoiceStatusCancelled: {InvoiceStatusDraft},
}

// CanTransitionTo indica si el cambio manual de estado está permitido.
// Repetir el estado actual no es un cambio y siempre se acepta.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	if !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range invoiceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CountsTowardTax indica si los importes de la factura computan en los modelos 303 y 130.
// Solo las facturas enviadas o cobradas están devengadas.
func (s InvoiceStatus) CountsTowardTax() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusPaid
}

// RecognizedStatuses estados que computan para impuestos (para filtros SQL).
func RecognizedStatuses() []InvoiceStatus {
	return []InvoiceStatus{InvoiceStatusSent, InvoiceStatusPaid}
}

// Invoice cabecera de factura. Los totales se derivan de las líneas.
type Invoice struct {
	ID          string
	BusinessID  string
	Number      string
	Series      string
	Status      InvoiceStatus
	Currency    string
	IssueDate   time.Time
	DueDate     *time.Time
	ClientID    string
	ClientName  string // copia del cliente al emitir
	ClientTaxID string
	Notes       string
	LegalText   string
	Lines       []*InvoiceLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsEditable indica si cabecera y líneas pueden modificarse. Solo los borradores.
func (inv *Invoice) IsEditable() bool {
	return inv.Status == InvoiceStatusDraft
}

// Subtotal suma de bases imponibles de las líneas.
func (inv *Invoice) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range inv.Lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

// TaxTotal suma del IVA repercutido de las líneas.
func (inv *Invoice) TaxTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range inv.Lines {
		total = total.Add(l.TaxAmount)
	}
	return total
}

// WithholdingTotal suma de las retenciones de IRPF de las líneas.
func (inv *Invoice) WithholdingTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range inv.Lines {
		total = total.Add(l.WithholdingAmount)
	}
	return total
}

// Total importe a cobrar: base + IVA - retención.
func (inv *Invoice) Total() decimal.Decimal {
	return inv.Subtotal().Add(inv.TaxTotal()).Sub(inv.WithholdingTotal())
}

// SyncStatusWithPayments ajusta el estado según lo cobrado y devuelve true si cambió.
// Una factura anulada nunca cambia; una cobrada que deja de estarlo vuelve a enviada.
func (inv *Invoice) SyncStatusWithPayments(paid decimal.Decimal) bool {
	if inv.Status == InvoiceStatusCancelled {
		return false
	}
	if paid.GreaterThanOrEqual(inv.Total()) {
		if inv.Status != InvoiceStatusPaid {
			inv.Status = InvoiceStatusPaid
			return true
		}
		return false
	}
	if inv.Status == InvoiceStatusPaid {
		inv.Status = InvoiceStatusSent
		return true
	}
	return false
}
