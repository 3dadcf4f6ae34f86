package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod forma de cobro.
type PaymentMethod string

const (
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentOther    PaymentMethod = "other"
)

// IsValid indica si la forma de cobro es conocida.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentTransfer, PaymentCash, PaymentCard, PaymentOther:
		return true
	}
	return false
}

// Label nombre de la forma de cobro.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentTransfer:
		return "Transferencia"
	case PaymentCash:
		return "Efectivo"
	case PaymentCard:
		return "Tarjeta"
	case PaymentOther:
		return "Otro"
	}
	return string(m)
}

// Payment cobro (total o parcial) de una factura.
type Payment struct {
	ID        string
	InvoiceID string
	Amount    decimal.Decimal
	Date      time.Time
	Method    PaymentMethod
	Notes     string
	CreatedAt time.Time
}
