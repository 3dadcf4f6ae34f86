package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultWithholdingRate retención general de IRPF para profesionales (7% en inicio de actividad).
var DefaultWithholdingRate = decimal.NewFromInt(15)

// Income ingreso registrado directamente en un trimestre (modo de un solo titular).
type Income struct {
	ID              string
	BusinessID      string
	QuarterID       string
	Date            time.Time
	Concept         string
	Client          string
	Reference       string // nº de factura
	TaxableBase     decimal.Decimal
	VATType         VATType
	OutputVAT       decimal.Decimal
	WithholdingRate decimal.Decimal
	Withholding     decimal.Decimal
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DeriveAmounts calcula IVA repercutido y retención redondeados a 2 decimales.
func (i *Income) DeriveAmounts() {
	i.OutputVAT = percentOf(i.TaxableBase, i.VATType.Rate())
	i.Withholding = percentOf(i.TaxableBase, i.WithholdingRate)
}

// Revenue vista para el cálculo de impuestos. Un ingreso registrado ya está emitido,
// por eso se presenta como enviado.
func (i *Income) Revenue() RevenueLine {
	return RevenueLine{
		Date:            i.Date,
		TaxableBase:     i.TaxableBase,
		VATRate:         int(i.VATType),
		OutputVAT:       i.OutputVAT,
		WithholdingRate: i.WithholdingRate,
		Withholding:     i.Withholding,
		Status:          InvoiceStatusSent,
	}
}
