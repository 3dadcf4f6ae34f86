package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueLine ingreso tal como lo consumen los modelos fiscales: una línea de factura
// (modo por empresa) o un ingreso registrado en un trimestre (modo por trimestre).
// OutputVAT y Withholding son los importes guardados, no se recalculan.
type RevenueLine struct {
	Date            time.Time
	TaxableBase     decimal.Decimal
	VATRate         int
	OutputVAT       decimal.Decimal
	WithholdingRate decimal.Decimal
	Withholding     decimal.Decimal
	Status          InvoiceStatus
}
