package entity

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// InvoiceLine línea de factura. Subtotal, TaxAmount y WithholdingAmount se derivan
// al escribir (NewInvoiceLine) y se guardan redondeados a 2 decimales.
type InvoiceLine struct {
	ID                string
	InvoiceID         string
	Description       string
	Quantity          decimal.Decimal
	UnitPrice         decimal.Decimal
	DiscountPercent   decimal.Decimal
	TaxRate           decimal.Decimal // % de IVA (21, 10, 4, 0)
	WithholdingRate   decimal.Decimal // % de retención IRPF
	Subtotal          decimal.Decimal
	TaxAmount         decimal.Decimal
	WithholdingAmount decimal.Decimal
	Position          int
}

// NewInvoiceLine construye una línea con sus importes derivados.
// subtotal = cantidad × precio × (1 - descuento/100).
func NewInvoiceLine(description string, quantity, unitPrice, discountPercent, taxRate, withholdingRate decimal.Decimal, position int) *InvoiceLine {
	l := &InvoiceLine{
		Description:     description,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		DiscountPercent: discountPercent,
		TaxRate:         taxRate,
		WithholdingRate: withholdingRate,
		Position:        position,
	}
	l.Recalculate()
	return l
}

// Recalculate vuelve a derivar los importes guardados a partir de cantidad, precio y tipos.
func (l *InvoiceLine) Recalculate() {
	factor := decimal.NewFromInt(1).Sub(l.DiscountPercent.Div(hundred))
	subtotal := l.Quantity.Mul(l.UnitPrice).Mul(factor)
	l.Subtotal = subtotal.Round(2)
	l.TaxAmount = percentOf(subtotal, l.TaxRate)
	l.WithholdingAmount = percentOf(subtotal, l.WithholdingRate)
}

// Revenue vista de la línea para el cálculo de impuestos, con la fecha y estado de la factura.
func (l *InvoiceLine) Revenue(inv *Invoice) RevenueLine {
	return RevenueLine{
		Date:            inv.IssueDate,
		TaxableBase:     l.Subtotal,
		VATRate:         int(l.TaxRate.IntPart()),
		OutputVAT:       l.TaxAmount,
		WithholdingRate: l.WithholdingRate,
		Withholding:     l.WithholdingAmount,
		Status:          inv.Status,
	}
}

// percentOf devuelve round(base × rate / 100, 2).
func percentOf(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred).Round(2)
}
