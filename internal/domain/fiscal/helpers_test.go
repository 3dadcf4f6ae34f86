package fiscal_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// assertDec compara importes por valor (210 == 210.00).
func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got.String())
}

// sale construye una línea de ingreso con importes derivados como al guardar la factura.
func sale(date time.Time, base string, vatRate, withholdingRate int64, status entity.InvoiceStatus) entity.RevenueLine {
	inv := &entity.Invoice{IssueDate: date, Status: status}
	line := entity.NewInvoiceLine("Servicio", decimal.NewFromInt(1), dec(base), decimal.Zero,
		decimal.NewFromInt(vatRate), decimal.NewFromInt(withholdingRate), 0)
	return line.Revenue(inv)
}

// expense construye un gasto con su IVA soportado derivado.
func expense(date time.Time, base string, vat entity.VATType, vatDeductible, irpfDeductible bool) entity.Expense {
	e := entity.Expense{
		Date:           date,
		Concept:        "Gasto",
		Category:       entity.ExpenseOther,
		TaxableBase:    dec(base),
		VATType:        vat,
		VATDeductible:  vatDeductible,
		IRPFDeductible: irpfDeductible,
	}
	e.DeriveAmounts()
	return e
}
