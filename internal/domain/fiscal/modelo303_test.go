package fiscal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/fiscal"
)

func TestModelo303_SinDatos(t *testing.T) {
	m := fiscal.CalculateModelo303(nil, nil)
	assertDec(t, "0", m.TotalOutputVAT, "IVA devengado")
	assertDec(t, "0", m.TotalInputVAT, "IVA soportado")
	assertDec(t, "0", m.Result, "resultado")
	assert.Empty(t, m.VATBreakdown)
}

func TestModelo303_FacturaEnviada(t *testing.T) {
	revenue := []entity.RevenueLine{sale(day(2026, time.February, 15), "1000.00", 21, 0, entity.InvoiceStatusSent)}

	m := fiscal.CalculateModelo303(revenue, nil)
	assertDec(t, "210.00", m.TotalOutputVAT, "IVA devengado")
	assertDec(t, "210.00", m.Result, "resultado")
	assertDec(t, "1000.00", m.TaxableBaseByType[21], "base al 21%")
}

func TestModelo303_BorradorYAnuladaExcluidas(t *testing.T) {
	revenue := []entity.RevenueLine{
		sale(day(2026, time.February, 15), "1000.00", 21, 0, entity.InvoiceStatusDraft),
		sale(day(2026, time.February, 16), "500.00", 21, 0, entity.InvoiceStatusCancelled),
	}

	m := fiscal.CalculateModelo303(revenue, nil)
	assertDec(t, "0", m.TotalOutputVAT, "IVA devengado")
	assert.Empty(t, m.OutputVATByType)
}

func TestModelo303_GastoDeducible(t *testing.T) {
	expenses := []entity.Expense{
		expense(day(2026, time.January, 15), "100.00", entity.VATGeneral, true, true),
		expense(day(2026, time.January, 20), "300.00", entity.VATGeneral, false, true),
	}

	m := fiscal.CalculateModelo303(nil, expenses)
	assertDec(t, "21.00", m.TotalInputVAT, "solo el gasto deducible en IVA")
	assertDec(t, "-21.00", m.Result, "a compensar, sin recortar a cero")
}

func TestModelo303_DesgloseOrdenadoPorTipoDescendente(t *testing.T) {
	d := day(2026, time.May, 10)
	revenue := []entity.RevenueLine{
		sale(d, "100.00", 4, 0, entity.InvoiceStatusPaid),
		sale(d, "200.00", 21, 0, entity.InvoiceStatusSent),
		sale(d, "300.00", 10, 0, entity.InvoiceStatusSent),
		sale(d, "50.00", 21, 0, entity.InvoiceStatusPaid),
		sale(d, "80.00", 0, 0, entity.InvoiceStatusSent),
	}

	m := fiscal.CalculateModelo303(revenue, nil)
	require.Len(t, m.VATBreakdown, 4)
	types := []int{m.VATBreakdown[0].Type, m.VATBreakdown[1].Type, m.VATBreakdown[2].Type, m.VATBreakdown[3].Type}
	assert.Equal(t, []int{21, 10, 4, 0}, types)
	assertDec(t, "250.00", m.VATBreakdown[0].Base, "base al 21%")
	assertDec(t, "52.50", m.VATBreakdown[0].VAT, "IVA al 21%")
	assertDec(t, "30.00", m.VATBreakdown[1].VAT, "IVA al 10%")
	assertDec(t, "4.00", m.VATBreakdown[2].VAT, "IVA al 4%")
	assertDec(t, "86.50", m.TotalOutputVAT, "IVA devengado total")
}

// Se suma el IVA guardado en cada registro aunque difiera de base × tipo.
func TestModelo303_UsaElIVAGuardado(t *testing.T) {
	line := sale(day(2026, time.March, 1), "1000.00", 21, 0, entity.InvoiceStatusSent)
	line.OutputVAT = dec("209.99")
	exp := expense(day(2026, time.March, 2), "100.00", entity.VATGeneral, true, true)
	exp.InputVAT = dec("20.00")

	m := fiscal.CalculateModelo303([]entity.RevenueLine{line}, []entity.Expense{exp})
	assertDec(t, "209.99", m.TotalOutputVAT, "IVA devengado guardado")
	assertDec(t, "20.00", m.TotalInputVAT, "IVA soportado guardado")
	assertDec(t, "189.99", m.Result, "resultado")
}

func TestModelo303_Idempotente(t *testing.T) {
	revenue := []entity.RevenueLine{
		sale(day(2026, time.April, 3), "1234.56", 21, 15, entity.InvoiceStatusSent),
		sale(day(2026, time.April, 9), "99.99", 10, 0, entity.InvoiceStatusPaid),
	}
	expenses := []entity.Expense{expense(day(2026, time.April, 4), "45.45", entity.VATGeneral, true, true)}

	first := fiscal.CalculateModelo303(revenue, expenses)
	second := fiscal.CalculateModelo303(revenue, expenses)
	assert.Equal(t, first, second, "dos cálculos con los mismos datos deben ser idénticos")
}
