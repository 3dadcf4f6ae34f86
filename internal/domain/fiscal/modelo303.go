package fiscal

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// VATBucket base e IVA acumulados de un tipo de IVA.
type VATBucket struct {
	Type int
	Base decimal.Decimal
	VAT  decimal.Decimal
}

// Modelo303 declaración trimestral de IVA.
// Result positivo = a ingresar; negativo = a compensar (no se recorta a cero).
type Modelo303 struct {
	OutputVATByType   map[int]decimal.Decimal
	TaxableBaseByType map[int]decimal.Decimal
	VATBreakdown      []VATBucket // ordenado por tipo descendente
	TotalOutputVAT    decimal.Decimal
	TotalInputVAT     decimal.Decimal
	Result            decimal.Decimal
}

// CalculateModelo303 calcula el 303 de un trimestre a partir de sus ingresos y gastos.
// Los registros ya vienen asignados al trimestre; aquí solo se filtra por estado
// (ingresos) y deducibilidad (gastos). Se usan los importes de IVA guardados.
func CalculateModelo303(revenue []entity.RevenueLine, expenses []entity.Expense) Modelo303 {
	outputByType := make(map[int]decimal.Decimal)
	baseByType := make(map[int]decimal.Decimal)

	for _, line := range revenue {
		if !line.Status.CountsTowardTax() {
			continue
		}
		outputByType[line.VATRate] = outputByType[line.VATRate].Add(line.OutputVAT)
		baseByType[line.VATRate] = baseByType[line.VATRate].Add(line.TaxableBase)
	}

	totalOutput := decimal.Zero
	for _, vat := range outputByType {
		totalOutput = totalOutput.Add(vat)
	}

	totalInput := decimal.Zero
	for _, e := range expenses {
		if e.VATDeductible {
			totalInput = totalInput.Add(e.InputVAT)
		}
	}

	return Modelo303{
		OutputVATByType:   outputByType,
		TaxableBaseByType: baseByType,
		VATBreakdown:      breakdown(baseByType, outputByType),
		TotalOutputVAT:    totalOutput,
		TotalInputVAT:     totalInput,
		Result:            totalOutput.Sub(totalInput),
	}
}

// breakdown combina bases e IVA por tipo, de mayor a menor tipo.
func breakdown(baseByType, vatByType map[int]decimal.Decimal) []VATBucket {
	types := make([]int, 0, len(baseByType))
	for t := range baseByType {
		types = append(types, t)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(types)))

	out := make([]VATBucket, 0, len(types))
	for _, t := range types {
		out = append(out, VATBucket{Type: t, Base: baseByType[t], VAT: vatByType[t]})
	}
	return out
}
