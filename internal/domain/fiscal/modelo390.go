package fiscal

import (
	"sort"

	"github.com/shopspring/decimal"
)

// QuarterSummary resumen de un trimestre dentro del 390.
type QuarterSummary struct {
	Quarter   int
	OutputVAT decimal.Decimal
	InputVAT  decimal.Decimal
	Result    decimal.Decimal
}

// Modelo390 resumen anual de IVA: suma de los 303 trimestrales.
type Modelo390 struct {
	TotalOutputVAT decimal.Decimal
	TotalInputVAT  decimal.Decimal
	Result         decimal.Decimal
	VATBreakdown   []VATBucket
	QuartersDetail []QuarterSummary
}

// CalculateModelo390 aplica el 303 a cada trimestre (de 1T a 4T) y agrega los resultados.
// Los trimestres que no existen simplemente no aportan nada.
func CalculateModelo390(quarters []QuarterRecords) Modelo390 {
	ordered := make([]QuarterRecords, len(quarters))
	copy(ordered, quarters)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	totalOutput := decimal.Zero
	totalInput := decimal.Zero
	baseByType := make(map[int]decimal.Decimal)
	vatByType := make(map[int]decimal.Decimal)
	detail := make([]QuarterSummary, 0, len(ordered))

	for _, q := range ordered {
		m := CalculateModelo303(q.Revenue, q.Expenses)
		totalOutput = totalOutput.Add(m.TotalOutputVAT)
		totalInput = totalInput.Add(m.TotalInputVAT)
		for t, base := range m.TaxableBaseByType {
			baseByType[t] = baseByType[t].Add(base)
		}
		for t, vat := range m.OutputVATByType {
			vatByType[t] = vatByType[t].Add(vat)
		}
		detail = append(detail, QuarterSummary{
			Quarter:   q.Number,
			OutputVAT: m.TotalOutputVAT,
			InputVAT:  m.TotalInputVAT,
			Result:    m.Result,
		})
	}

	return Modelo390{
		TotalOutputVAT: totalOutput,
		TotalInputVAT:  totalInput,
		Result:         totalOutput.Sub(totalInput),
		VATBreakdown:   breakdown(baseByType, vatByType),
		QuartersDetail: detail,
	}
}
