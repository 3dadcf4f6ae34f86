package fiscal

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

var (
	// MaxHardToJustifyExpenses tope anual de gastos de difícil justificación.
	MaxHardToJustifyExpenses = decimal.NewFromInt(2000)
	// HardToJustifyRate 5% de los ingresos (solo estimación simplificada).
	HardToJustifyRate = decimal.RequireFromString("0.05")
	// IRPFPaymentRate pago fraccionado del 20% sobre el rendimiento neto.
	IRPFPaymentRate = decimal.RequireFromString("0.20")
)

// QuarterRecords registros asignados a un trimestre concreto del año fiscal.
type QuarterRecords struct {
	Number   int
	Revenue  []entity.RevenueLine
	Expenses []entity.Expense
}

// Modelo130Input datos necesarios para el 130 de un trimestre.
type Modelo130Input struct {
	Estimation entity.EstimationType
	Quarter    int
	// Records de los trimestres existentes del año; se ignoran los posteriores a Quarter.
	Records []QuarterRecords
	// Results resultados guardados por número de trimestre (ausente = sin resultado).
	Results map[int]*entity.QuarterlyResult
}

// Modelo130 pago fraccionado de IRPF, acumulado desde el 1T hasta el trimestre calculado.
type Modelo130 struct {
	AccumulatedIncome       decimal.Decimal
	AccumulatedExpenses     decimal.Decimal
	HardToJustifyExpenses   decimal.Decimal
	NetIncome               decimal.Decimal
	GrossPayment            decimal.Decimal
	AccumulatedWithholdings decimal.Decimal
	PreviousPayments        decimal.Decimal
	Result                  decimal.Decimal // a ingresar, nunca negativo
}

// CalculateModelo130 calcula el 130 acumulado. Los importes intermedios conservan toda la
// precisión; los campos devueltos se redondean a 2 decimales.
func CalculateModelo130(in Modelo130Input) Modelo130 {
	income := decimal.Zero
	withholdings := decimal.Zero
	expenses := decimal.Zero

	for _, q := range in.Records {
		if q.Number > in.Quarter {
			continue
		}
		for _, line := range q.Revenue {
			if !line.Status.CountsTowardTax() {
				continue
			}
			income = income.Add(line.TaxableBase)
			withholdings = withholdings.Add(line.Withholding)
		}
		for _, e := range q.Expenses {
			if e.IRPFDeductible {
				expenses = expenses.Add(e.TaxableBase)
			}
		}
	}

	hardToJustify := decimal.Zero
	if in.Estimation == entity.EstimationSimplified {
		hardToJustify = decimal.Min(income.Mul(HardToJustifyRate), MaxHardToJustifyExpenses)
	}

	net := income.Sub(expenses).Sub(hardToJustify)
	gross := decimal.Max(net.Mul(IRPFPaymentRate), decimal.Zero)

	previous := decimal.Zero
	for n := 1; n < in.Quarter; n++ {
		previous = previous.Add(in.Results[n].EffectiveModelo130())
	}

	result := decimal.Max(gross.Sub(withholdings).Sub(previous), decimal.Zero)

	return Modelo130{
		AccumulatedIncome:       income.Round(2),
		AccumulatedExpenses:     expenses.Round(2),
		HardToJustifyExpenses:   hardToJustify.Round(2),
		NetIncome:               net.Round(2),
		GrossPayment:            gross.Round(2),
		AccumulatedWithholdings: withholdings.Round(2),
		PreviousPayments:        previous.Round(2),
		Result:                  result.Round(2),
	}
}
