package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuarterlyResult resultado guardado de un trimestre (uno a uno con Quarter).
// Los campos *Calculated se recalculan al guardar; los *Submitted son los importes
// realmente presentados ante la AEAT y solo los modifica el usuario.
type QuarterlyResult struct {
	ID                  string
	QuarterID           string
	Modelo303Calculated decimal.Decimal
	Modelo303Submitted  *decimal.Decimal
	Modelo130Calculated decimal.Decimal
	Modelo130Submitted  *decimal.Decimal
	SubmissionDate      *time.Time
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EffectiveModelo130 importe del 130 que cuenta como pago previo: el presentado si existe,
// si no el calculado. Un resultado nil aporta cero.
func (r *QuarterlyResult) EffectiveModelo130() decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	if r.Modelo130Submitted != nil {
		return *r.Modelo130Submitted
	}
	return r.Modelo130Calculated
}

// EffectiveModelo303 igual que EffectiveModelo130 para el modelo 303.
func (r *QuarterlyResult) EffectiveModelo303() decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	if r.Modelo303Submitted != nil {
		return *r.Modelo303Submitted
	}
	return r.Modelo303Calculated
}
