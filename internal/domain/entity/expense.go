package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// VATType tipos de IVA vigentes en España.
type VATType int

const (
	VATGeneral      VATType = 21
	VATReduced      VATType = 10
	VATSuperReduced VATType = 4
	VATExempt       VATType = 0
)

// IsValid indica si el tipo de IVA es uno de los vigentes.
func (t VATType) IsValid() bool {
	switch t {
	case VATGeneral, VATReduced, VATSuperReduced, VATExempt:
		return true
	}
	return false
}

// Rate porcentaje como decimal (21 -> 21).
func (t VATType) Rate() decimal.Decimal {
	return decimal.NewFromInt(int64(t))
}

// ExpenseCategory categoría de gasto deducible.
type ExpenseCategory string

const (
	ExpenseSocialSecurity ExpenseCategory = "social_security" // Cuota de autónomos
	ExpenseSoftware       ExpenseCategory = "software"        // Software y suscripciones
	ExpenseSupplies       ExpenseCategory = "supplies"        // Material de oficina
	ExpenseTelecom        ExpenseCategory = "telecom"         // Telefonía e internet
	ExpenseTraining       ExpenseCategory = "training"        // Formación
	ExpenseServices       ExpenseCategory = "services"        // Servicios profesionales
	ExpenseOther          ExpenseCategory = "other"           // Otros gastos deducibles
)

// IsValid indica si la categoría es conocida.
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseSocialSecurity, ExpenseSoftware, ExpenseSupplies, ExpenseTelecom,
		ExpenseTraining, ExpenseServices, ExpenseOther:
		return true
	}
	return false
}

// Expense gasto con IVA soportado. InputVAT se deriva al escribir y se guarda redondeado.
// BusinessID se usa en el modo por empresa (trimestre por fecha); QuarterID en el modo
// por trimestre (asignación explícita).
type Expense struct {
	ID             string
	BusinessID     string
	QuarterID      string
	Date           time.Time
	Concept        string
	Supplier       string
	Reference      string
	Category       ExpenseCategory
	TaxableBase    decimal.Decimal
	VATType        VATType
	InputVAT       decimal.Decimal
	IRPFDeductible bool
	VATDeductible  bool
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DeriveAmounts calcula InputVAT = round(base × tipo / 100, 2).
func (e *Expense) DeriveAmounts() {
	e.InputVAT = percentOf(e.TaxableBase, e.VATType.Rate())
}

// Total base imponible más IVA soportado.
func (e *Expense) Total() decimal.Decimal {
	return e.TaxableBase.Add(e.InputVAT)
}
