package entity

import "time"

// Quarter trimestre (1..4) de un año fiscal.
type Quarter struct {
	ID           string
	FiscalYearID string
	Number       int
	Closed       bool
	ClosingDate  *time.Time // nil mientras está abierto
	Notes        string
}
