package entity

import "time"

// EstimationType régimen de estimación directa del IRPF.
type EstimationType string

const (
	EstimationSimplified EstimationType = "simplified" // Estimación directa simplificada
	EstimationNormal     EstimationType = "normal"     // Estimación directa normal
)

// IsValid indica si el régimen es uno de los soportados.
func (e EstimationType) IsValid() bool {
	return e == EstimationSimplified || e == EstimationNormal
}

// FiscalYear año fiscal de una empresa. BusinessID vacío en el modo de un solo titular.
type FiscalYear struct {
	ID             string
	BusinessID     string
	Year           int
	EstimationType EstimationType
	Closed         bool
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
