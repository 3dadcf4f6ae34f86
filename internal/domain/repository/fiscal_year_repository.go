package repository

import (
	"context"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// FiscalYearRepository define el puerto de persistencia para FiscalYear.
// Los Get devuelven (nil, nil) si no existe.
type FiscalYearRepository interface {
	Create(ctx context.Context, fy *entity.FiscalYear) error
	GetByID(ctx context.Context, id string) (*entity.FiscalYear, error)
	GetByBusinessAndYear(ctx context.Context, businessID string, year int) (*entity.FiscalYear, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo tiene efecto dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.FiscalYear, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*entity.FiscalYear, error)
	Update(ctx context.Context, fy *entity.FiscalYear) error
}
