package repository

import (
	"context"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// IncomeRepository define el puerto de persistencia para ingresos asignados a un trimestre.
type IncomeRepository interface {
	Create(ctx context.Context, i *entity.Income) error
	GetByID(ctx context.Context, id string) (*entity.Income, error)
	ListByQuarter(ctx context.Context, quarterID string) ([]*entity.Income, error)
	Delete(ctx context.Context, id string) error
}
