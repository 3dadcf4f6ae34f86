package repository

import (
	"context"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// QuarterRepository define el puerto de persistencia para Quarter.
type QuarterRepository interface {
	Create(ctx context.Context, q *entity.Quarter) error
	GetByID(ctx context.Context, id string) (*entity.Quarter, error)
	GetByYearAndNumber(ctx context.Context, fiscalYearID string, number int) (*entity.Quarter, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Quarter, error)
	// ListByFiscalYear devuelve los trimestres ordenados por número.
	ListByFiscalYear(ctx context.Context, fiscalYearID string) ([]*entity.Quarter, error)
	Update(ctx context.Context, q *entity.Quarter) error
}
