package repository

import (
	"context"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// QuarterlyResultRepository define el puerto de persistencia para QuarterlyResult.
type QuarterlyResultRepository interface {
	// GetByQuarter devuelve (nil, nil) si el trimestre aún no tiene resultado.
	GetByQuarter(ctx context.Context, quarterID string) (*entity.QuarterlyResult, error)
	// Upsert crea o actualiza el resultado del trimestre (uno a uno).
	Upsert(ctx context.Context, r *entity.QuarterlyResult) error
	// ListByFiscalYear resultados existentes del año indexados por número de trimestre.
	ListByFiscalYear(ctx context.Context, fiscalYearID string) (map[int]*entity.QuarterlyResult, error)
}
