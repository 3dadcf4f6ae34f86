package repository

import (
	"context"
	"time"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia para gastos.
type ExpenseRepository interface {
	Create(ctx context.Context, e *entity.Expense) error
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	// ListByBusiness gastos de la empresa con fecha en [from, to].
	ListByBusiness(ctx context.Context, businessID string, from, to time.Time) ([]*entity.Expense, error)
	ListByQuarter(ctx context.Context, quarterID string) ([]*entity.Expense, error)
	Delete(ctx context.Context, id string) error
}
