package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para cobros de facturas.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	Delete(ctx context.Context, id string) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
	// TotalByInvoice suma de los cobros registrados (0 si no hay).
	TotalByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}
