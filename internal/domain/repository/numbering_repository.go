package repository

import (
	"context"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// NumberingRepository contador de numeración de facturas por empresa.
type NumberingRepository interface {
	// GetForUpdate bloquea el contador; (nil, nil) si la empresa aún no tiene.
	GetForUpdate(ctx context.Context, businessID string) (*entity.InvoiceNumbering, error)
	Create(ctx context.Context, n *entity.InvoiceNumbering) error
	Update(ctx context.Context, n *entity.InvoiceNumbering) error
}
