package repository

import (
	"context"
	"time"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// InvoiceFilter filtros de listado de facturas.
type InvoiceFilter struct {
	From   *time.Time
	To     *time.Time
	Status entity.InvoiceStatus // vacío = todos
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// Create persiste la cabecera y todas las líneas.
	Create(ctx context.Context, inv *entity.Invoice) error
	// GetByID devuelve la factura con sus líneas, o (nil, nil).
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	ListByBusiness(ctx context.Context, businessID string, filter InvoiceFilter) ([]*entity.Invoice, error)
	UpdateStatus(ctx context.Context, id string, status entity.InvoiceStatus, updatedAt time.Time) error
	// Update reescribe la cabecera y sustituye todas las líneas. Número y estado no cambian.
	Update(ctx context.Context, inv *entity.Invoice) error
}
