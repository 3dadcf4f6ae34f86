package repository

import (
	"context"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	// GetByID devuelve el cliente o (nil, nil).
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByBusinessAndTaxID(ctx context.Context, businessID, taxID string) (*entity.Client, error)
	// ListByBusiness clientes ordenados por nombre; search filtra por nombre, NIF o email sin distinguir mayúsculas.
	ListByBusiness(ctx context.Context, businessID, search string, limit, offset int) ([]*entity.Client, error)
	Update(ctx context.Context, c *entity.Client) error
	// Delete devuelve domain.ErrConflict si alguna factura referencia al cliente.
	Delete(ctx context.Context, id string) error
}
