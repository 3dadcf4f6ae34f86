package repository

import (
	"context"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// CatalogRepository define el puerto de persistencia para CatalogItem.
type CatalogRepository interface {
	Create(ctx context.Context, item *entity.CatalogItem) error
	GetByID(ctx context.Context, id string) (*entity.CatalogItem, error)
	// ListByBusiness conceptos ordenados por nombre; los inactivos solo si includeInactive.
	ListByBusiness(ctx context.Context, businessID string, includeInactive bool, limit, offset int) ([]*entity.CatalogItem, error)
	Update(ctx context.Context, item *entity.CatalogItem) error
	Delete(ctx context.Context, id string) error
}
