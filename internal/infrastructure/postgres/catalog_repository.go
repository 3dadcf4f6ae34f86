package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo implementación del puerto CatalogRepository sobre PostgreSQL (usable con pool o tx).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

const catalogColumns = `id, business_id, name, description, default_unit_price, default_tax_rate,
	default_withholding_rate, active, created_at, updated_at`

// Create persiste un concepto del catálogo.
func (r *CatalogRepo) Create(ctx context.Context, item *entity.CatalogItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO catalog_items (` + catalogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.BusinessID, item.Name, item.Description, item.DefaultUnitPrice, item.DefaultTaxRate,
		item.DefaultWithholdingRate, item.Active, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert catalog item", err)
	}
	return nil
}

// GetByID concepto por ID; (nil, nil) si no existe.
func (r *CatalogRepo) GetByID(ctx context.Context, id string) (*entity.CatalogItem, error) {
	item, err := scanCatalogItem(r.q.QueryRow(ctx, `SELECT `+catalogColumns+` FROM catalog_items WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

// ListByBusiness conceptos por nombre; los inactivos solo si includeInactive.
func (r *CatalogRepo) ListByBusiness(ctx context.Context, businessID string, includeInactive bool, limit, offset int) ([]*entity.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE business_id = $1`
	if !includeInactive {
		query += ` AND active`
	}
	query += ` ORDER BY name, id LIMIT $2 OFFSET $3`

	rows, err := r.q.Query(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()
	var list []*entity.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Update reescribe el concepto. domain.ErrNotFound si no existe.
func (r *CatalogRepo) Update(ctx context.Context, item *entity.CatalogItem) error {
	const query = `
		UPDATE catalog_items
		SET name = $2, description = $3, default_unit_price = $4, default_tax_rate = $5,
		    default_withholding_rate = $6, active = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, item.DefaultUnitPrice, item.DefaultTaxRate,
		item.DefaultWithholdingRate, item.Active, item.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("update catalog item", err)
	}
	return requireAffected(tag)
}

// Delete borra el concepto. Las facturas guardan copia de las líneas, no lo referencian.
func (r *CatalogRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM catalog_items WHERE id = $1`, id)
	if err != nil {
		return wrapWrite("delete catalog item", err)
	}
	return requireAffected(tag)
}

func scanCatalogItem(row rowScanner) (*entity.CatalogItem, error) {
	var item entity.CatalogItem
	err := row.Scan(
		&item.ID, &item.BusinessID, &item.Name, &item.Description, &item.DefaultUnitPrice, &item.DefaultTaxRate,
		&item.DefaultWithholdingRate, &item.Active, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan catalog item: %w", err)
	}
	return &item, nil
}
