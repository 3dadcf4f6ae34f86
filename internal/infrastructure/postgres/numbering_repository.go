package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

var _ repository.NumberingRepository = (*NumberingRepo)(nil)

// NumberingRepo contador de facturas por empresa. Usar siempre dentro de una tx.
type NumberingRepo struct {
	q Querier
}

// NewNumberingRepository construye el adaptador.
func NewNumberingRepository(q Querier) *NumberingRepo {
	return &NumberingRepo{q: q}
}

// GetForUpdate bloquea el contador de la empresa; dos altas simultáneas se serializan aquí.
func (r *NumberingRepo) GetForUpdate(ctx context.Context, businessID string) (*entity.InvoiceNumbering, error) {
	const query = `
		SELECT id, business_id, series_prefix, format_pattern, next_number
		FROM invoice_numbering WHERE business_id = $1 FOR UPDATE`
	var n entity.InvoiceNumbering
	err := r.q.QueryRow(ctx, query, businessID).Scan(&n.ID, &n.BusinessID, &n.SeriesPrefix, &n.Pattern, &n.NextNumber)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get numbering: %w", err)
	}
	return &n, nil
}

// Create inserta el contador. Si otra tx lo creó a la vez devuelve domain.ErrDuplicate
// y el alta de la factura puede reintentarse.
func (r *NumberingRepo) Create(ctx context.Context, n *entity.InvoiceNumbering) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Pattern == "" {
		n.Pattern = entity.DefaultNumberPattern
	}
	const query = `
		INSERT INTO invoice_numbering (id, business_id, series_prefix, format_pattern, next_number)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, n.ID, n.BusinessID, n.SeriesPrefix, n.Pattern, n.NextNumber); err != nil {
		return wrapWrite("insert numbering", err)
	}
	return nil
}

// Update guarda prefijo, patrón y siguiente número.
func (r *NumberingRepo) Update(ctx context.Context, n *entity.InvoiceNumbering) error {
	if n.Pattern == "" {
		n.Pattern = entity.DefaultNumberPattern
	}
	tag, err := r.q.Exec(ctx, `UPDATE invoice_numbering SET series_prefix = $2, format_pattern = $3, next_number = $4 WHERE id = $1`,
		n.ID, n.SeriesPrefix, n.Pattern, n.NextNumber)
	if err != nil {
		return fmt.Errorf("update numbering: %w", err)
	}
	return requireAffected(tag)
}
