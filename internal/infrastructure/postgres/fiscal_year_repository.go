package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

var _ repository.FiscalYearRepository = (*FiscalYearRepo)(nil)

// FiscalYearRepo implementación de FiscalYearRepository (usable con pool o tx).
type FiscalYearRepo struct {
	q Querier
}

// NewFiscalYearRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFiscalYearRepository(q Querier) *FiscalYearRepo {
	return &FiscalYearRepo{q: q}
}

const fiscalYearColumns = `id, business_id, year, estimation_type, closed, notes, created_at, updated_at`

func (r *FiscalYearRepo) Create(ctx context.Context, fy *entity.FiscalYear) error {
	if fy.ID == "" {
		fy.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO fiscal_years (` + fiscalYearColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		fy.ID, fy.BusinessID, fy.Year, fy.EstimationType, fy.Closed, fy.Notes, fy.CreatedAt, fy.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert fiscal year", err)
	}
	return nil
}

func (r *FiscalYearRepo) GetByID(ctx context.Context, id string) (*entity.FiscalYear, error) {
	return r.getOne(ctx, `SELECT `+fiscalYearColumns+` FROM fiscal_years WHERE id = $1`, id)
}

func (r *FiscalYearRepo) GetByBusinessAndYear(ctx context.Context, businessID string, year int) (*entity.FiscalYear, error) {
	return r.getOne(ctx, `SELECT `+fiscalYearColumns+` FROM fiscal_years WHERE business_id = $1 AND year = $2`, businessID, year)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *FiscalYearRepo) GetForUpdate(ctx context.Context, id string) (*entity.FiscalYear, error) {
	return r.getOne(ctx, `SELECT `+fiscalYearColumns+` FROM fiscal_years WHERE id = $1 FOR UPDATE`, id)
}

// ListByBusiness años de la empresa, del más reciente al más antiguo.
func (r *FiscalYearRepo) ListByBusiness(ctx context.Context, businessID string) ([]*entity.FiscalYear, error) {
	rows, err := r.q.Query(ctx, `SELECT `+fiscalYearColumns+` FROM fiscal_years WHERE business_id = $1 ORDER BY year DESC`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list fiscal years: %w", err)
	}
	defer rows.Close()
	var list []*entity.FiscalYear
	for rows.Next() {
		var fy entity.FiscalYear
		if err := rows.Scan(&fy.ID, &fy.BusinessID, &fy.Year, &fy.EstimationType, &fy.Closed, &fy.Notes, &fy.CreatedAt, &fy.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan fiscal year: %w", err)
		}
		list = append(list, &fy)
	}
	return list, rows.Err()
}

func (r *FiscalYearRepo) Update(ctx context.Context, fy *entity.FiscalYear) error {
	const query = `
		UPDATE fiscal_years
		SET estimation_type = $2, closed = $3, notes = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, fy.ID, fy.EstimationType, fy.Closed, fy.Notes, fy.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update fiscal year: %w", err)
	}
	return requireAffected(tag)
}

func (r *FiscalYearRepo) getOne(ctx context.Context, query string, args ...any) (*entity.FiscalYear, error) {
	var fy entity.FiscalYear
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&fy.ID, &fy.BusinessID, &fy.Year, &fy.EstimationType, &fy.Closed, &fy.Notes, &fy.CreatedAt, &fy.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fiscal year: %w", err)
	}
	return &fy, nil
}
