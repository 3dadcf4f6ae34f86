package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

var _ repository.QuarterRepository = (*QuarterRepo)(nil)

// QuarterRepo implementación de QuarterRepository (usable con pool o tx).
type QuarterRepo struct {
	q Querier
}

// NewQuarterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuarterRepository(q Querier) *QuarterRepo {
	return &QuarterRepo{q: q}
}

const quarterColumns = `id, fiscal_year_id, number, closed, closing_date, notes`

func (r *QuarterRepo) Create(ctx context.Context, q *entity.Quarter) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	const query = `INSERT INTO quarters (` + quarterColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, q.ID, q.FiscalYearID, q.Number, q.Closed, q.ClosingDate, q.Notes)
	if err != nil {
		return wrapWrite("insert quarter", err)
	}
	return nil
}

func (r *QuarterRepo) GetByID(ctx context.Context, id string) (*entity.Quarter, error) {
	return r.getOne(ctx, `SELECT `+quarterColumns+` FROM quarters WHERE id = $1`, id)
}

func (r *QuarterRepo) GetByYearAndNumber(ctx context.Context, fiscalYearID string, number int) (*entity.Quarter, error) {
	return r.getOne(ctx, `SELECT `+quarterColumns+` FROM quarters WHERE fiscal_year_id = $1 AND number = $2`, fiscalYearID, number)
}

// GetForUpdate bloquea la fila del trimestre hasta el fin de la transacción.
func (r *QuarterRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quarter, error) {
	return r.getOne(ctx, `SELECT `+quarterColumns+` FROM quarters WHERE id = $1 FOR UPDATE`, id)
}

func (r *QuarterRepo) ListByFiscalYear(ctx context.Context, fiscalYearID string) ([]*entity.Quarter, error) {
	rows, err := r.q.Query(ctx, `SELECT `+quarterColumns+` FROM quarters WHERE fiscal_year_id = $1 ORDER BY number`, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("list quarters: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quarter
	for rows.Next() {
		var q entity.Quarter
		if err := rows.Scan(&q.ID, &q.FiscalYearID, &q.Number, &q.Closed, &q.ClosingDate, &q.Notes); err != nil {
			return nil, fmt.Errorf("scan quarter: %w", err)
		}
		list = append(list, &q)
	}
	return list, rows.Err()
}

func (r *QuarterRepo) Update(ctx context.Context, q *entity.Quarter) error {
	const query = `UPDATE quarters SET closed = $2, closing_date = $3, notes = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, q.ID, q.Closed, q.ClosingDate, q.Notes)
	if err != nil {
		return fmt.Errorf("update quarter: %w", err)
	}
	return requireAffected(tag)
}

func (r *QuarterRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Quarter, error) {
	var q entity.Quarter
	err := r.q.QueryRow(ctx, query, args...).Scan(&q.ID, &q.FiscalYearID, &q.Number, &q.Closed, &q.ClosingDate, &q.Notes)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quarter: %w", err)
	}
	return &q, nil
}
