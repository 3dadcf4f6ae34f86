package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

var _ repository.QuarterlyResultRepository = (*QuarterlyResultRepo)(nil)

// QuarterlyResultRepo implementación de QuarterlyResultRepository (usable con pool o tx).
type QuarterlyResultRepo struct {
	q Querier
}

// NewQuarterlyResultRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuarterlyResultRepository(q Querier) *QuarterlyResultRepo {
	return &QuarterlyResultRepo{q: q}
}

const resultColumns = `r.id, r.quarter_id, r.modelo_303_calculated, r.modelo_303_submitted,
	r.modelo_130_calculated, r.modelo_130_submitted, r.submission_date, r.notes, r.created_at, r.updated_at`

func (r *QuarterlyResultRepo) GetByQuarter(ctx context.Context, quarterID string) (*entity.QuarterlyResult, error) {
	var res entity.QuarterlyResult
	err := scanResult(r.q.QueryRow(ctx, `SELECT `+resultColumns+` FROM quarterly_results r WHERE r.quarter_id = $1`, quarterID), &res, nil)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quarterly result: %w", err)
	}
	return &res, nil
}

// Upsert inserta o actualiza por quarter_id. CreatedAt solo se fija en la inserción.
func (r *QuarterlyResultRepo) Upsert(ctx context.Context, res *entity.QuarterlyResult) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO quarterly_results (id, quarter_id, modelo_303_calculated, modelo_303_submitted,
		                               modelo_130_calculated, modelo_130_submitted, submission_date, notes,
		                               created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (quarter_id) DO UPDATE SET
		    modelo_303_calculated = EXCLUDED.modelo_303_calculated,
		    modelo_303_submitted  = EXCLUDED.modelo_303_submitted,
		    modelo_130_calculated = EXCLUDED.modelo_130_calculated,
		    modelo_130_submitted  = EXCLUDED.modelo_130_submitted,
		    submission_date       = EXCLUDED.submission_date,
		    notes                 = EXCLUDED.notes,
		    updated_at            = EXCLUDED.updated_at
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		res.ID, res.QuarterID, res.Modelo303Calculated, res.Modelo303Submitted,
		res.Modelo130Calculated, res.Modelo130Submitted, res.SubmissionDate, res.Notes,
		res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return wrapWrite("upsert quarterly result", err)
	}
	return nil
}

func (r *QuarterlyResultRepo) ListByFiscalYear(ctx context.Context, fiscalYearID string) (map[int]*entity.QuarterlyResult, error) {
	const query = `
		SELECT ` + resultColumns + `, q.number
		FROM quarterly_results r
		JOIN quarters q ON q.id = r.quarter_id
		WHERE q.fiscal_year_id = $1`
	rows, err := r.q.Query(ctx, query, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("list quarterly results: %w", err)
	}
	defer rows.Close()
	out := make(map[int]*entity.QuarterlyResult)
	for rows.Next() {
		var res entity.QuarterlyResult
		var number int
		if err := scanResult(rows, &res, &number); err != nil {
			return nil, fmt.Errorf("scan quarterly result: %w", err)
		}
		out[number] = &res
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanResult lee las columnas de resultColumns y, si number no es nil, el número de trimestre.
func scanResult(row rowScanner, res *entity.QuarterlyResult, number *int) error {
	dest := []any{
		&res.ID, &res.QuarterID, &res.Modelo303Calculated, &res.Modelo303Submitted,
		&res.Modelo130Calculated, &res.Modelo130Submitted, &res.SubmissionDate, &res.Notes,
		&res.CreatedAt, &res.UpdatedAt,
	}
	if number != nil {
		dest = append(dest, number)
	}
	return row.Scan(dest...)
}
