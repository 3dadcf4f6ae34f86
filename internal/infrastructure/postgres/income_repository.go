package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

var _ repository.IncomeRepository = (*IncomeRepo)(nil)

// IncomeRepo implementación de IncomeRepository (usable con pool o tx).
type IncomeRepo struct {
	q Querier
}

// NewIncomeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIncomeRepository(q Querier) *IncomeRepo {
	return &IncomeRepo{q: q}
}

const incomeColumns = `id, business_id, quarter_id, date, concept, client, reference, taxable_base, vat_type,
	output_vat, withholding_rate, withholding, notes, created_at, updated_at`

func (r *IncomeRepo) Create(ctx context.Context, i *entity.Income) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO incomes (` + incomeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		i.ID, i.BusinessID, i.QuarterID, i.Date, i.Concept, nullIfEmpty(i.Client), nullIfEmpty(i.Reference),
		i.TaxableBase, int(i.VATType), i.OutputVAT, i.WithholdingRate, i.Withholding, nullIfEmpty(i.Notes),
		i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert income", err)
	}
	return nil
}

func (r *IncomeRepo) GetByID(ctx context.Context, id string) (*entity.Income, error) {
	i, err := scanIncome(r.q.QueryRow(ctx, `SELECT `+incomeColumns+` FROM incomes WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return i, nil
}

func (r *IncomeRepo) ListByQuarter(ctx context.Context, quarterID string) ([]*entity.Income, error) {
	rows, err := r.q.Query(ctx, `SELECT `+incomeColumns+` FROM incomes WHERE quarter_id = $1 ORDER BY date, created_at`, quarterID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

func (r *IncomeRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM incomes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return requireAffected(tag)
}

func scanIncome(row rowScanner) (*entity.Income, error) {
	var i entity.Income
	var client, reference, notes *string
	var vat int
	err := row.Scan(
		&i.ID, &i.BusinessID, &i.QuarterID, &i.Date, &i.Concept, &client, &reference, &i.TaxableBase, &vat,
		&i.OutputVAT, &i.WithholdingRate, &i.Withholding, &notes, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan income: %w", err)
	}
	i.VATType = entity.VATType(vat)
	i.Client = derefStr(client)
	i.Reference = derefStr(reference)
	i.Notes = derefStr(notes)
	return &i, nil
}
