package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/internal/domain"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// IncomeUseCase ingresos del modo por trimestre (sin facturas emitidas desde la aplicación).
type IncomeUseCase struct {
	stores   Stores
	quarters QuarterResolver
	log      *logger.Logger
	now      func() time.Time
}

// NewIncomeUseCase construye el caso de uso.
func NewIncomeUseCase(stores Stores, quarters QuarterResolver, log *logger.Logger) *IncomeUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &IncomeUseCase{stores: stores, quarters: quarters, log: log, now: time.Now}
}

// CreateIncome registra un ingreso en el trimestre indicado con IVA y retención derivados.
// Sin retención explícita se aplica la general (15%).
func (uc *IncomeUseCase) CreateIncome(ctx context.Context, businessID string, in dto.CreateIncomeRequest) (*dto.IncomeResponse, error) {
	vat := entity.VATType(in.VATType)
	withholding := entity.DefaultWithholdingRate
	if in.WithholdingRate != nil {
		withholding = *in.WithholdingRate
	}
	switch {
	case strings.TrimSpace(in.Concept) == "", in.Date.IsZero():
		return nil, domain.ErrInvalidInput
	case !vat.IsValid(), in.TaxableBase.IsNegative(), !isPercent(withholding):
		return nil, domain.ErrInvalidInput
	}

	date := dateOnly(in.Date)
	q, err := resolveRecordQuarter(ctx, uc.quarters, businessID, in.Year, in.Quarter, date)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	i := &entity.Income{
		ID:              uuid.New().String(),
		BusinessID:      businessID,
		QuarterID:       q.ID,
		Date:            date,
		Concept:         strings.TrimSpace(in.Concept),
		Client:          in.Client,
		Reference:       in.Reference,
		TaxableBase:     in.TaxableBase.Round(2),
		VATType:         vat,
		WithholdingRate: withholding,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	i.DeriveAmounts()

	if err := uc.stores.Incomes.Create(ctx, i); err != nil {
		return nil, err
	}
	uc.log.ForQuarter(businessID, in.Year, in.Quarter).Info().Str("income_id", i.ID).Msg("ingreso registrado")
	out := toIncomeResponse(i)
	return &out, nil
}

// ListIncomes ingresos registrados en el trimestre.
func (uc *IncomeUseCase) ListIncomes(ctx context.Context, businessID string, year, number int) ([]dto.IncomeResponse, error) {
	_, q, err := uc.quarters.ResolveQuarter(ctx, businessID, year, number)
	if err != nil {
		return nil, err
	}
	incomes, err := uc.stores.Incomes.ListByQuarter(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IncomeResponse, 0, len(incomes))
	for _, i := range incomes {
		out = append(out, toIncomeResponse(i))
	}
	return out, nil
}

// DeleteIncome elimina un ingreso de la empresa.
func (uc *IncomeUseCase) DeleteIncome(ctx context.Context, businessID, id string) error {
	i, err := uc.stores.Incomes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if i == nil {
		return domain.ErrNotFound
	}
	if i.BusinessID != businessID {
		return domain.ErrForbidden
	}
	return uc.stores.Incomes.Delete(ctx, id)
}
