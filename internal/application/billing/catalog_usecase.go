package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/internal/domain"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// CatalogUseCase conceptos facturables habituales con sus importes por defecto.
type CatalogUseCase struct {
	repo repository.CatalogRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.CatalogRepository, log *logger.Logger) *CatalogUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogUseCase{repo: repo, log: log, now: time.Now}
}

// WithClock sustituye el reloj de created_at y updated_at.
func (uc *CatalogUseCase) WithClock(now func() time.Time) *CatalogUseCase {
	uc.now = now
	return uc
}

// Create da de alta un concepto; precio 0, IVA 21, retención 0 y activo si no se indican.
func (uc *CatalogUseCase) Create(ctx context.Context, businessID string, in dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	item := &entity.CatalogItem{
		ID:                     uuid.New().String(),
		BusinessID:             businessID,
		Name:                   name,
		Description:            in.Description,
		DefaultUnitPrice:       decimal.Zero,
		DefaultTaxRate:         entity.DefaultCatalogTaxRate,
		DefaultWithholdingRate: entity.DefaultCatalogWithholdingRate,
		Active:                 true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	applyCatalogAmounts(item, in.DefaultUnitPrice, in.DefaultTaxRate, in.DefaultWithholdingRate)
	if in.Active != nil {
		item.Active = *in.Active
	}
	if err := validateCatalogItem(item); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	uc.log.ForBusiness(businessID).Info().Str("catalog_item_id", item.ID).Msg("concepto de catálogo creado")
	out := toCatalogItemResponse(item)
	return &out, nil
}

// GetByID concepto de la empresa.
func (uc *CatalogUseCase) GetByID(ctx context.Context, businessID, id string) (*dto.CatalogItemResponse, error) {
	item, err := uc.owned(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	out := toCatalogItemResponse(item)
	return &out, nil
}

// List conceptos por nombre; los inactivos solo con q.Inactive.
func (uc *CatalogUseCase) List(ctx context.Context, businessID string, q dto.ListCatalogQuery) (*dto.CatalogListResponse, error) {
	page := q.Page()
	list, err := uc.repo.ListByBusiness(ctx, businessID, q.Inactive, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.CatalogListResponse{
		Items: make([]dto.CatalogItemResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, item := range list {
		out.Items = append(out.Items, toCatalogItemResponse(item))
	}
	return out, nil
}

// Update modifica los campos presentes.
func (uc *CatalogUseCase) Update(ctx context.Context, businessID, id string, in dto.UpdateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	item, err := uc.owned(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if item.Name = strings.TrimSpace(*in.Name); item.Name == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	applyCatalogAmounts(item, in.DefaultUnitPrice, in.DefaultTaxRate, in.DefaultWithholdingRate)
	if in.Active != nil {
		item.Active = *in.Active
	}
	if err := validateCatalogItem(item); err != nil {
		return nil, err
	}
	item.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	out := toCatalogItemResponse(item)
	return &out, nil
}

// Delete borra el concepto.
func (uc *CatalogUseCase) Delete(ctx context.Context, businessID, id string) error {
	item, err := uc.owned(ctx, businessID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, item.ID); err != nil {
		return err
	}
	uc.log.ForBusiness(businessID).Info().Str("catalog_item_id", item.ID).Msg("concepto de catálogo eliminado")
	return nil
}

func (uc *CatalogUseCase) owned(ctx context.Context, businessID, id string) (*entity.CatalogItem, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

func applyCatalogAmounts(item *entity.CatalogItem, price, tax, withholding *decimal.Decimal) {
	if price != nil {
		item.DefaultUnitPrice = *price
	}
	if tax != nil {
		item.DefaultTaxRate = *tax
	}
	if withholding != nil {
		item.DefaultWithholdingRate = *withholding
	}
}

// validateCatalogItem aplica a los valores por defecto las mismas reglas que a una línea de factura.
func validateCatalogItem(item *entity.CatalogItem) error {
	switch {
	case item.DefaultUnitPrice.IsNegative():
		return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	case !isPercent(item.DefaultWithholdingRate):
		return fmt.Errorf("%w: retención fuera de 0..100", domain.ErrInvalidInput)
	case !item.DefaultTaxRate.IsInteger() || !entity.VATType(item.DefaultTaxRate.IntPart()).IsValid():
		return fmt.Errorf("%w: tipo de IVA %s no admitido", domain.ErrInvalidInput, item.DefaultTaxRate)
	}
	return nil
}
