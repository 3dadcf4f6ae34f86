package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/application/billing"
	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/internal/domain"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// BusinessUseCase perfil de la empresa del token y prefijo de su serie de facturas.
type BusinessUseCase struct {
	repo repository.BusinessRepository
	tx   billing.BillingTxRunner
	log  *logger.Logger
	now  func() time.Time
}

// NewBusinessUseCase construye el caso de uso. tx da acceso al contador de numeración.
func NewBusinessUseCase(repo repository.BusinessRepository, tx billing.BillingTxRunner, log *logger.Logger) *BusinessUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &BusinessUseCase{repo: repo, tx: tx, log: log, now: time.Now}
}

// WithClock sustituye el reloj (updated_at y año del próximo número).
func (uc *BusinessUseCase) WithClock(now func() time.Time) *BusinessUseCase {
	uc.now = now
	return uc
}

// GetProfile devuelve el perfil y el número que recibirá la próxima factura.
func (uc *BusinessUseCase) GetProfile(ctx context.Context, businessID string) (*dto.BusinessResponse, error) {
	b, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	n, err := uc.numbering(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(b, n), nil
}

// UpdateProfile aplica los campos presentes en la petición.
// Un prefijo o patrón nuevo solo afecta a las facturas que se creen después.
func (uc *BusinessUseCase) UpdateProfile(ctx context.Context, businessID string, in dto.UpdateBusinessRequest) (*dto.BusinessResponse, error) {
	b, err := uc.load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(b, in); err != nil {
		return nil, err
	}
	var prefix, pattern string
	if in.SeriesPrefix != nil {
		if prefix = strings.ToUpper(strings.TrimSpace(*in.SeriesPrefix)); prefix == "" {
			return nil, fmt.Errorf("%w: prefijo de serie vacío", domain.ErrInvalidInput)
		}
	}
	if in.NumberPattern != nil {
		pattern = strings.TrimSpace(*in.NumberPattern)
		if err := entity.ValidateNumberPattern(pattern); err != nil {
			return nil, err
		}
	}
	b.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	var n *entity.InvoiceNumbering
	if prefix != "" || pattern != "" {
		err = uc.tx.RunBilling(ctx, func(s billing.Stores) error {
			cur, err := s.Numbering.GetForUpdate(ctx, businessID)
			if err != nil {
				return err
			}
			created := cur == nil
			if created {
				cur = &entity.InvoiceNumbering{
					ID:           uuid.New().String(),
					BusinessID:   businessID,
					SeriesPrefix: entity.DefaultSeriesPrefix,
					Pattern:      entity.DefaultNumberPattern,
					NextNumber:   1,
				}
			}
			if prefix != "" {
				cur.SeriesPrefix = prefix
			}
			if pattern != "" {
				cur.Pattern = pattern
			}
			n = cur
			if created {
				return s.Numbering.Create(ctx, cur)
			}
			return s.Numbering.Update(ctx, cur)
		})
		if err != nil {
			return nil, fmt.Errorf("empresa: cambiar numeración: %w", err)
		}
		uc.log.ForBusiness(businessID).Info().Str("series_prefix", n.SeriesPrefix).Str("number_pattern", n.Pattern).Msg("numeración actualizada")
	} else if n, err = uc.numbering(ctx, businessID); err != nil {
		return nil, err
	}

	uc.log.ForBusiness(businessID).Info().Msg("perfil de empresa actualizado")
	return uc.toResponse(b, n), nil
}

func (uc *BusinessUseCase) load(ctx context.Context, businessID string) (*entity.Business, error) {
	b, err := uc.repo.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("empresa: %w", err)
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// numbering lee el contador; sin facturas todavía devuelve el de por defecto.
func (uc *BusinessUseCase) numbering(ctx context.Context, businessID string) (*entity.InvoiceNumbering, error) {
	var n *entity.InvoiceNumbering
	err := uc.tx.RunBilling(ctx, func(s billing.Stores) error {
		var err error
		n, err = s.Numbering.GetForUpdate(ctx, businessID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("empresa: numeración: %w", err)
	}
	if n == nil {
		n = &entity.InvoiceNumbering{BusinessID: businessID, SeriesPrefix: entity.DefaultSeriesPrefix, NextNumber: 1}
	}
	if n.Pattern == "" {
		n.Pattern = entity.DefaultNumberPattern
	}
	return n, nil
}

func applyProfile(b *entity.Business, in dto.UpdateBusinessRequest) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
		}
		b.Name = name
	}
	if in.TaxID != nil {
		taxID := strings.ToUpper(strings.TrimSpace(*in.TaxID))
		if taxID == "" {
			return fmt.Errorf("%w: NIF vacío", domain.ErrInvalidInput)
		}
		b.TaxID = taxID
	}
	if in.Country != nil {
		if len(strings.TrimSpace(*in.Country)) != 2 {
			return fmt.Errorf("%w: país debe ser ISO 3166-1 alfa-2", domain.ErrInvalidInput)
		}
		b.Country = strings.ToUpper(strings.TrimSpace(*in.Country))
	}
	if in.DefaultCurrency != nil {
		if len(strings.TrimSpace(*in.DefaultCurrency)) != 3 {
			return fmt.Errorf("%w: moneda debe ser ISO 4217", domain.ErrInvalidInput)
		}
		b.DefaultCurrency = strings.ToUpper(strings.TrimSpace(*in.DefaultCurrency))
	}
	setString(&b.Address, in.Address)
	setString(&b.City, in.City)
	setString(&b.PostalCode, in.PostalCode)
	setString(&b.Province, in.Province)
	setString(&b.Email, in.Email)
	setString(&b.Phone, in.Phone)
	setString(&b.LegalText, in.LegalText)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func (uc *BusinessUseCase) toResponse(b *entity.Business, n *entity.InvoiceNumbering) *dto.BusinessResponse {
	return &dto.BusinessResponse{
		ID:              b.ID,
		Name:            b.Name,
		TaxID:           b.TaxID,
		Address:         b.Address,
		City:            b.City,
		PostalCode:      b.PostalCode,
		Province:        b.Province,
		Country:         b.Country,
		Email:           b.Email,
		Phone:           b.Phone,
		DefaultCurrency: b.DefaultCurrency,
		LegalText:       b.LegalText,
		SeriesPrefix:    n.SeriesPrefix,
		NumberPattern:   n.Pattern,
		NextNumber:      n.Format(uc.now().Year()),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
