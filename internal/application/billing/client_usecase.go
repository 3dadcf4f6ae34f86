package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/internal/domain"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// ClientUseCase alta, consulta, edición y baja de clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, log *logger.Logger) *ClientUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ClientUseCase{repo: repo, log: log, now: time.Now}
}

// WithClock sustituye el reloj de created_at y updated_at.
func (uc *ClientUseCase) WithClock(now func() time.Time) *ClientUseCase {
	uc.now = now
	return uc
}

// Create da de alta un cliente. El NIF, si se indica, no puede repetirse en la empresa.
func (uc *ClientUseCase) Create(ctx context.Context, businessID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	taxID := entity.NormalizeTaxID(in.TaxID)
	if err := uc.checkTaxID(ctx, businessID, taxID, ""); err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Client{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       name,
		TaxID:      taxID,
		Address:    strings.TrimSpace(in.Address),
		City:       strings.TrimSpace(in.City),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Province:   strings.TrimSpace(in.Province),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.log.ForBusiness(businessID).Info().Str("client_id", c.ID).Msg("cliente creado")
	out := toClientResponse(c)
	return &out, nil
}

// GetByID cliente de la empresa.
func (uc *ClientUseCase) GetByID(ctx context.Context, businessID, id string) (*dto.ClientResponse, error) {
	c, err := ownedClient(ctx, uc.repo, businessID, id)
	if err != nil {
		return nil, err
	}
	out := toClientResponse(c)
	return &out, nil
}

// List clientes por nombre, con búsqueda opcional.
func (uc *ClientUseCase) List(ctx context.Context, businessID string, q dto.ListClientsQuery) (*dto.ClientListResponse, error) {
	page := q.Page()
	list, err := uc.repo.ListByBusiness(ctx, businessID, strings.TrimSpace(q.Q), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ClientListResponse{
		Items: make([]dto.ClientResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, c := range list {
		out.Items = append(out.Items, toClientResponse(c))
	}
	return out, nil
}

// Update modifica los campos presentes. Las facturas ya emitidas conservan su copia.
func (uc *ClientUseCase) Update(ctx context.Context, businessID, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	c, err := ownedClient(ctx, uc.repo, businessID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if c.Name = strings.TrimSpace(*in.Name); c.Name == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.TaxID != nil {
		taxID := entity.NormalizeTaxID(*in.TaxID)
		if taxID != c.TaxID {
			if err := uc.checkTaxID(ctx, businessID, taxID, c.ID); err != nil {
				return nil, err
			}
		}
		c.TaxID = taxID
	}
	setTrimmed(&c.Address, in.Address)
	setTrimmed(&c.City, in.City)
	setTrimmed(&c.PostalCode, in.PostalCode)
	setTrimmed(&c.Province, in.Province)
	setTrimmed(&c.Email, in.Email)
	setTrimmed(&c.Phone, in.Phone)
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	out := toClientResponse(c)
	return &out, nil
}

// Delete borra el cliente. Con facturas asociadas el repositorio devuelve domain.ErrConflict.
func (uc *ClientUseCase) Delete(ctx context.Context, businessID, id string) error {
	c, err := ownedClient(ctx, uc.repo, businessID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, c.ID); err != nil {
		return err
	}
	uc.log.ForBusiness(businessID).Info().Str("client_id", c.ID).Msg("cliente eliminado")
	return nil
}

// checkTaxID devuelve domain.ErrDuplicate si otro cliente de la empresa ya usa el NIF.
func (uc *ClientUseCase) checkTaxID(ctx context.Context, businessID, taxID, selfID string) error {
	if taxID == "" {
		return nil
	}
	existing, err := uc.repo.GetByBusinessAndTaxID(ctx, businessID, taxID)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.ErrDuplicate
	}
	return nil
}

// ownedClient carga el cliente y comprueba que pertenece a la empresa.
func ownedClient(ctx context.Context, repo repository.ClientRepository, businessID, id string) (*entity.Client, error) {
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
