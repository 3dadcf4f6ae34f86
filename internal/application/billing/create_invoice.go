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

// DefaultCurrency moneda cuando ni la petición ni la empresa indican otra.
const DefaultCurrency = "EUR"

var hundred = decimal.NewFromInt(100)

// InvoiceUseCase facturas, numeración, cobros y exportación.
type InvoiceUseCase struct {
	stores     Stores
	tx         BillingTxRunner
	businesses BusinessReader
	currency   string
	log        *logger.Logger
	now        func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. stores son los repos sobre el pool (lecturas);
// currency es la moneda por defecto configurada (vacía = EUR).
func NewInvoiceUseCase(stores Stores, tx BillingTxRunner, businesses BusinessReader, currency string, log *logger.Logger) *InvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return &InvoiceUseCase{stores: stores, tx: tx, businesses: businesses, currency: currency, log: log, now: time.Now}
}

// WithClock sustituye el reloj (fecha de emisión por defecto, timestamps).
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

// CreateInvoice valida las líneas, deriva sus importes y guarda la factura con el
// siguiente número de la serie de la empresa, todo en una transacción. Los datos del
// cliente se copian en la factura al emitirla.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, businessID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.ClientID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	status := entity.InvoiceStatus(in.Status)
	if status == "" {
		status = entity.InvoiceStatusDraft
	}
	if status != entity.InvoiceStatusDraft && status != entity.InvoiceStatusSent {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	issueDate := dateOnly(now)
	if in.IssueDate != nil {
		issueDate = dateOnly(*in.IssueDate)
	}
	dueDate, err := dueAfter(issueDate, in.DueDate)
	if err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Status:     status,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if inv.Lines, err = buildLines(inv.ID, in.Lines); err != nil {
		return nil, err
	}

	business, err := uc.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("factura: obtener empresa: %w", err)
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.applyClient(ctx, uc.stores.Clients, inv, in.ClientID); err != nil {
		return nil, err
	}
	inv.Currency = firstNonEmpty(strings.ToUpper(in.Currency), business.DefaultCurrency, uc.currency)
	inv.LegalText = business.LegalText

	err = uc.tx.RunBilling(ctx, func(s Stores) error {
		if err := assignNumber(ctx, s.Numbering, inv); err != nil {
			return err
		}
		return s.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.log.ForBusiness(businessID).Info().Str("number", inv.Number).Str("client_id", inv.ClientID).Msg("factura creada")
	out := toInvoiceResponse(inv, nil)
	return &out, nil
}

// UpdateInvoice reemplaza cliente, fechas, notas y líneas de un borrador y vuelve a
// derivar los importes. Número y estado no cambian. Una factura que ya no es borrador
// devuelve domain.ErrConflict.
func (uc *InvoiceUseCase) UpdateInvoice(ctx context.Context, businessID, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.ClientID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var out dto.InvoiceResponse
	err := uc.tx.RunBilling(ctx, func(s Stores) error {
		inv, err := ownedInvoice(ctx, s.Invoices.GetForUpdate, businessID, id)
		if err != nil {
			return err
		}
		if !inv.IsEditable() {
			return fmt.Errorf("%w: solo se editan borradores (estado %s)", domain.ErrConflict, inv.Status)
		}
		if in.IssueDate != nil {
			inv.IssueDate = dateOnly(*in.IssueDate)
		}
		if inv.DueDate, err = dueAfter(inv.IssueDate, in.DueDate); err != nil {
			return err
		}
		if inv.Lines, err = buildLines(inv.ID, in.Lines); err != nil {
			return err
		}
		if err := uc.applyClient(ctx, s.Clients, inv, in.ClientID); err != nil {
			return err
		}
		if in.Currency != "" {
			inv.Currency = strings.ToUpper(in.Currency)
		}
		inv.Notes = in.Notes
		inv.UpdatedAt = uc.now()
		if err := s.Invoices.Update(ctx, inv); err != nil {
			return err
		}
		payments, err := s.Payments.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}
		out = toInvoiceResponse(inv, payments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.ForBusiness(businessID).Info().Str("number", out.Number).Msg("borrador actualizado")
	return &out, nil
}

// applyClient copia en la factura el cliente indicado. Un cliente inexistente o de otra
// empresa es un error de entrada, no un 404 de la factura.
func (uc *InvoiceUseCase) applyClient(ctx context.Context, clients repository.ClientRepository, inv *entity.Invoice, clientID string) error {
	c, err := clients.GetByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("factura: obtener cliente: %w", err)
	}
	if c == nil || c.BusinessID != inv.BusinessID {
		return fmt.Errorf("%w: cliente %s no encontrado", domain.ErrInvalidInput, clientID)
	}
	inv.ClientID = c.ID
	inv.ClientName = c.Name
	inv.ClientTaxID = c.TaxID
	return nil
}

func buildLines(invoiceID string, in []dto.InvoiceLineRequest) ([]*entity.InvoiceLine, error) {
	lines := make([]*entity.InvoiceLine, 0, len(in))
	for i, l := range in {
		if err := validateLine(l); err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		line := entity.NewInvoiceLine(l.Description, l.Quantity, l.UnitPrice, l.DiscountPercent, l.TaxRate, l.WithholdingRate, i+1)
		line.ID = uuid.New().String()
		line.InvoiceID = invoiceID
		lines = append(lines, line)
	}
	return lines, nil
}

func dueAfter(issueDate time.Time, due *time.Time) (*time.Time, error) {
	if due == nil {
		return nil, nil
	}
	d := dateOnly(*due)
	if d.Before(issueDate) {
		return nil, fmt.Errorf("%w: el vencimiento es anterior a la emisión", domain.ErrInvalidInput)
	}
	return &d, nil
}

// assignNumber toma el siguiente número de la serie (bloqueando el contador) y lo avanza.
// La primera factura de la empresa crea el contador con el prefijo por defecto.
func assignNumber(ctx context.Context, repo repository.NumberingRepository, inv *entity.Invoice) error {
	n, err := repo.GetForUpdate(ctx, inv.BusinessID)
	if err != nil {
		return fmt.Errorf("numeración: %w", err)
	}
	created := n == nil
	if created {
		n = &entity.InvoiceNumbering{
			ID:           uuid.New().String(),
			BusinessID:   inv.BusinessID,
			SeriesPrefix: entity.DefaultSeriesPrefix,
			Pattern:      entity.DefaultNumberPattern,
			NextNumber:   1,
		}
	}
	inv.Number = n.Format(inv.IssueDate.Year())
	inv.Series = n.SeriesPrefix
	n.NextNumber++
	if created {
		return repo.Create(ctx, n)
	}
	return repo.Update(ctx, n)
}

func validateLine(l dto.InvoiceLineRequest) error {
	switch {
	case strings.TrimSpace(l.Description) == "":
		return fmt.Errorf("%w: descripción vacía", domain.ErrInvalidInput)
	case !l.Quantity.IsPositive():
		return fmt.Errorf("%w: la cantidad debe ser mayor que 0", domain.ErrInvalidInput)
	case l.UnitPrice.IsNegative():
		return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	case !isPercent(l.DiscountPercent):
		return fmt.Errorf("%w: descuento fuera de 0..100", domain.ErrInvalidInput)
	case !isPercent(l.WithholdingRate):
		return fmt.Errorf("%w: retención fuera de 0..100", domain.ErrInvalidInput)
	case !l.TaxRate.IsInteger() || !entity.VATType(l.TaxRate.IntPart()).IsValid():
		return fmt.Errorf("%w: tipo de IVA %s no admitido", domain.ErrInvalidInput, l.TaxRate)
	}
	return nil
}

func isPercent(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
