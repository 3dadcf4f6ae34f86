package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/internal/domain"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

// GetInvoice factura con líneas y cobros.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, businessID, id string) (*dto.InvoiceResponse, error) {
	inv, err := ownedInvoice(ctx, uc.stores.Invoices.GetByID, businessID, id)
	if err != nil {
		return nil, err
	}
	payments, err := uc.stores.Payments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	out := toInvoiceResponse(inv, payments)
	return &out, nil
}

// ListInvoices facturas de la empresa, de la más reciente a la más antigua.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, businessID string, q dto.ListInvoicesQuery) ([]dto.InvoiceResponse, error) {
	filter, err := parseFilter(q)
	if err != nil {
		return nil, err
	}
	invoices, err := uc.stores.Invoices.ListByBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		r := toInvoiceResponse(inv, nil)
		paid, err := uc.stores.Payments.TotalByInvoice(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		r.Paid = paid
		r.Balance = r.Total.Sub(paid)
		out = append(out, r)
	}
	return out, nil
}

// ChangeStatus cambio manual de estado (enviar, anular, dejar en borrador).
// "paid" no se acepta aquí: lo fija el registro de cobros.
func (uc *InvoiceUseCase) ChangeStatus(ctx context.Context, businessID, id string, in dto.ChangeInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	next := entity.InvoiceStatus(in.Status)
	if !next.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	var out dto.InvoiceResponse
	err := uc.tx.RunBilling(ctx, func(s Stores) error {
		inv, err := ownedInvoice(ctx, s.Invoices.GetForUpdate, businessID, id)
		if err != nil {
			return err
		}
		if !inv.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: no se puede pasar de %s a %s", domain.ErrConflict, inv.Status, next)
		}
		if inv.Status != next {
			inv.Status = next
			inv.UpdatedAt = uc.now()
			if err := s.Invoices.UpdateStatus(ctx, inv.ID, inv.Status, inv.UpdatedAt); err != nil {
				return err
			}
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
	uc.log.ForBusiness(businessID).Info().Str("invoice_id", id).Str("status", out.Status).Msg("estado de factura cambiado")
	return &out, nil
}

// RegisterPayment registra un cobro y sincroniza el estado de la factura con lo cobrado.
func (uc *InvoiceUseCase) RegisterPayment(ctx context.Context, businessID, invoiceID string, in dto.RegisterPaymentRequest) (*dto.InvoiceResponse, error) {
	method := entity.PaymentMethod(in.Method)
	if !in.Amount.IsPositive() || !method.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	date := dateOnly(now)
	if in.Date != nil {
		date = dateOnly(*in.Date)
	}

	var out dto.InvoiceResponse
	err := uc.tx.RunBilling(ctx, func(s Stores) error {
		inv, err := ownedInvoice(ctx, s.Invoices.GetForUpdate, businessID, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status == entity.InvoiceStatusCancelled {
			return fmt.Errorf("%w: la factura está anulada", domain.ErrConflict)
		}
		p := &entity.Payment{
			ID:        uuid.New().String(),
			InvoiceID: inv.ID,
			Amount:    in.Amount.Round(2),
			Date:      date,
			Method:    method,
			Notes:     in.Notes,
			CreatedAt: now,
		}
		if err := s.Payments.Create(ctx, p); err != nil {
			return err
		}
		out, err = uc.syncStatus(ctx, s, inv)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.ForBusiness(businessID).Info().Str("invoice_id", invoiceID).Str("amount", in.Amount.StringFixed(2)).Str("status", out.Status).Msg("cobro registrado")
	return &out, nil
}

// DeletePayment elimina un cobro; una factura pagada que deja de estarlo vuelve a enviada.
func (uc *InvoiceUseCase) DeletePayment(ctx context.Context, businessID, invoiceID, paymentID string) (*dto.InvoiceResponse, error) {
	var out dto.InvoiceResponse
	err := uc.tx.RunBilling(ctx, func(s Stores) error {
		inv, err := ownedInvoice(ctx, s.Invoices.GetForUpdate, businessID, invoiceID)
		if err != nil {
			return err
		}
		p, err := s.Payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil || p.InvoiceID != inv.ID {
			return domain.ErrNotFound
		}
		if err := s.Payments.Delete(ctx, p.ID); err != nil {
			return err
		}
		out, err = uc.syncStatus(ctx, s, inv)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.ForBusiness(businessID).Info().Str("invoice_id", invoiceID).Str("payment_id", paymentID).Str("status", out.Status).Msg("cobro eliminado")
	return &out, nil
}

// syncStatus recalcula lo cobrado, ajusta el estado si corresponde y devuelve la respuesta.
func (uc *InvoiceUseCase) syncStatus(ctx context.Context, s Stores, inv *entity.Invoice) (dto.InvoiceResponse, error) {
	paid, err := s.Payments.TotalByInvoice(ctx, inv.ID)
	if err != nil {
		return dto.InvoiceResponse{}, err
	}
	if inv.SyncStatusWithPayments(paid) {
		inv.UpdatedAt = uc.now()
		if err := s.Invoices.UpdateStatus(ctx, inv.ID, inv.Status, inv.UpdatedAt); err != nil {
			return dto.InvoiceResponse{}, err
		}
	}
	payments, err := s.Payments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return dto.InvoiceResponse{}, err
	}
	return toInvoiceResponse(inv, payments), nil
}

// ownedInvoice carga la factura con get y comprueba que pertenece a la empresa.
func ownedInvoice(ctx context.Context, get func(context.Context, string) (*entity.Invoice, error), businessID, id string) (*entity.Invoice, error) {
	inv, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func parseFilter(q dto.ListInvoicesQuery) (repository.InvoiceFilter, error) {
	var f repository.InvoiceFilter
	if q.Status != "" {
		f.Status = entity.InvoiceStatus(q.Status)
		if !f.Status.IsValid() {
			return f, domain.ErrInvalidInput
		}
	}
	var err error
	if f.From, err = parseDate(q.From); err != nil {
		return f, err
	}
	if f.To, err = parseDate(q.To); err != nil {
		return f, err
	}
	return f, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	return &t, nil
}

// paidTotal suma de los cobros de la lista.
func paidTotal(payments []*entity.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
