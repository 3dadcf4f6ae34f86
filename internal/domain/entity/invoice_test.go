package entity_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/autonomo-api/internal/domain"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNewInvoiceLine_ImportesDerivados(t *testing.T) {
	l := entity.NewInvoiceLine("Consultoría", d("3"), d("33.335"), d("10"), d("21"), d("15"), 1)

	assert.Equal(t, "90.00", l.Subtotal.StringFixed(2), "3 × 33.335 × 0.90 = 90.0045")
	assert.Equal(t, "18.90", l.TaxAmount.StringFixed(2))
	assert.Equal(t, "13.50", l.WithholdingAmount.StringFixed(2))
}

func TestInvoice_Totales(t *testing.T) {
	inv := &entity.Invoice{Lines: []*entity.InvoiceLine{
		entity.NewInvoiceLine("A", d("1"), d("1000"), decimal.Zero, d("21"), d("15"), 1),
		entity.NewInvoiceLine("B", d("2"), d("50"), decimal.Zero, d("10"), decimal.Zero, 2),
	}}

	assert.Equal(t, "1100.00", inv.Subtotal().StringFixed(2))
	assert.Equal(t, "220.00", inv.TaxTotal().StringFixed(2))
	assert.Equal(t, "150.00", inv.WithholdingTotal().StringFixed(2))
	assert.Equal(t, "1170.00", inv.Total().StringFixed(2), "base + IVA - retención")
}

func TestSyncStatusWithPayments(t *testing.T) {
	newInv := func(status entity.InvoiceStatus) *entity.Invoice {
		return &entity.Invoice{Status: status, Lines: []*entity.InvoiceLine{
			entity.NewInvoiceLine("A", d("1"), d("100"), decimal.Zero, d("21"), decimal.Zero, 1),
		}}
	}

	cases := []struct {
		name    string
		status  entity.InvoiceStatus
		paid    string
		want    entity.InvoiceStatus
		changed bool
	}{
		{"cobro completo", entity.InvoiceStatusSent, "121.00", entity.InvoiceStatusPaid, true},
		{"cobro de más", entity.InvoiceStatusSent, "150.00", entity.InvoiceStatusPaid, true},
		{"cobro parcial", entity.InvoiceStatusSent, "100.00", entity.InvoiceStatusSent, false},
		{"pagada que deja de estarlo", entity.InvoiceStatusPaid, "50.00", entity.InvoiceStatusSent, true},
		{"pagada sigue pagada", entity.InvoiceStatusPaid, "121.00", entity.InvoiceStatusPaid, false},
		{"anulada no cambia", entity.InvoiceStatusCancelled, "121.00", entity.InvoiceStatusCancelled, false},
		{"borrador parcial", entity.InvoiceStatusDraft, "10.00", entity.InvoiceStatusDraft, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := newInv(tc.status)
			changed := inv.SyncStatusWithPayments(d(tc.paid))
			assert.Equal(t, tc.want, inv.Status)
			assert.Equal(t, tc.changed, changed)
		})
	}
}

func TestInvoiceStatus_CountsTowardTax(t *testing.T) {
	assert.False(t, entity.InvoiceStatusDraft.CountsTowardTax())
	assert.True(t, entity.InvoiceStatusSent.CountsTowardTax())
	assert.True(t, entity.InvoiceStatusPaid.CountsTowardTax())
	assert.False(t, entity.InvoiceStatusCancelled.CountsTowardTax())
	assert.False(t, entity.InvoiceStatus("overdue").IsValid())
}

func TestInvoiceStatus_CanTransitionTo(t *testing.T) {
	const (
		draft     = entity.InvoiceStatusDraft
		sent      = entity.InvoiceStatusSent
		paid      = entity.InvoiceStatusPaid
		cancelled = entity.InvoiceStatusCancelled
	)
	allowed := map[entity.InvoiceStatus][]entity.InvoiceStatus{
		draft:     {draft, sent, cancelled},
		sent:      {sent, cancelled},
		paid:      {paid},
		cancelled: {cancelled, draft},
	}
	for from, targets := range allowed {
		for _, to := range []entity.InvoiceStatus{draft, sent, paid, cancelled} {
			want := false
			for _, a := range targets {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, draft.CanTransitionTo("archived"))
}

func TestInvoiceNumbering_Format(t *testing.T) {
	n := &entity.InvoiceNumbering{SeriesPrefix: "F", NextNumber: 7}
	assert.Equal(t, "F-2026-00007", n.Format(2026))

	n = &entity.InvoiceNumbering{NextNumber: 123456}
	assert.Equal(t, "F-2026-123456", n.Format(2026), "prefijo por defecto y sin truncar")

	n = &entity.InvoiceNumbering{SeriesPrefix: "R", Pattern: "{year}/{prefix}{number:03d}", NextNumber: 42}
	assert.Equal(t, "2026/R042", n.Format(2026))

	n = &entity.InvoiceNumbering{Pattern: "FAC{number}", NextNumber: 7}
	assert.Equal(t, "FAC7", n.Format(2026), "sin relleno")
}

func TestValidateNumberPattern(t *testing.T) {
	for _, ok := range []string{
		entity.DefaultNumberPattern,
		"{prefix}{number:04d}",
		"{year}-{number}",
	} {
		assert.NoError(t, entity.ValidateNumberPattern(ok), ok)
	}
	for _, bad := range []string{
		"",
		"{prefix}-{year}",
		"{number}-{number}",
		"{prefix}-{cliente}-{number}",
		"{number:5d}",
		"{prefix-{number}",
		"{number}" + strings.Repeat("x", entity.MaxNumberPatternLen),
	} {
		assert.ErrorIs(t, entity.ValidateNumberPattern(bad), domain.ErrInvalidInput, bad)
	}
}
