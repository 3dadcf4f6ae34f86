// Package analytics contiene el panel de inicio con las cifras de facturación.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

const (
	dashboardRecent = 5 // facturas en el widget de últimas facturas
	dashboardMonths = 6 // meses de la gráfica, incluido el actual
)

var monthAbbr = [...]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// DashboardUseCase genera el resumen de facturación del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	repo repository.AnalyticsRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.AnalyticsRepository, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{repo: repo, log: log, now: time.Now}
}

// WithClock sustituye el reloj que decide el mes en curso.
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el panel para la empresa indicada.
//
// Seis consultas en paralelo:
//  1. facturas emitidas este mes
//  2. importe pendiente (enviadas)
//  3. cobrado este mes
//  4. borradores
//  5. últimas facturas
//  6. serie mensual de cobrado y pendiente
func (uc *DashboardUseCase) GetSummary(ctx context.Context, businessID string) (*dto.DashboardResponse, error) {
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	seriesStart := monthStart.AddDate(0, -(dashboardMonths - 1), 0)

	type totalsResult struct {
		count int
		total decimal.Decimal
		err   error
	}
	type recentResult struct {
		items []repository.RecentInvoice
		err   error
	}
	type seriesResult struct {
		months []repository.MonthlyInvoiceTotals
		err    error
	}

	totals := func(f repository.InvoiceTotalsFilter) <-chan totalsResult {
		ch := make(chan totalsResult, 1)
		go func() {
			count, total, err := uc.repo.InvoiceTotals(ctx, businessID, f)
			ch <- totalsResult{count, total, err}
		}()
		return ch
	}
	monthCh := totals(repository.InvoiceTotalsFilter{From: &monthStart, To: &monthEnd})
	pendingCh := totals(repository.InvoiceTotalsFilter{Status: entity.InvoiceStatusSent})
	paidCh := totals(repository.InvoiceTotalsFilter{Status: entity.InvoiceStatusPaid, From: &monthStart, To: &monthEnd})
	draftCh := totals(repository.InvoiceTotalsFilter{Status: entity.InvoiceStatusDraft})

	recentCh := make(chan recentResult, 1)
	seriesCh := make(chan seriesResult, 1)
	go func() {
		items, err := uc.repo.RecentInvoices(ctx, businessID, dashboardRecent)
		recentCh <- recentResult{items, err}
	}()
	go func() {
		months, err := uc.repo.MonthlyTotals(ctx, businessID, seriesStart, monthEnd)
		seriesCh <- seriesResult{months, err}
	}()

	month, pending, paid, drafts := <-monthCh, <-pendingCh, <-paidCh, <-draftCh
	recent, series := <-recentCh, <-seriesCh

	for _, r := range []struct {
		what string
		err  error
	}{
		{"facturas del mes", month.err},
		{"pendiente de cobro", pending.err},
		{"cobrado del mes", paid.err},
		{"borradores", drafts.err},
		{"últimas facturas", recent.err},
		{"serie mensual", series.err},
	} {
		if r.err != nil {
			uc.log.ForBusiness(businessID).Error().Err(r.err).Str("query", r.what).Msg("dashboard")
			return nil, fmt.Errorf("dashboard: %s: %w", r.what, r.err)
		}
	}

	out := &dto.DashboardResponse{
		MonthInvoiceCount: month.count,
		PendingAmount:     pending.total.Round(2),
		PaidThisMonth:     paid.total.Round(2),
		DraftCount:        drafts.count,
		RecentInvoices:    make([]dto.RecentInvoiceDTO, 0, len(recent.items)),
		Chart:             monthlyChart(seriesStart, series.months),
		DateLabel:         monthLabel(monthStart),
	}
	for _, r := range recent.items {
		out.RecentInvoices = append(out.RecentInvoices, dto.RecentInvoiceDTO{
			ID:          r.ID,
			Number:      r.Number,
			ClientName:  r.ClientName,
			Status:      string(r.Status),
			StatusLabel: r.Status.Label(),
			IssueDate:   r.IssueDate,
			Total:       r.Total.Round(2),
		})
	}
	return out, nil
}

// monthlyChart rellena con cero los meses sin facturas a partir de start.
func monthlyChart(start time.Time, rows []repository.MonthlyInvoiceTotals) dto.MonthlyChartDTO {
	type key struct {
		year  int
		month time.Month
	}
	byMonth := make(map[key]repository.MonthlyInvoiceTotals, len(rows))
	for _, r := range rows {
		byMonth[key{r.Year, r.Month}] = r
	}
	chart := dto.MonthlyChartDTO{
		Labels:      make([]string, 0, dashboardMonths),
		Revenue:     make([]decimal.Decimal, 0, dashboardMonths),
		Outstanding: make([]decimal.Decimal, 0, dashboardMonths),
	}
	for i := 0; i < dashboardMonths; i++ {
		m := start.AddDate(0, i, 0)
		r, ok := byMonth[key{m.Year(), m.Month()}]
		if !ok {
			r.Revenue, r.Outstanding = decimal.Zero, decimal.Zero
		}
		chart.Labels = append(chart.Labels, monthLabel(m))
		chart.Revenue = append(chart.Revenue, r.Revenue.Round(2))
		chart.Outstanding = append(chart.Outstanding, r.Outstanding.Round(2))
	}
	return chart
}

// monthLabel etiqueta corta del mes, ej: "Ene 2026".
func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthAbbr[t.Month()-1], t.Year())
}
