package fiscal

import (
	"fmt"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	domfiscal "github.com/jhoicas/autonomo-api/internal/domain/fiscal"
)

const dateLayout = "2006-01-02"

func toFiscalYearResponse(fy *entity.FiscalYear, quarters []*entity.Quarter) dto.FiscalYearResponse {
	closed := 0
	for _, q := range quarters {
		if q.Closed {
			closed++
		}
	}
	return dto.FiscalYearResponse{
		ID:             fy.ID,
		BusinessID:     fy.BusinessID,
		Year:           fy.Year,
		EstimationType: string(fy.EstimationType),
		State:          string(domfiscal.FiscalYearState(fy)),
		Notes:          fy.Notes,
		QuartersClosed: closed,
		QuartersTotal:  len(quarters),
	}
}

func toQuarterResponse(fy *entity.FiscalYear, q *entity.Quarter, result *entity.QuarterlyResult) dto.QuarterResponse {
	p := domfiscal.QuarterRange(fy.Year, q.Number)
	out := dto.QuarterResponse{
		ID:        q.ID,
		Number:    q.Number,
		Label:     fmt.Sprintf("%dT %d", q.Number, fy.Year),
		StartDate: p.Start.Format(dateLayout),
		EndDate:   p.End.Format(dateLayout),
		State:     string(domfiscal.QuarterState(q)),
		Notes:     q.Notes,
		Result:    toQuarterlyResultResponse(result),
	}
	if q.ClosingDate != nil {
		out.ClosingDate = q.ClosingDate.Format(dateLayout)
	}
	return out
}

func toQuarterlyResultResponse(r *entity.QuarterlyResult) *dto.QuarterlyResultResponse {
	if r == nil {
		return nil
	}
	out := &dto.QuarterlyResultResponse{
		ID:                  r.ID,
		QuarterID:           r.QuarterID,
		Modelo303Calculated: r.Modelo303Calculated,
		Modelo303Submitted:  r.Modelo303Submitted,
		Modelo130Calculated: r.Modelo130Calculated,
		Modelo130Submitted:  r.Modelo130Submitted,
		Notes:               r.Notes,
		UpdatedAt:           r.UpdatedAt,
	}
	if r.SubmissionDate != nil {
		out.SubmissionDate = r.SubmissionDate.Format(dateLayout)
	}
	return out
}

func toBuckets(buckets []domfiscal.VATBucket) []dto.VATBucketResponse {
	out := make([]dto.VATBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dto.VATBucketResponse{Type: b.Type, Base: b.Base, VAT: b.VAT})
	}
	return out
}

func toModelo303Response(year, quarter int, m domfiscal.Modelo303) dto.Modelo303Response {
	return dto.Modelo303Response{
		Year:           year,
		Quarter:        quarter,
		VATBreakdown:   toBuckets(m.VATBreakdown),
		TotalOutputVAT: m.TotalOutputVAT,
		TotalInputVAT:  m.TotalInputVAT,
		Result:         m.Result,
	}
}

func toModelo130Response(fy *entity.FiscalYear, quarter int, m domfiscal.Modelo130) dto.Modelo130Response {
	return dto.Modelo130Response{
		Year:                    fy.Year,
		Quarter:                 quarter,
		EstimationType:          string(fy.EstimationType),
		AccumulatedIncome:       m.AccumulatedIncome,
		AccumulatedExpenses:     m.AccumulatedExpenses,
		HardToJustifyExpenses:   m.HardToJustifyExpenses,
		NetIncome:               m.NetIncome,
		GrossPayment:            m.GrossPayment,
		AccumulatedWithholdings: m.AccumulatedWithholdings,
		PreviousPayments:        m.PreviousPayments,
		Result:                  m.Result,
	}
}

func toModelo390Response(year int, m domfiscal.Modelo390) dto.Modelo390Response {
	detail := make([]dto.QuarterSummaryResponse, 0, len(m.QuartersDetail))
	for _, q := range m.QuartersDetail {
		detail = append(detail, dto.QuarterSummaryResponse{
			Quarter:   q.Quarter,
			OutputVAT: q.OutputVAT,
			InputVAT:  q.InputVAT,
			Result:    q.Result,
		})
	}
	return dto.Modelo390Response{
		Year:           year,
		TotalOutputVAT: m.TotalOutputVAT,
		TotalInputVAT:  m.TotalInputVAT,
		Result:         m.Result,
		VATBreakdown:   toBuckets(m.VATBreakdown),
		QuartersDetail: detail,
	}
}
