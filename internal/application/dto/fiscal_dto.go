package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateFiscalYearRequest body para POST /api/fiscal-years.
type CreateFiscalYearRequest struct {
	Year           int    `json:"year" validate:"required,min=2000,max=2100"`
	EstimationType string `json:"estimation_type" validate:"omitempty,oneof=simplified normal"` // vacío = simplified
	Notes          string `json:"notes,omitempty" validate:"max=2000"`
}

// FiscalYearResponse año fiscal en listados.
type FiscalYearResponse struct {
	ID             string `json:"id"`
	BusinessID     string `json:"business_id,omitempty"`
	Year           int    `json:"year"`
	EstimationType string `json:"estimation_type"`
	State          string `json:"state"` // open | closed
	Notes          string `json:"notes,omitempty"`
	QuartersClosed int    `json:"quarters_closed"`
	QuartersTotal  int    `json:"quarters_total"`
}

// FiscalYearDetailResponse año fiscal con sus trimestres y el resumen anual (390).
type FiscalYearDetailResponse struct {
	FiscalYearResponse
	Quarters  []QuarterResponse `json:"quarters"`
	Modelo390 Modelo390Response `json:"modelo_390"`
}

// QuarterResponse trimestre con su resultado guardado (si existe).
type QuarterResponse struct {
	ID          string                   `json:"id"`
	Number      int                      `json:"number"`
	Label       string                   `json:"label"` // p. ej. "1T 2026"
	StartDate   string                   `json:"start_date"`
	EndDate     string                   `json:"end_date"`
	State       string                   `json:"state"`
	ClosingDate string                   `json:"closing_date,omitempty"`
	Notes       string                   `json:"notes,omitempty"`
	Result      *QuarterlyResultResponse `json:"result,omitempty"`
}

// QuarterDetailResponse trimestre con los modelos 303 y 130 calculados al vuelo.
type QuarterDetailResponse struct {
	Quarter   QuarterResponse   `json:"quarter"`
	Modelo303 Modelo303Response `json:"modelo_303"`
	Modelo130 Modelo130Response `json:"modelo_130"`
}

// VATBucketResponse base e IVA de un tipo.
type VATBucketResponse struct {
	Type int             `json:"type"`
	Base decimal.Decimal `json:"base"`
	VAT  decimal.Decimal `json:"vat"`
}

// Modelo303Response liquidación trimestral de IVA.
type Modelo303Response struct {
	Year           int                 `json:"year"`
	Quarter        int                 `json:"quarter"`
	VATBreakdown   []VATBucketResponse `json:"vat_breakdown"`
	TotalOutputVAT decimal.Decimal     `json:"total_output_vat"`
	TotalInputVAT  decimal.Decimal     `json:"total_input_vat"`
	Result         decimal.Decimal     `json:"result"`
}

// Modelo130Response pago fraccionado de IRPF acumulado.
type Modelo130Response struct {
	Year                    int             `json:"year"`
	Quarter                 int             `json:"quarter"`
	EstimationType          string          `json:"estimation_type"`
	AccumulatedIncome       decimal.Decimal `json:"accumulated_income"`
	AccumulatedExpenses     decimal.Decimal `json:"accumulated_expenses"`
	HardToJustifyExpenses   decimal.Decimal `json:"hard_to_justify_expenses"`
	NetIncome               decimal.Decimal `json:"net_income"`
	GrossPayment            decimal.Decimal `json:"gross_payment"`
	AccumulatedWithholdings decimal.Decimal `json:"accumulated_withholdings"`
	PreviousPayments        decimal.Decimal `json:"previous_payments"`
	Result                  decimal.Decimal `json:"result"`
}

// QuarterSummaryResponse fila del detalle trimestral del 390.
type QuarterSummaryResponse struct {
	Quarter   int             `json:"quarter"`
	OutputVAT decimal.Decimal `json:"output_vat"`
	InputVAT  decimal.Decimal `json:"input_vat"`
	Result    decimal.Decimal `json:"result"`
}

// Modelo390Response resumen anual de IVA.
type Modelo390Response struct {
	Year           int                      `json:"year"`
	TotalOutputVAT decimal.Decimal          `json:"total_output_vat"`
	TotalInputVAT  decimal.Decimal          `json:"total_input_vat"`
	Result         decimal.Decimal          `json:"result"`
	VATBreakdown   []VATBucketResponse      `json:"vat_breakdown"`
	QuartersDetail []QuarterSummaryResponse `json:"quarters_detail"`
}

// SaveQuarterResultRequest body para POST /api/fiscal-years/:year/quarters/:n/result.
// Los importes calculados nunca vienen del cliente; solo los presentados ante la AEAT.
type SaveQuarterResultRequest struct {
	Modelo303Submitted *decimal.Decimal `json:"modelo_303_submitted,omitempty"`
	Modelo130Submitted *decimal.Decimal `json:"modelo_130_submitted,omitempty"`
	SubmissionDate     *time.Time       `json:"submission_date,omitempty"`
	Notes              *string          `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// QuarterlyResultResponse resultado guardado de un trimestre.
type QuarterlyResultResponse struct {
	ID                  string           `json:"id"`
	QuarterID           string           `json:"quarter_id"`
	Modelo303Calculated decimal.Decimal  `json:"modelo_303_calculated"`
	Modelo303Submitted  *decimal.Decimal `json:"modelo_303_submitted,omitempty"`
	Modelo130Calculated decimal.Decimal  `json:"modelo_130_calculated"`
	Modelo130Submitted  *decimal.Decimal `json:"modelo_130_submitted,omitempty"`
	SubmissionDate      string           `json:"submission_date,omitempty"`
	Notes               string           `json:"notes,omitempty"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// QuarterRef identifica un trimestre por año y número.
type QuarterRef struct {
	Year   int `json:"year" validate:"required,min=2000,max=2100"`
	Number int `json:"number" validate:"required,min=1,max=4"`
}

// QuarterBatchRequest body para POST /api/quarters/close y /api/quarters/result.
type QuarterBatchRequest struct {
	Quarters []QuarterRef `json:"quarters" validate:"required,min=1,dive"`
}

// CloseFiscalYearsRequest body para POST /api/fiscal-years/close.
type CloseFiscalYearsRequest struct {
	Years []int `json:"years" validate:"required,min=1,dive,min=2000,max=2100"`
}

// BatchItemResult resultado por elemento de una operación por lotes.
type BatchItemResult struct {
	Year   int    `json:"year"`
	Number int    `json:"number,omitempty"`
	Status string `json:"status"`           // closed | saved | skipped | error
	Reason string `json:"reason,omitempty"` // missing_result, already_closed, missing_quarters, open_quarters, not_found
}

// BatchResponse resumen de un cierre o guardado por lotes.
type BatchResponse struct {
	Closed  int               `json:"closed"`
	Saved   int               `json:"saved,omitempty"`
	Skipped int               `json:"skipped"`
	Items   []BatchItemResult `json:"items"`
}

// Estados de un elemento en cierres por lotes.
const (
	BatchStatusClosed  = "closed"
	BatchStatusSaved   = "saved"
	BatchStatusSkipped = "skipped"
	BatchStatusError   = "error"
)

// Add registra un elemento y actualiza los contadores.
func (r *BatchResponse) Add(item BatchItemResult) {
	switch item.Status {
	case BatchStatusClosed:
		r.Closed++
	case BatchStatusSaved:
		r.Saved++
	case BatchStatusSkipped:
		r.Skipped++
	}
	r.Items = append(r.Items, item)
}
