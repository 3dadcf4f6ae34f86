package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
// Number no se acepta: se genera con la numeración de la empresa. Nombre y NIF
// del cliente se copian de la ficha del cliente.
type CreateInvoiceRequest struct {
	IssueDate *time.Time           `json:"issue_date,omitempty"` // vacío = hoy
	DueDate   *time.Time           `json:"due_date,omitempty"`
	Status    string               `json:"status,omitempty" validate:"omitempty,oneof=draft sent"`
	Currency  string               `json:"currency,omitempty" validate:"omitempty,len=3"`
	ClientID  string               `json:"client_id" validate:"required,uuid"`
	Notes     string               `json:"notes,omitempty"`
	Lines     []InvoiceLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id. Solo borradores; sustituye
// cabecera y líneas. Número y estado no cambian.
type UpdateInvoiceRequest struct {
	IssueDate *time.Time           `json:"issue_date,omitempty"` // vacío = se conserva
	DueDate   *time.Time           `json:"due_date,omitempty"`
	Currency  string               `json:"currency,omitempty" validate:"omitempty,len=3"`
	ClientID  string               `json:"client_id" validate:"required,uuid"`
	Notes     string               `json:"notes,omitempty"`
	Lines     []InvoiceLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// InvoiceLineRequest línea de factura. Los importes se validan en el caso de uso.
type InvoiceLineRequest struct {
	Description     string          `json:"description" validate:"required,max=500"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxRate         decimal.Decimal `json:"tax_rate"`         // 21, 10, 4 o 0
	WithholdingRate decimal.Decimal `json:"withholding_rate"` // % de retención IRPF
}

// InvoiceLineResponse línea con sus importes derivados.
type InvoiceLineResponse struct {
	ID                string          `json:"id"`
	Position          int             `json:"position"`
	Description       string          `json:"description"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	DiscountPercent   decimal.Decimal `json:"discount_percent"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	WithholdingRate   decimal.Decimal `json:"withholding_rate"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	WithholdingAmount decimal.Decimal `json:"withholding_amount"`
}

// InvoiceResponse factura con líneas, totales y cobros.
type InvoiceResponse struct {
	ID               string                `json:"id"`
	BusinessID       string                `json:"business_id"`
	Number           string                `json:"number"`
	Series           string                `json:"series"`
	Status           string                `json:"status"`
	StatusLabel      string                `json:"status_label"`
	Currency         string                `json:"currency"`
	IssueDate        string                `json:"issue_date"`
	DueDate          string                `json:"due_date,omitempty"`
	ClientID         string                `json:"client_id,omitempty"`
	ClientName       string                `json:"client_name"`
	ClientTaxID      string                `json:"client_tax_id,omitempty"`
	Notes            string                `json:"notes,omitempty"`
	LegalText        string                `json:"legal_text,omitempty"`
	Lines            []InvoiceLineResponse `json:"lines"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	TaxTotal         decimal.Decimal       `json:"tax_total"`
	WithholdingTotal decimal.Decimal       `json:"withholding_total"`
	Total            decimal.Decimal       `json:"total"`
	Paid             decimal.Decimal       `json:"paid"`
	Balance          decimal.Decimal       `json:"balance"`
	Payments         []PaymentResponse     `json:"payments,omitempty"`
}

// ListInvoicesQuery filtros de GET /api/invoices y de la exportación CSV.
type ListInvoicesQuery struct {
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Status string `query:"status" validate:"omitempty,oneof=draft sent paid cancelled"`
}

// ChangeInvoiceStatusRequest body para PATCH /api/invoices/:id/status.
type ChangeInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent cancelled"`
}

// RegisterPaymentRequest body para POST /api/invoices/:id/payments.
type RegisterPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   *time.Time      `json:"date,omitempty"` // vacío = hoy
	Method string          `json:"method" validate:"required,oneof=transfer cash card other"`
	Notes  string          `json:"notes,omitempty" validate:"max=500"`
}

// PaymentResponse cobro de una factura.
type PaymentResponse struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Method      string          `json:"method"`
	MethodLabel string          `json:"method_label"`
	Notes       string          `json:"notes,omitempty"`
}

// CreateExpenseRequest body para POST /api/expenses.
// Year y Quarter solo son obligatorios en el modo por trimestre.
type CreateExpenseRequest struct {
	Year           int             `json:"year,omitempty" validate:"omitempty,min=2000,max=2100"`
	Quarter        int             `json:"quarter,omitempty" validate:"omitempty,min=1,max=4"`
	Date           time.Time       `json:"date" validate:"required"`
	Concept        string          `json:"concept" validate:"required,max=200"`
	Supplier       string          `json:"supplier,omitempty" validate:"max=200"`
	Reference      string          `json:"reference,omitempty" validate:"max=100"`
	Category       string          `json:"category" validate:"required,oneof=social_security software supplies telecom training services other"`
	TaxableBase    decimal.Decimal `json:"taxable_base"`
	VATType        int             `json:"vat_type" validate:"oneof=21 10 4 0"`
	IRPFDeductible *bool           `json:"irpf_deductible,omitempty"` // vacío = true
	VATDeductible  *bool           `json:"vat_deductible,omitempty"`  // vacío = true
	Notes          string          `json:"notes,omitempty"`
}

// ExpenseResponse gasto con su IVA soportado derivado.
type ExpenseResponse struct {
	ID             string          `json:"id"`
	QuarterID      string          `json:"quarter_id,omitempty"`
	Date           string          `json:"date"`
	Concept        string          `json:"concept"`
	Supplier       string          `json:"supplier,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Category       string          `json:"category"`
	TaxableBase    decimal.Decimal `json:"taxable_base"`
	VATType        int             `json:"vat_type"`
	InputVAT       decimal.Decimal `json:"input_vat"`
	Total          decimal.Decimal `json:"total"`
	IRPFDeductible bool            `json:"irpf_deductible"`
	VATDeductible  bool            `json:"vat_deductible"`
	Notes          string          `json:"notes,omitempty"`
}

// ListExpensesQuery filtros de GET /api/expenses.
type ListExpensesQuery struct {
	From string `query:"from" validate:"required,datetime=2006-01-02"`
	To   string `query:"to" validate:"required,datetime=2006-01-02"`
}

// CreateIncomeRequest body para POST /api/incomes (modo por trimestre).
type CreateIncomeRequest struct {
	Year            int              `json:"year" validate:"required,min=2000,max=2100"`
	Quarter         int              `json:"quarter" validate:"required,min=1,max=4"`
	Date            time.Time        `json:"date" validate:"required"`
	Concept         string           `json:"concept" validate:"required,max=200"`
	Client          string           `json:"client,omitempty" validate:"max=200"`
	Reference       string           `json:"reference,omitempty" validate:"max=100"`
	TaxableBase     decimal.Decimal  `json:"taxable_base"`
	VATType         int              `json:"vat_type" validate:"oneof=21 10 4 0"`
	WithholdingRate *decimal.Decimal `json:"withholding_rate,omitempty"` // vacío = 15
	Notes           string           `json:"notes,omitempty"`
}

// ListIncomesQuery filtros de GET /api/incomes.
type ListIncomesQuery struct {
	Year    int `query:"year" validate:"required,min=2000,max=2100"`
	Quarter int `query:"quarter" validate:"required,min=1,max=4"`
}

// IncomeResponse ingreso con IVA repercutido y retención derivados.
type IncomeResponse struct {
	ID              string          `json:"id"`
	QuarterID       string          `json:"quarter_id"`
	Date            string          `json:"date"`
	Concept         string          `json:"concept"`
	Client          string          `json:"client,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	TaxableBase     decimal.Decimal `json:"taxable_base"`
	VATType         int             `json:"vat_type"`
	OutputVAT       decimal.Decimal `json:"output_vat"`
	WithholdingRate decimal.Decimal `json:"withholding_rate"`
	Withholding     decimal.Decimal `json:"withholding"`
	Total           decimal.Decimal `json:"total"`
	Notes           string          `json:"notes,omitempty"`
}
