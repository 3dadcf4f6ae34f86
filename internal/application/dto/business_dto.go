package dto

import "time"

// UpdateBusinessRequest body para PATCH /api/business. Solo se modifican los campos presentes.
type UpdateBusinessRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	TaxID           *string `json:"tax_id,omitempty" validate:"omitempty,min=1,max=20"`
	Address         *string `json:"address,omitempty"`
	City            *string `json:"city,omitempty" validate:"omitempty,max=100"`
	PostalCode      *string `json:"postal_code,omitempty" validate:"omitempty,max=10"`
	Province        *string `json:"province,omitempty" validate:"omitempty,max=100"`
	Country         *string `json:"country,omitempty" validate:"omitempty,len=2"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	DefaultCurrency *string `json:"default_currency,omitempty" validate:"omitempty,len=3"`
	LegalText       *string `json:"legal_text,omitempty"`
	// SeriesPrefix cambia el prefijo de las próximas facturas; el contador no se reinicia.
	SeriesPrefix *string `json:"series_prefix,omitempty" validate:"omitempty,alphanum,min=1,max=10"`
	// NumberPattern admite {prefix}, {year} y {number} (o {number:05d}).
	NumberPattern *string `json:"number_pattern,omitempty" validate:"omitempty,max=100"`
}

// BusinessResponse perfil de la empresa con el estado de su numeración.
type BusinessResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	TaxID           string    `json:"tax_id"`
	Address         string    `json:"address"`
	City            string    `json:"city"`
	PostalCode      string    `json:"postal_code"`
	Province        string    `json:"province"`
	Country         string    `json:"country"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	DefaultCurrency string    `json:"default_currency"`
	LegalText       string    `json:"legal_text"`
	SeriesPrefix    string    `json:"series_prefix"`
	NumberPattern   string    `json:"number_pattern"`
	NextNumber      string    `json:"next_number"` // p. ej. F-2026-00007
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
