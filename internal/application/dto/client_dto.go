package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	TaxID      string `json:"tax_id,omitempty" validate:"max=20"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty" validate:"max=100"`
	PostalCode string `json:"postal_code,omitempty" validate:"max=10"`
	Province   string `json:"province,omitempty" validate:"max=100"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty" validate:"max=30"`
	Notes      string `json:"notes,omitempty"`
}

// UpdateClientRequest body para PATCH /api/clients/:id. Solo se modifican los campos presentes.
type UpdateClientRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	TaxID      *string `json:"tax_id,omitempty" validate:"omitempty,max=20"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	PostalCode *string `json:"postal_code,omitempty" validate:"omitempty,max=10"`
	Province   *string `json:"province,omitempty" validate:"omitempty,max=100"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Notes      *string `json:"notes,omitempty"`
}

// ListClientsQuery filtros de GET /api/clients.
type ListClientsQuery struct {
	Q      string `query:"q" validate:"max=100"` // busca en nombre, NIF y email
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

// Page paginación con valores por defecto.
func (q ListClientsQuery) Page() PageRequest {
	p := PageRequest{Limit: q.Limit, Offset: q.Offset}
	p.DefaultPage()
	return p
}

// ClientResponse cliente.
type ClientResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	TaxID      string    `json:"tax_id,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	PostalCode string    `json:"postal_code,omitempty"`
	Province   string    `json:"province,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ClientListResponse página de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// CreateCatalogItemRequest body para POST /api/catalog. Los importes vacíos toman
// los valores por defecto (precio 0, IVA 21, retención 0).
type CreateCatalogItemRequest struct {
	Name                   string           `json:"name" validate:"required,max=200"`
	Description            string           `json:"description,omitempty"`
	DefaultUnitPrice       *decimal.Decimal `json:"default_unit_price,omitempty"`
	DefaultTaxRate         *decimal.Decimal `json:"default_tax_rate,omitempty"`
	DefaultWithholdingRate *decimal.Decimal `json:"default_withholding_rate,omitempty"`
	Active                 *bool            `json:"active,omitempty"` // vacío = true
}

// UpdateCatalogItemRequest body para PATCH /api/catalog/:id.
type UpdateCatalogItemRequest struct {
	Name                   *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description            *string          `json:"description,omitempty"`
	DefaultUnitPrice       *decimal.Decimal `json:"default_unit_price,omitempty"`
	DefaultTaxRate         *decimal.Decimal `json:"default_tax_rate,omitempty"`
	DefaultWithholdingRate *decimal.Decimal `json:"default_withholding_rate,omitempty"`
	Active                 *bool            `json:"active,omitempty"`
}

// ListCatalogQuery filtros de GET /api/catalog.
type ListCatalogQuery struct {
	Inactive bool `query:"inactive"` // inactive=1 incluye los desactivados
	Limit    int  `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int  `query:"offset" validate:"omitempty,min=0"`
}

// Page paginación con valores por defecto.
func (q ListCatalogQuery) Page() PageRequest {
	p := PageRequest{Limit: q.Limit, Offset: q.Offset}
	p.DefaultPage()
	return p
}

// CatalogItemResponse concepto del catálogo.
type CatalogItemResponse struct {
	ID                     string          `json:"id"`
	Name                   string          `json:"name"`
	Description            string          `json:"description,omitempty"`
	DefaultUnitPrice       decimal.Decimal `json:"default_unit_price"`
	DefaultTaxRate         decimal.Decimal `json:"default_tax_rate"`
	DefaultWithholdingRate decimal.Decimal `json:"default_withholding_rate"`
	Active                 bool            `json:"active"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// CatalogListResponse página del catálogo.
type CatalogListResponse struct {
	Items []CatalogItemResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
