package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valores por defecto de un concepto del catálogo.
var (
	DefaultCatalogTaxRate         = VATGeneral.Rate()
	DefaultCatalogWithholdingRate = decimal.Zero
)

// CatalogItem concepto facturable habitual (servicio o producto) con sus
// importes por defecto. Los inactivos no se ofrecen al facturar.
type CatalogItem struct {
	ID                     string
	BusinessID             string
	Name                   string
	Description            string
	DefaultUnitPrice       decimal.Decimal
	DefaultTaxRate         decimal.Decimal
	DefaultWithholdingRate decimal.Decimal
	Active                 bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
