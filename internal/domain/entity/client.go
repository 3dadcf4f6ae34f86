package entity

import (
	"strings"
	"time"
)

// Client cliente al que la empresa factura. Las facturas guardan una copia
// del nombre y el NIF en el momento de emitirse.
type Client struct {
	ID         string
	BusinessID string
	Name       string
	TaxID      string // NIF/CIF
	Address    string
	City       string
	PostalCode string
	Province   string
	Email      string
	Phone      string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NormalizeTaxID NIF/CIF sin espacios y en mayúsculas.
func NormalizeTaxID(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}
