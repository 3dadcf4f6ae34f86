package entity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/autonomo-api/internal/domain"
)

// Business representa un perfil de empresa o autónomo que emite facturas.
type Business struct {
	ID              string
	Name            string
	TaxID           string // NIF/CIF
	Address         string
	City            string
	PostalCode      string
	Province        string
	Country         string // ISO 3166-1 alfa-2, "ES" por defecto
	Email           string
	Phone           string
	DefaultCurrency string
	LegalText       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DefaultSeriesPrefix prefijo de serie cuando la empresa aún no tiene numeración configurada.
const DefaultSeriesPrefix = "F"

// DefaultNumberPattern patrón de número de factura por defecto, p. ej. F-2026-00001.
const DefaultNumberPattern = "{prefix}-{year}-{number:05d}"

// MaxNumberPatternLen longitud máxima de un patrón de numeración.
const MaxNumberPatternLen = 100

var (
	placeholderRe = regexp.MustCompile(`\{[^{}]*\}`)
	numberRe      = regexp.MustCompile(`^\{number(?::0([1-9])d)?\}$`)
)

// InvoiceNumbering contador de numeración de facturas de una empresa.
// Pattern admite {prefix}, {year} y {number}, este último con relleno opcional
// de ceros ({number:05d}).
type InvoiceNumbering struct {
	ID           string
	BusinessID   string
	SeriesPrefix string
	Pattern      string
	NextNumber   int
}

// Format devuelve el número de factura correspondiente a NextNumber para el año indicado.
func (n *InvoiceNumbering) Format(year int) string {
	prefix := n.SeriesPrefix
	if prefix == "" {
		prefix = DefaultSeriesPrefix
	}
	pattern := n.Pattern
	if pattern == "" {
		pattern = DefaultNumberPattern
	}
	return placeholderRe.ReplaceAllStringFunc(pattern, func(ph string) string {
		switch ph {
		case "{prefix}":
			return prefix
		case "{year}":
			return strconv.Itoa(year)
		}
		m := numberRe.FindStringSubmatch(ph)
		if m == nil {
			return ph
		}
		if m[1] == "" {
			return strconv.Itoa(n.NextNumber)
		}
		return fmt.Sprintf("%0*d", int(m[1][0]-'0'), n.NextNumber)
	})
}

// ValidateNumberPattern comprueba que el patrón solo use marcadores conocidos y
// contenga exactamente un {number}.
func ValidateNumberPattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" || len(pattern) > MaxNumberPatternLen {
		return fmt.Errorf("%w: patrón de numeración vacío o demasiado largo", domain.ErrInvalidInput)
	}
	numbers := 0
	for _, ph := range placeholderRe.FindAllString(pattern, -1) {
		switch {
		case ph == "{prefix}", ph == "{year}":
		case numberRe.MatchString(ph):
			numbers++
		default:
			return fmt.Errorf("%w: marcador %s desconocido", domain.ErrInvalidInput, ph)
		}
	}
	if numbers != 1 {
		return fmt.Errorf("%w: el patrón debe incluir {number} una vez", domain.ErrInvalidInput)
	}
	if strings.ContainsAny(placeholderRe.ReplaceAllString(pattern, ""), "{}") {
		return fmt.Errorf("%w: llaves sin cerrar en el patrón", domain.ErrInvalidInput)
	}
	return nil
}
