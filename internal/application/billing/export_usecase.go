package billing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
)

const csvDateLayout = "02/01/2006"

var invoiceCSVHeader = []string{
	"Número", "Cliente", "NIF/CIF Cliente", "Fecha emisión", "Fecha vencimiento", "Estado",
	"Base imponible", "IVA", "Retención IRPF", "Total", "Moneda",
}

// ExportCSV escribe en w las facturas de la empresa en CSV para hojas de cálculo en español:
// separador ';', BOM UTF-8, fechas dd/mm/aaaa y coma decimal. Filtra por estado si se indica.
func (uc *InvoiceUseCase) ExportCSV(ctx context.Context, businessID string, q dto.ListInvoicesQuery, w io.Writer) error {
	filter, err := parseFilter(q)
	if err != nil {
		return err
	}
	invoices, err := uc.stores.Invoices.ListByBusiness(ctx, businessID, filter)
	if err != nil {
		return err
	}

	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bom)
	cw.Comma = ';'
	if err := cw.Write(invoiceCSVHeader); err != nil {
		return fmt.Errorf("csv: cabecera: %w", err)
	}
	for _, inv := range invoices {
		due := ""
		if inv.DueDate != nil {
			due = inv.DueDate.Format(csvDateLayout)
		}
		row := []string{
			inv.Number,
			inv.ClientName,
			inv.ClientTaxID,
			inv.IssueDate.Format(csvDateLayout),
			due,
			inv.Status.Label(),
			spanishAmount(inv.Subtotal()),
			spanishAmount(inv.TaxTotal()),
			spanishAmount(inv.WithholdingTotal()),
			spanishAmount(inv.Total()),
			inv.Currency,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: factura %s: %w", inv.Number, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	if err := bom.Close(); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	uc.log.ForBusiness(businessID).Debug().Int("rows", len(invoices)).Msg("facturas exportadas")
	return nil
}

// spanishAmount 1234.5 -> "1234,50".
func spanishAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
