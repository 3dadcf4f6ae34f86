package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, business_id, number, series, status, currency, issue_date, due_date,
	client_id, client_name, client_tax_id, notes, legal_text, created_at, updated_at`

const lineColumns = `id, invoice_id, position, description, quantity, unit_price, discount_percent,
	tax_rate, withholding_rate, subtotal, tax_amount, withholding_amount`

// Create persiste la cabecera y las líneas. Llamar dentro de una tx para que sea atómico.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.BusinessID, inv.Number, inv.Series, inv.Status, inv.Currency, inv.IssueDate, inv.DueDate,
		nullIfEmpty(inv.ClientID), inv.ClientName, nullIfEmpty(inv.ClientTaxID), nullIfEmpty(inv.Notes), nullIfEmpty(inv.LegalText),
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert invoice", err)
	}
	for _, l := range inv.Lines {
		if err := r.createLine(ctx, inv.ID, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *InvoiceRepo) createLine(ctx context.Context, invoiceID string, l *entity.InvoiceLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.InvoiceID = invoiceID
	const query = `
		INSERT INTO invoice_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.InvoiceID, l.Position, l.Description, l.Quantity, l.UnitPrice, l.DiscountPercent,
		l.TaxRate, l.WithholdingRate, l.Subtotal, l.TaxAmount, l.WithholdingAmount,
	)
	if err != nil {
		return wrapWrite("insert invoice line", err)
	}
	return nil
}

// GetByID factura con sus líneas, o (nil, nil).
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getWithLines(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate como GetByID con la cabecera bloqueada hasta el fin de la transacción.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getWithLines(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

// ListByBusiness facturas con sus líneas, ordenadas por fecha de emisión descendente.
func (r *InvoiceRepo) ListByBusiness(ctx context.Context, businessID string, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	where := []string{"business_id = $1"}
	args := []any{businessID}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, dateOnly(*f.From))
		where = append(where, fmt.Sprintf("issue_date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, dateOnly(*f.To))
		where = append(where, fmt.Sprintf("issue_date <= $%d", len(args)))
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY issue_date DESC, number DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		list = append(list, inv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	// las líneas se leen con las filas ya cerradas: dentro de una tx solo cabe una consulta abierta
	for _, inv := range list {
		if inv.Lines, err = r.lines(ctx, inv.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id string, status entity.InvoiceStatus, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return requireAffected(tag)
}

// Update reescribe la cabecera editable y sustituye las líneas. Llamar dentro de una tx.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	const query = `
		UPDATE invoices
		SET currency = $2, issue_date = $3, due_date = $4, client_id = $5, client_name = $6,
		    client_tax_id = $7, notes = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.Currency, inv.IssueDate, inv.DueDate, nullIfEmpty(inv.ClientID), inv.ClientName,
		nullIfEmpty(inv.ClientTaxID), nullIfEmpty(inv.Notes), inv.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("update invoice", err)
	}
	if err := requireAffected(tag); err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, inv.ID); err != nil {
		return fmt.Errorf("delete invoice lines: %w", err)
	}
	for _, l := range inv.Lines {
		if err := r.createLine(ctx, inv.ID, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *InvoiceRepo) getWithLines(ctx context.Context, query string, args ...any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	if inv.Lines, err = r.lines(ctx, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InvoiceRepo) lines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	rows, err := r.q.Query(ctx, `SELECT `+lineColumns+` FROM invoice_lines WHERE invoice_id = $1 ORDER BY position`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(
			&l.ID, &l.InvoiceID, &l.Position, &l.Description, &l.Quantity, &l.UnitPrice, &l.DiscountPercent,
			&l.TaxRate, &l.WithholdingRate, &l.Subtotal, &l.TaxAmount, &l.WithholdingAmount,
		); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var clientID, taxID, notes, legal *string
	err := row.Scan(
		&inv.ID, &inv.BusinessID, &inv.Number, &inv.Series, &inv.Status, &inv.Currency, &inv.IssueDate, &inv.DueDate,
		&clientID, &inv.ClientName, &taxID, &notes, &legal, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	inv.ClientID = derefStr(clientID)
	inv.ClientTaxID = derefStr(taxID)
	inv.Notes = derefStr(notes)
	inv.LegalText = derefStr(legal)
	return &inv, nil
}
