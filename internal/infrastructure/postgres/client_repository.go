package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación del puerto ClientRepository sobre PostgreSQL (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, business_id, name, tax_id, address, city, postal_code, province,
	email, phone, notes, created_at, updated_at`

// Create persiste un cliente. Un NIF repetido en la empresa devuelve domain.ErrDuplicate.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.BusinessID, c.Name, c.TaxID, c.Address, c.City, c.PostalCode, c.Province,
		c.Email, c.Phone, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert client", err)
	}
	return nil
}

// GetByID cliente por ID; (nil, nil) si no existe.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return r.getOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
}

// GetByBusinessAndTaxID cliente de la empresa con ese NIF; (nil, nil) si no existe.
func (r *ClientRepo) GetByBusinessAndTaxID(ctx context.Context, businessID, taxID string) (*entity.Client, error) {
	return r.getOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE business_id = $1 AND tax_id = $2`, businessID, taxID)
}

// ListByBusiness clientes por nombre. search busca en nombre, NIF y email (ILIKE).
func (r *ClientRepo) ListByBusiness(ctx context.Context, businessID, search string, limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE business_id = $1`
	args := []any{businessID}
	if search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%[1]d OR tax_id ILIKE $%[1]d OR email ILIKE $%[1]d)`, len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY name, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update reescribe los datos del cliente. domain.ErrNotFound si no existe.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	const query = `
		UPDATE clients
		SET name = $2, tax_id = $3, address = $4, city = $5, postal_code = $6, province = $7,
		    email = $8, phone = $9, notes = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.TaxID, c.Address, c.City, c.PostalCode, c.Province,
		c.Email, c.Phone, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("update client", err)
	}
	return requireAffected(tag)
}

// Delete borra el cliente. Con facturas asociadas devuelve domain.ErrConflict.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return wrapWrite("delete client", err)
	}
	return requireAffected(tag)
}

func (r *ClientRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func scanClient(row rowScanner) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(
		&c.ID, &c.BusinessID, &c.Name, &c.TaxID, &c.Address, &c.City, &c.PostalCode, &c.Province,
		&c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan client: %w", err)
	}
	return &c, nil
}
