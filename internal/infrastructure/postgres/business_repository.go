package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación del puerto BusinessRepository sobre PostgreSQL.
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador. Pasar pool o tx.
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

// Create persiste una nueva empresa.
func (r *BusinessRepo) Create(ctx context.Context, b *entity.Business) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Country == "" {
		b.Country = "ES"
	}
	if b.DefaultCurrency == "" {
		b.DefaultCurrency = "EUR"
	}
	const query = `
		INSERT INTO businesses (id, name, tax_id, address, city, postal_code, province, country,
		                        email, phone, default_currency, legal_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.Name, b.TaxID, b.Address, b.City, b.PostalCode, b.Province, b.Country,
		b.Email, b.Phone, b.DefaultCurrency, b.LegalText, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert business", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID; (nil, nil) si no existe.
func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	const query = `
		SELECT id, name, tax_id, address, city, postal_code, province, country,
		       email, phone, default_currency, legal_text, created_at, updated_at
		FROM businesses WHERE id = $1`
	var b entity.Business
	err := r.q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.TaxID, &b.Address, &b.City, &b.PostalCode, &b.Province, &b.Country,
		&b.Email, &b.Phone, &b.DefaultCurrency, &b.LegalText, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

// Update reescribe el perfil completo. domain.ErrNotFound si la empresa no existe.
func (r *BusinessRepo) Update(ctx context.Context, b *entity.Business) error {
	const query = `
		UPDATE businesses
		SET name = $2, tax_id = $3, address = $4, city = $5, postal_code = $6, province = $7,
		    country = $8, email = $9, phone = $10, default_currency = $11, legal_text = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		b.ID, b.Name, b.TaxID, b.Address, b.City, b.PostalCode, b.Province,
		b.Country, b.Email, b.Phone, b.DefaultCurrency, b.LegalText, b.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("update business", err)
	}
	return requireAffected(tag)
}
