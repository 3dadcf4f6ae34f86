package billing

import (
	"context"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

// Stores repositorios de facturación y registros. El TxRunner los entrega atados a la transacción.
type Stores struct {
	Invoices  repository.InvoiceRepository
	Payments  repository.PaymentRepository
	Numbering repository.NumberingRepository
	Expenses  repository.ExpenseRepository
	Incomes   repository.IncomeRepository
	Clients   repository.ClientRepository
	Catalog   repository.CatalogRepository
}

// BillingTxRunner ejecuta fn dentro de una transacción con los repos de facturación.
// Si fn devuelve error se hace rollback (la numeración no avanza).
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(s Stores) error) error
}

// QuarterResolver localiza un trimestre existente del año fiscal de la empresa.
// Devuelve domain.ErrNotFound si el año o el trimestre no existen.
type QuarterResolver interface {
	ResolveQuarter(ctx context.Context, businessID string, year, number int) (*entity.FiscalYear, *entity.Quarter, error)
}

// BusinessReader lee el perfil de la empresa emisora (moneda por defecto, texto legal).
type BusinessReader interface {
	GetByID(ctx context.Context, id string) (*entity.Business, error)
}
