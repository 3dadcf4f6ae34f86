package fiscal

import (
	"context"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
)

// RecordSource lee los ingresos y gastos que pertenecen a un trimestre.
// Hay dos implementaciones: por empresa (el trimestre se resuelve por rango de fechas)
// y por trimestre (los registros llevan el trimestre asignado).
type RecordSource interface {
	RevenueLines(ctx context.Context, fy *entity.FiscalYear, q *entity.Quarter) ([]entity.RevenueLine, error)
	Expenses(ctx context.Context, fy *entity.FiscalYear, q *entity.Quarter) ([]entity.Expense, error)
}

// Stores repositorios del ciclo fiscal. El TxRunner los entrega atados a la transacción.
type Stores struct {
	FiscalYears repository.FiscalYearRepository
	Quarters    repository.QuarterRepository
	Results     repository.QuarterlyResultRepository
}

// TxRunner ejecuta fn dentro de una transacción con repos fiscales atados a ella.
// Si fn devuelve error se hace rollback.
type TxRunner interface {
	RunFiscal(ctx context.Context, fn func(s Stores) error) error
}
