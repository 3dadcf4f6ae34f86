package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/autonomo-api/internal/application/billing"
	"github.com/jhoicas/autonomo-api/internal/application/fiscal"
)

var (
	_ fiscal.TxRunner         = (*TxRunner)(nil)
	_ billing.BillingTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunFiscal entrega a fn los repos del ciclo fiscal atados a la tx.
// Los GetForUpdate de fn mantienen el bloqueo hasta el Commit o Rollback.
func (r *TxRunner) RunFiscal(ctx context.Context, fn func(s fiscal.Stores) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(FiscalStores(tx))
	})
}

// RunBilling entrega a fn los repos de facturación atados a la tx.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(s billing.Stores) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(BillingStores(tx))
	})
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// FiscalStores repos fiscales sobre q (pool o tx).
func FiscalStores(q Querier) fiscal.Stores {
	return fiscal.Stores{
		FiscalYears: NewFiscalYearRepository(q),
		Quarters:    NewQuarterRepository(q),
		Results:     NewQuarterlyResultRepository(q),
	}
}

// BillingStores repos de facturación y registros sobre q (pool o tx).
func BillingStores(q Querier) billing.Stores {
	return billing.Stores{
		Invoices:  NewInvoiceRepository(q),
		Payments:  NewPaymentRepository(q),
		Numbering: NewNumberingRepository(q),
		Expenses:  NewExpenseRepository(q),
		Incomes:   NewIncomeRepository(q),
		Clients:   NewClientRepository(q),
		Catalog:   NewCatalogRepository(q),
	}
}
