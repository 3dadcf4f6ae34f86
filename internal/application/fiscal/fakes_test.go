package fiscal_test

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autonomo-api/internal/application/fiscal"
	"github.com/jhoicas/autonomo-api/internal/domain"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// memDB base de datos en memoria. Los repos devuelven copias, como haría postgres.
type memDB struct {
	mu       sync.Mutex
	seq      int
	years    map[string]entity.FiscalYear
	quarters map[string]entity.Quarter
	results  map[string]entity.QuarterlyResult // por quarter_id
}

func newMemDB() *memDB {
	return &memDB{
		years:    map[string]entity.FiscalYear{},
		quarters: map[string]entity.Quarter{},
		results:  map[string]entity.QuarterlyResult{},
	}
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%d", prefix, db.seq)
}

func (db *memDB) stores() fiscal.Stores {
	return fiscal.Stores{
		FiscalYears: &memYears{db},
		Quarters:    &memQuarters{db},
		Results:     &memResults{db},
	}
}

// RunFiscal simula la transacción: si fn falla se restaura el estado anterior.
func (db *memDB) RunFiscal(ctx context.Context, fn func(s fiscal.Stores) error) error {
	db.mu.Lock()
	years, quarters, results := clone(db.years), clone(db.quarters), clone(db.results)
	db.mu.Unlock()

	if err := fn(db.stores()); err != nil {
		db.mu.Lock()
		db.years, db.quarters, db.results = years, quarters, results
		db.mu.Unlock()
		return err
	}
	return nil
}

func clone[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// quarter devuelve el trimestre guardado por año y número.
func (db *memDB) quarter(year, number int) entity.Quarter {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, fy := range db.years {
		if fy.Year != year {
			continue
		}
		for _, q := range db.quarters {
			if q.FiscalYearID == fy.ID && q.Number == number {
				return q
			}
		}
	}
	return entity.Quarter{}
}

func (db *memDB) deleteQuarter(year, number int) {
	q := db.quarter(year, number)
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.quarters, q.ID)
}

type memYears struct{ db *memDB }

func (r *memYears) Create(ctx context.Context, fy *entity.FiscalYear) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.years {
		if existing.BusinessID == fy.BusinessID && existing.Year == fy.Year {
			return domain.ErrDuplicate
		}
	}
	if fy.ID == "" {
		fy.ID = r.db.nextID("fy")
	}
	r.db.years[fy.ID] = *fy
	return nil
}

func (r *memYears) GetByID(ctx context.Context, id string) (*entity.FiscalYear, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	fy, ok := r.db.years[id]
	if !ok {
		return nil, nil
	}
	return &fy, nil
}

func (r *memYears) GetByBusinessAndYear(ctx context.Context, businessID string, year int) (*entity.FiscalYear, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, fy := range r.db.years {
		if fy.BusinessID == businessID && fy.Year == year {
			return &fy, nil
		}
	}
	return nil, nil
}

func (r *memYears) GetForUpdate(ctx context.Context, id string) (*entity.FiscalYear, error) {
	return r.GetByID(ctx, id)
}

func (r *memYears) ListByBusiness(ctx context.Context, businessID string) ([]*entity.FiscalYear, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.FiscalYear
	for _, fy := range r.db.years {
		if fy.BusinessID == businessID {
			fy := fy
			out = append(out, &fy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out, nil
}

func (r *memYears) Update(ctx context.Context, fy *entity.FiscalYear) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.years[fy.ID] = *fy
	return nil
}

type memQuarters struct{ db *memDB }

func (r *memQuarters) Create(ctx context.Context, q *entity.Quarter) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if q.ID == "" {
		q.ID = r.db.nextID("q")
	}
	r.db.quarters[q.ID] = *q
	return nil
}

func (r *memQuarters) GetByID(ctx context.Context, id string) (*entity.Quarter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q, ok := r.db.quarters[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (r *memQuarters) GetByYearAndNumber(ctx context.Context, fiscalYearID string, number int) (*entity.Quarter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, q := range r.db.quarters {
		if q.FiscalYearID == fiscalYearID && q.Number == number {
			return &q, nil
		}
	}
	return nil, nil
}

func (r *memQuarters) GetForUpdate(ctx context.Context, id string) (*entity.Quarter, error) {
	return r.GetByID(ctx, id)
}

func (r *memQuarters) ListByFiscalYear(ctx context.Context, fiscalYearID string) ([]*entity.Quarter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Quarter
	for _, q := range r.db.quarters {
		if q.FiscalYearID == fiscalYearID {
			q := q
			out = append(out, &q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *memQuarters) Update(ctx context.Context, q *entity.Quarter) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.quarters[q.ID] = *q
	return nil
}

type memResults struct{ db *memDB }

func (r *memResults) GetByQuarter(ctx context.Context, quarterID string) (*entity.QuarterlyResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	res, ok := r.db.results[quarterID]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (r *memResults) Upsert(ctx context.Context, res *entity.QuarterlyResult) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if res.ID == "" {
		res.ID = r.db.nextID("r")
	}
	r.db.results[res.QuarterID] = *res
	return nil
}

func (r *memResults) ListByFiscalYear(ctx context.Context, fiscalYearID string) (map[int]*entity.QuarterlyResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make(map[int]*entity.QuarterlyResult)
	for _, q := range r.db.quarters {
		if q.FiscalYearID != fiscalYearID {
			continue
		}
		if res, ok := r.db.results[q.ID]; ok {
			res := res
			out[q.Number] = &res
		}
	}
	return out, nil
}

// memSource registros por (año, trimestre).
type memSource struct {
	revenue  map[[2]int][]entity.RevenueLine
	expenses map[[2]int][]entity.Expense
	err      error
}

func newMemSource() *memSource {
	return &memSource{
		revenue:  map[[2]int][]entity.RevenueLine{},
		expenses: map[[2]int][]entity.Expense{},
	}
}

func (s *memSource) RevenueLines(ctx context.Context, fy *entity.FiscalYear, q *entity.Quarter) ([]entity.RevenueLine, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.revenue[[2]int{fy.Year, q.Number}], nil
}

func (s *memSource) Expenses(ctx context.Context, fy *entity.FiscalYear, q *entity.Quarter) ([]entity.Expense, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.expenses[[2]int{fy.Year, q.Number}], nil
}

// addSale registra una venta enviada (base, tipo de IVA, retención) en el trimestre.
func (s *memSource) addSale(year, quarter int, base string, vatRate, withholdingRate int64) {
	line := entity.NewInvoiceLine("Servicio", decimal.NewFromInt(1), decimal.RequireFromString(base), decimal.Zero,
		decimal.NewFromInt(vatRate), decimal.NewFromInt(withholdingRate), 0)
	inv := &entity.Invoice{IssueDate: time.Date(year, time.Month(3*quarter-1), 15, 0, 0, 0, 0, time.UTC), Status: entity.InvoiceStatusSent}
	key := [2]int{year, quarter}
	s.revenue[key] = append(s.revenue[key], line.Revenue(inv))
}

// addExpense registra un gasto deducible en IVA e IRPF.
func (s *memSource) addExpense(year, quarter int, base string, vat entity.VATType) {
	e := entity.Expense{
		Date:           time.Date(year, time.Month(3*quarter-1), 10, 0, 0, 0, 0, time.UTC),
		TaxableBase:    decimal.RequireFromString(base),
		VATType:        vat,
		Category:       entity.ExpenseOther,
		VATDeductible:  true,
		IRPFDeductible: true,
	}
	e.DeriveAmounts()
	key := [2]int{year, quarter}
	s.expenses[key] = append(s.expenses[key], e)
}

const testBusiness = "biz-1"

var testToday = time.Date(2026, time.April, 20, 10, 30, 0, 0, time.UTC)

type fixture struct {
	db     *memDB
	source *memSource
	uc     *fiscal.UseCase
	logs   *bytes.Buffer
}

func newFixture() *fixture {
	db := newMemDB()
	source := newMemSource()
	logs := &bytes.Buffer{}
	uc := fiscal.NewUseCase(db.stores(), db, source, logger.NewWriter(logs, "info")).
		WithClock(func() time.Time { return testToday })
	return &fixture{db: db, source: source, uc: uc, logs: logs}
}
