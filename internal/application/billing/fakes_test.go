package billing_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autonomo-api/internal/application/billing"
	"github.com/jhoicas/autonomo-api/internal/domain"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/domain/repository"
	domfiscal "github.com/jhoicas/autonomo-api/internal/domain/fiscal"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// memDB almacén en memoria; las entidades se guardan por valor para que los tests
// vean solo lo que se persiste.
type memDB struct {
	mu        sync.Mutex
	invoices  map[string]entity.Invoice
	payments  map[string]entity.Payment
	numbering map[string]entity.InvoiceNumbering // por business_id
	expenses  map[string]entity.Expense
	incomes   map[string]entity.Income
	clients   map[string]entity.Client
	catalog   map[string]entity.CatalogItem
	failNext  error // lo devuelve el próximo Invoices.Create
}

func newMemDB() *memDB {
	return &memDB{
		invoices:  map[string]entity.Invoice{},
		payments:  map[string]entity.Payment{},
		numbering: map[string]entity.InvoiceNumbering{},
		expenses:  map[string]entity.Expense{},
		incomes:   map[string]entity.Income{},
		clients: map[string]entity.Client{
			testClient.ID:  testClient,
			otherClient.ID: otherClient,
		},
		catalog: map[string]entity.CatalogItem{},
	}
}

func (db *memDB) stores() billing.Stores {
	return billing.Stores{
		Invoices:  &memInvoices{db},
		Payments:  &memPayments{db},
		Numbering: &memNumbering{db},
		Expenses:  &memExpenses{db},
		Incomes:   &memIncomes{db},
		Clients:   &memClients{db},
		Catalog:   &memCatalog{db},
	}
}

// RunBilling restaura el estado si fn falla.
func (db *memDB) RunBilling(ctx context.Context, fn func(s billing.Stores) error) error {
	db.mu.Lock()
	inv, pay, num := clone(db.invoices), clone(db.payments), clone(db.numbering)
	db.mu.Unlock()
	if err := fn(db.stores()); err != nil {
		db.mu.Lock()
		db.invoices, db.payments, db.numbering = inv, pay, num
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

type memInvoices struct{ db *memDB }

func (r *memInvoices) Create(ctx context.Context, inv *entity.Invoice) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.failNext; err != nil {
		r.db.failNext = nil
		return err
	}
	for _, existing := range r.db.invoices {
		if existing.BusinessID == inv.BusinessID && existing.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	r.db.invoices[inv.ID] = *inv
	return nil
}

func (r *memInvoices) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	inv, ok := r.db.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *memInvoices) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *memInvoices) ListByBusiness(ctx context.Context, businessID string, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.db.invoices {
		switch {
		case inv.BusinessID != businessID:
		case f.Status != "" && inv.Status != f.Status:
		case f.From != nil && inv.IssueDate.Before(*f.From):
		case f.To != nil && inv.IssueDate.After(*f.To):
		default:
			inv := inv
			out = append(out, &inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].Number > out[j].Number
		}
		return out[i].IssueDate.After(out[j].IssueDate)
	})
	return out, nil
}

func (r *memInvoices) UpdateStatus(ctx context.Context, id string, status entity.InvoiceStatus, updatedAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	inv, ok := r.db.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = updatedAt
	r.db.invoices[id] = inv
	return nil
}

// Update reemplaza cabecera y líneas; número y estado no se tocan.
func (r *memInvoices) Update(ctx context.Context, inv *entity.Invoice) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Currency, cur.IssueDate, cur.DueDate = inv.Currency, inv.IssueDate, inv.DueDate
	cur.ClientID, cur.ClientName, cur.ClientTaxID = inv.ClientID, inv.ClientName, inv.ClientTaxID
	cur.Notes, cur.Lines, cur.UpdatedAt = inv.Notes, inv.Lines, inv.UpdatedAt
	r.db.invoices[inv.ID] = cur
	return nil
}

type memPayments struct{ db *memDB }

func (r *memPayments) Create(ctx context.Context, p *entity.Payment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.payments[p.ID] = *p
	return nil
}

func (r *memPayments) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memPayments) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.payments, id)
	return nil
}

func (r *memPayments) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.db.payments {
		if p.InvoiceID == invoiceID {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memPayments) TotalByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	list, _ := r.ListByInvoice(ctx, invoiceID)
	total := decimal.Zero
	for _, p := range list {
		total = total.Add(p.Amount)
	}
	return total, nil
}

type memNumbering struct{ db *memDB }

func (r *memNumbering) GetForUpdate(ctx context.Context, businessID string) (*entity.InvoiceNumbering, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n, ok := r.db.numbering[businessID]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (r *memNumbering) Create(ctx context.Context, n *entity.InvoiceNumbering) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.numbering[n.BusinessID] = *n
	return nil
}

func (r *memNumbering) Update(ctx context.Context, n *entity.InvoiceNumbering) error {
	return r.Create(ctx, n)
}

type memExpenses struct{ db *memDB }

func (r *memExpenses) Create(ctx context.Context, e *entity.Expense) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.expenses[e.ID] = *e
	return nil
}

func (r *memExpenses) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *memExpenses) ListByBusiness(ctx context.Context, businessID string, from, to time.Time) ([]*entity.Expense, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Expense
	for _, e := range r.db.expenses {
		if e.BusinessID == businessID && !e.Date.Before(from) && !e.Date.After(to) {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memExpenses) ListByQuarter(ctx context.Context, quarterID string) ([]*entity.Expense, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Expense
	for _, e := range r.db.expenses {
		if e.QuarterID == quarterID {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *memExpenses) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.expenses, id)
	return nil
}

type memIncomes struct{ db *memDB }

func (r *memIncomes) Create(ctx context.Context, i *entity.Income) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.incomes[i.ID] = *i
	return nil
}

func (r *memIncomes) GetByID(ctx context.Context, id string) (*entity.Income, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	i, ok := r.db.incomes[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (r *memIncomes) ListByQuarter(ctx context.Context, quarterID string) ([]*entity.Income, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Income
	for _, i := range r.db.incomes {
		if i.QuarterID == quarterID {
			i := i
			out = append(out, &i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date.Before(out[b].Date) })
	return out, nil
}

func (r *memIncomes) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.incomes, id)
	return nil
}

type memClients struct{ db *memDB }

func (r *memClients) Create(ctx context.Context, c *entity.Client) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.clients[c.ID] = *c
	return nil
}

func (r *memClients) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memClients) GetByBusinessAndTaxID(ctx context.Context, businessID, taxID string) (*entity.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.clients {
		if c.BusinessID == businessID && c.TaxID == taxID {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memClients) ListByBusiness(ctx context.Context, businessID, search string, limit, offset int) ([]*entity.Client, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	search = strings.ToLower(search)
	var out []*entity.Client
	for _, c := range r.db.clients {
		if c.BusinessID != businessID {
			continue
		}
		hay := strings.ToLower(c.Name + " " + c.TaxID + " " + c.Email)
		if search != "" && !strings.Contains(hay, search) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *memClients) Update(ctx context.Context, c *entity.Client) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.db.clients[c.ID] = *c
	return nil
}

// Delete falla con domain.ErrConflict si alguna factura apunta al cliente, como la FK.
func (r *memClients) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, inv := range r.db.invoices {
		if inv.ClientID == id {
			return domain.ErrConflict
		}
	}
	delete(r.db.clients, id)
	return nil
}

type memCatalog struct{ db *memDB }

func (r *memCatalog) Create(ctx context.Context, item *entity.CatalogItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.catalog[item.ID] = *item
	return nil
}

func (r *memCatalog) GetByID(ctx context.Context, id string) (*entity.CatalogItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	item, ok := r.db.catalog[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *memCatalog) ListByBusiness(ctx context.Context, businessID string, includeInactive bool, limit, offset int) ([]*entity.CatalogItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.CatalogItem
	for _, item := range r.db.catalog {
		if item.BusinessID == businessID && (item.Active || includeInactive) {
			item := item
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *memCatalog) Update(ctx context.Context, item *entity.CatalogItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.catalog[item.ID]; !ok {
		return domain.ErrNotFound
	}
	r.db.catalog[item.ID] = *item
	return nil
}

func (r *memCatalog) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.catalog[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.catalog, id)
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list
}

// memBusinesses empresas por ID.
type memBusinesses map[string]*entity.Business

func (m memBusinesses) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	return m[id], nil
}

// memQuarters años con trimestres creados: year -> trimestres existentes.
type memQuarters map[int][]int

func (m memQuarters) ResolveQuarter(ctx context.Context, businessID string, year, number int) (*entity.FiscalYear, *entity.Quarter, error) {
	if !domfiscal.ValidQuarter(number) {
		return nil, nil, domain.ErrInvalidInput
	}
	for _, n := range m[year] {
		if n == number {
			fy := &entity.FiscalYear{ID: "fy", BusinessID: businessID, Year: year}
			return fy, &entity.Quarter{ID: quarterID(year, number), FiscalYearID: fy.ID, Number: number}, nil
		}
	}
	return nil, nil, domain.ErrNotFound
}

func quarterID(year, number int) string {
	return fmt.Sprintf("q-%d-%d", year, number)
}

const (
	testBusiness = "biz-1"
	otherBiz     = "biz-2"
)

var testToday = time.Date(2026, time.April, 20, 10, 30, 0, 0, time.UTC)

var (
	testClient  = entity.Client{ID: "cli-1", BusinessID: testBusiness, Name: "Cliente SL", TaxID: "B12345678"}
	otherClient = entity.Client{ID: "cli-2", BusinessID: otherBiz, Name: "Other Inc"}
)

type fixture struct {
	db       *memDB
	invoices *billing.InvoiceUseCase
	expenses *billing.ExpenseUseCase
	incomes  *billing.IncomeUseCase
	clients  *billing.ClientUseCase
	catalog  *billing.CatalogUseCase
}

func newFixture(quarterLedger bool) *fixture {
	db := newMemDB()
	businesses := memBusinesses{
		testBusiness: {ID: testBusiness, Name: "Ana Autónoma", LegalText: "Inscrita en el RETA"},
		otherBiz:     {ID: otherBiz, Name: "Otra", DefaultCurrency: "USD"},
	}
	quarters := memQuarters{2026: {1, 2, 3, 4}}
	return &fixture{
		db:       db,
		invoices: billing.NewInvoiceUseCase(db.stores(), db, businesses, "", logger.Nop()).WithClock(func() time.Time { return testToday }),
		expenses: billing.NewExpenseUseCase(db.stores(), quarters, quarterLedger, logger.Nop()),
		incomes:  billing.NewIncomeUseCase(db.stores(), quarters, logger.Nop()),
		clients:  billing.NewClientUseCase(db.stores().Clients, logger.Nop()).WithClock(func() time.Time { return testToday }),
		catalog:  billing.NewCatalogUseCase(db.stores().Catalog, logger.Nop()).WithClock(func() time.Time { return testToday }),
	}
}
