package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/internal/domain"
	domfiscal "github.com/jhoicas/autonomo-api/internal/domain/fiscal"
	apphttp "github.com/jhoicas/autonomo-api/internal/interfaces/http"
	"github.com/jhoicas/autonomo-api/pkg/config"
	pkgjwt "github.com/jhoicas/autonomo-api/pkg/jwt"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// stubFiscal devuelve err en todas las operaciones, recuerda la última llamada
// y cuenta cuántas ha recibido.
type stubFiscal struct {
	err        error
	businessID string
	year, n    int
	refs       []dto.QuarterRef
	calls      int
}

func (s *stubFiscal) seen(businessID string, year, n int) {
	s.businessID, s.year, s.n = businessID, year, n
	s.calls++
}

func (s *stubFiscal) CreateFiscalYear(ctx context.Context, businessID string, in dto.CreateFiscalYearRequest) (*dto.FiscalYearResponse, error) {
	s.seen(businessID, in.Year, 0)
	if s.err != nil {
		return nil, s.err
	}
	return &dto.FiscalYearResponse{Year: in.Year, BusinessID: businessID, State: "open", QuartersTotal: 4}, nil
}

func (s *stubFiscal) EnsureQuarters(ctx context.Context, businessID string, year int) ([]dto.QuarterResponse, error) {
	s.seen(businessID, year, 0)
	return []dto.QuarterResponse{}, s.err
}

func (s *stubFiscal) ListFiscalYears(ctx context.Context, businessID string) ([]dto.FiscalYearResponse, error) {
	s.seen(businessID, 0, 0)
	return []dto.FiscalYearResponse{}, s.err
}

func (s *stubFiscal) GetFiscalYear(ctx context.Context, businessID string, year int) (*dto.FiscalYearDetailResponse, error) {
	s.seen(businessID, year, 0)
	return &dto.FiscalYearDetailResponse{}, s.err
}

func (s *stubFiscal) QuarterDetail(ctx context.Context, businessID string, year, number int) (*dto.QuarterDetailResponse, error) {
	s.seen(businessID, year, number)
	return &dto.QuarterDetailResponse{}, s.err
}

func (s *stubFiscal) ComputeModelo303(ctx context.Context, businessID string, year, number int) (*dto.Modelo303Response, error) {
	s.seen(businessID, year, number)
	return &dto.Modelo303Response{Year: year, Quarter: number}, s.err
}

func (s *stubFiscal) ComputeModelo130(ctx context.Context, businessID string, year, number int) (*dto.Modelo130Response, error) {
	s.seen(businessID, year, number)
	return &dto.Modelo130Response{Year: year, Quarter: number}, s.err
}

func (s *stubFiscal) ComputeModelo390(ctx context.Context, businessID string, year int) (*dto.Modelo390Response, error) {
	s.seen(businessID, year, 0)
	return &dto.Modelo390Response{Year: year}, s.err
}

func (s *stubFiscal) SaveQuarterResult(ctx context.Context, businessID string, year, number int, in dto.SaveQuarterResultRequest) (*dto.QuarterlyResultResponse, error) {
	s.seen(businessID, year, number)
	return &dto.QuarterlyResultResponse{}, s.err
}

func (s *stubFiscal) CloseQuarter(ctx context.Context, businessID string, year, number int) (*dto.QuarterResponse, error) {
	s.seen(businessID, year, number)
	if s.err != nil {
		return nil, s.err
	}
	return &dto.QuarterResponse{Number: number, State: "closed"}, nil
}

func (s *stubFiscal) CloseQuarters(ctx context.Context, businessID string, refs []dto.QuarterRef) *dto.BatchResponse {
	s.seen(businessID, 0, 0)
	s.refs = refs
	out := &dto.BatchResponse{}
	for _, r := range refs {
		out.Add(dto.BatchItemResult{Year: r.Year, Number: r.Number, Status: dto.BatchStatusSkipped, Reason: domfiscal.SkipMissingResult})
	}
	return out
}

func (s *stubFiscal) SaveQuarterResults(ctx context.Context, businessID string, refs []dto.QuarterRef) *dto.BatchResponse {
	s.seen(businessID, 0, 0)
	s.refs = refs
	out := &dto.BatchResponse{}
	for _, r := range refs {
		if r.Number == 4 {
			out.Add(dto.BatchItemResult{Year: r.Year, Number: r.Number, Status: dto.BatchStatusSkipped, Reason: domfiscal.SkipQuarterClosed})
			continue
		}
		out.Add(dto.BatchItemResult{Year: r.Year, Number: r.Number, Status: dto.BatchStatusSaved})
	}
	return out
}

func (s *stubFiscal) CloseFiscalYear(ctx context.Context, businessID string, year int) (*dto.FiscalYearResponse, error) {
	s.seen(businessID, year, 0)
	if s.err != nil {
		return nil, s.err
	}
	return &dto.FiscalYearResponse{Year: year, State: "closed"}, nil
}

func (s *stubFiscal) CloseFiscalYears(ctx context.Context, businessID string, years []int) *dto.BatchResponse {
	s.seen(businessID, 0, 0)
	out := &dto.BatchResponse{}
	for _, y := range years {
		out.Add(dto.BatchItemResult{Year: y, Status: dto.BatchStatusClosed})
	}
	return out
}

type stubInvoices struct {
	err     error
	csv     string
	query   dto.ListInvoicesQuery
	updated dto.UpdateInvoiceRequest
}

func (s *stubInvoices) CreateInvoice(ctx context.Context, businessID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	return &dto.InvoiceResponse{Number: "F-2026-00001", BusinessID: businessID}, s.err
}

func (s *stubInvoices) GetInvoice(ctx context.Context, businessID, id string) (*dto.InvoiceResponse, error) {
	return &dto.InvoiceResponse{ID: id}, s.err
}

func (s *stubInvoices) UpdateInvoice(ctx context.Context, businessID, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	s.updated = in
	if s.err != nil {
		return nil, s.err
	}
	return &dto.InvoiceResponse{ID: id, ClientID: in.ClientID, Status: "draft"}, nil
}

func (s *stubInvoices) ListInvoices(ctx context.Context, businessID string, q dto.ListInvoicesQuery) ([]dto.InvoiceResponse, error) {
	s.query = q
	return []dto.InvoiceResponse{}, s.err
}

func (s *stubInvoices) ChangeStatus(ctx context.Context, businessID, id string, in dto.ChangeInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	return &dto.InvoiceResponse{ID: id, Status: in.Status}, s.err
}

func (s *stubInvoices) RegisterPayment(ctx context.Context, businessID, invoiceID string, in dto.RegisterPaymentRequest) (*dto.InvoiceResponse, error) {
	return &dto.InvoiceResponse{ID: invoiceID}, s.err
}

func (s *stubInvoices) DeletePayment(ctx context.Context, businessID, invoiceID, paymentID string) (*dto.InvoiceResponse, error) {
	return &dto.InvoiceResponse{ID: invoiceID}, s.err
}

func (s *stubInvoices) ExportCSV(ctx context.Context, businessID string, q dto.ListInvoicesQuery, w io.Writer) error {
	s.query = q
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, s.csv)
	return err
}

// stubRecords implementa gastos e ingresos.
type stubRecords struct {
	err     error
	deleted string
}

func (s *stubRecords) CreateExpense(ctx context.Context, businessID string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	return &dto.ExpenseResponse{Concept: in.Concept}, s.err
}

func (s *stubRecords) ListExpenses(ctx context.Context, businessID string, q dto.ListExpensesQuery) ([]dto.ExpenseResponse, error) {
	return []dto.ExpenseResponse{}, s.err
}

func (s *stubRecords) DeleteExpense(ctx context.Context, businessID, id string) error {
	s.deleted = id
	return s.err
}

func (s *stubRecords) CreateIncome(ctx context.Context, businessID string, in dto.CreateIncomeRequest) (*dto.IncomeResponse, error) {
	return &dto.IncomeResponse{Concept: in.Concept}, s.err
}

func (s *stubRecords) ListIncomes(ctx context.Context, businessID string, year, number int) ([]dto.IncomeResponse, error) {
	return []dto.IncomeResponse{}, s.err
}

func (s *stubRecords) DeleteIncome(ctx context.Context, businessID, id string) error {
	s.deleted = id
	return s.err
}

// stubClients recuerda la última consulta y el último borrado.
type stubClients struct {
	err     error
	query   dto.ListClientsQuery
	deleted string
}

func (s *stubClients) Create(ctx context.Context, businessID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ClientResponse{ID: "cli-1", Name: in.Name}, nil
}

func (s *stubClients) GetByID(ctx context.Context, businessID, id string) (*dto.ClientResponse, error) {
	return &dto.ClientResponse{ID: id}, s.err
}

func (s *stubClients) List(ctx context.Context, businessID string, q dto.ListClientsQuery) (*dto.ClientListResponse, error) {
	s.query = q
	return &dto.ClientListResponse{Items: []dto.ClientResponse{}}, s.err
}

func (s *stubClients) Update(ctx context.Context, businessID, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	return &dto.ClientResponse{ID: id}, s.err
}

func (s *stubClients) Delete(ctx context.Context, businessID, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = id
	return nil
}

type stubCatalog struct {
	query dto.ListCatalogQuery
}

func (s *stubCatalog) Create(ctx context.Context, businessID string, in dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	return &dto.CatalogItemResponse{ID: "cat-1", Name: in.Name, Active: true}, nil
}

func (s *stubCatalog) GetByID(ctx context.Context, businessID, id string) (*dto.CatalogItemResponse, error) {
	return &dto.CatalogItemResponse{ID: id}, nil
}

func (s *stubCatalog) List(ctx context.Context, businessID string, q dto.ListCatalogQuery) (*dto.CatalogListResponse, error) {
	s.query = q
	return &dto.CatalogListResponse{Items: []dto.CatalogItemResponse{}}, nil
}

func (s *stubCatalog) Update(ctx context.Context, businessID, id string, in dto.UpdateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	return &dto.CatalogItemResponse{ID: id}, nil
}

func (s *stubCatalog) Delete(ctx context.Context, businessID, id string) error { return nil }

type stubDashboard struct{ businessID string }

func (s *stubDashboard) GetSummary(ctx context.Context, businessID string) (*dto.DashboardResponse, error) {
	s.businessID = businessID
	return &dto.DashboardResponse{MonthInvoiceCount: 3, DateLabel: "Abr 2026"}, nil
}

type stubBusiness struct {
	businessID string
	update     dto.UpdateBusinessRequest
}

func (s *stubBusiness) GetProfile(ctx context.Context, businessID string) (*dto.BusinessResponse, error) {
	s.businessID = businessID
	return &dto.BusinessResponse{ID: businessID, Name: "Ana Pérez", SeriesPrefix: "F", NextNumber: "F-2026-00001"}, nil
}

func (s *stubBusiness) UpdateProfile(ctx context.Context, businessID string, in dto.UpdateBusinessRequest) (*dto.BusinessResponse, error) {
	s.businessID = businessID
	s.update = in
	return &dto.BusinessResponse{ID: businessID}, nil
}

type stubDB struct{ err error }

func (s stubDB) Ping(ctx context.Context) error { return s.err }

type testAPI struct {
	app      *fiber.App
	business *stubBusiness
	fiscal   *stubFiscal
	invoices  *stubInvoices
	records   *stubRecords
	clients   *stubClients
	catalog   *stubCatalog
	dashboard *stubDashboard
	logs      *bytes.Buffer
}

func newTestAPI(mode string, db stubDB) *testAPI {
	api := &testAPI{
		app:      fiber.New(),
		business: &stubBusiness{},
		fiscal:   &stubFiscal{},
		invoices: &stubInvoices{},
		records:   &stubRecords{},
		clients:   &stubClients{},
		catalog:   &stubCatalog{},
		dashboard: &stubDashboard{},
		logs:      &bytes.Buffer{},
	}
	apphttp.Router(api.app, apphttp.RouterDeps{
		Business:   api.business,
		Fiscal:     api.fiscal,
		Invoices:   api.invoices,
		Clients:    api.clients,
		Catalog:    api.catalog,
		Dashboard:  api.dashboard,
		Expenses:   api.records,
		Incomes:    api.records,
		DB:         db,
		RecordMode: mode,
		JWTSecret:  testJWTSecret,
		AppName:    "autonomo-api",
		Log:        logger.NewWriter(api.logs, "info"),
	})
	return api
}

// do lanza la petición con un token del rol indicado ("" = sin token).
func (a *testAPI) do(t *testing.T, method, path, role, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	ok := newTestAPI(config.RecordModeBusinessLedger, stubDB{})
	resp := ok.do(t, http.MethodGet, "/health", "", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "no requiere token")

	down := newTestAPI(config.RecordModeBusinessLedger, stubDB{err: errors.New("sin conexión")})
	resp = down.do(t, http.MethodGet, "/health", "", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRouter_RequiereToken(t *testing.T) {
	api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})

	resp := api.do(t, http.MethodGet, "/api/fiscal-years", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decodeError(t, resp).Code)
}

func TestRouter_CrearAnioFiscal_UsaEmpresaDelToken(t *testing.T) {
	api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})

	resp := api.do(t, http.MethodPost, "/api/fiscal-years", pkgjwt.RoleOwner, `{"year":2026}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, testBusinessID, api.fiscal.businessID)
	assert.Equal(t, 2026, api.fiscal.year)
}

func TestRouter_LecturaNoPuedeEscribir(t *testing.T) {
	api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})

	resp := api.do(t, http.MethodGet, "/api/fiscal-years/2026/quarters/1", pkgjwt.RoleViewer, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "lectura permitida")
	require.Equal(t, 1, api.fiscal.calls)

	for _, path := range []string{
		"/api/fiscal-years/2026/quarters/1/close",
		"/api/fiscal-years/2026/quarters/1/result",
		"/api/quarters/close",
		"/api/quarters/result",
		"/api/fiscal-years/close",
	} {
		resp = api.do(t, http.MethodPost, path, pkgjwt.RoleViewer, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		resp.Body.Close()
	}
	assert.Equal(t, 1, api.fiscal.calls, "el caso de uso no se invoca")
}

func TestRouter_PrecondicionesDeCierre(t *testing.T) {
	cases := []struct {
		path string
		err  error
		code string
	}{
		{"/api/fiscal-years/2026/quarters/2/close", domfiscal.ErrQuarterWithoutResult, "MISSING_RESULT"},
		{"/api/fiscal-years/2026/quarters/2/close", domfiscal.ErrQuarterAlreadyClosed, "ALREADY_CLOSED"},
		{"/api/fiscal-years/2026/close", domfiscal.ErrMissingQuarters, "MISSING_QUARTERS"},
		{"/api/fiscal-years/2026/close", domfiscal.ErrOpenQuarters, "OPEN_QUARTERS"},
		{"/api/fiscal-years/2026/close", domfiscal.ErrFiscalYearAlreadyClosed, "ALREADY_CLOSED"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})
			api.fiscal.err = fmt.Errorf("cerrar: %w", tc.err)

			resp := api.do(t, http.MethodPost, tc.path, pkgjwt.RoleAccountant, "")

			assert.Equal(t, http.StatusConflict, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tc.code, body.Code)
			assert.Contains(t, body.Message, tc.err.Error())
		})
	}
}

func TestRouter_ErroresDeDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION"},
		{domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{errors.New("conexión perdida con 10.0.0.5"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})
			api.invoices.err = tc.err

			resp := api.do(t, http.MethodGet, "/api/invoices/inv-1", pkgjwt.RoleViewer, "")

			assert.Equal(t, tc.status, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tc.code, body.Code)
			if tc.status == http.StatusInternalServerError {
				assert.NotContains(t, body.Message, "10.0.0.5", "el detalle interno no se expone")
				assert.Contains(t, api.logs.String(), "10.0.0.5", "pero sí se registra")
				assert.Contains(t, api.logs.String(), `"business_id":"`+testBusinessID+`"`)
			}
		})
	}
}

func TestRouter_ParametrosDeRutaInvalidos(t *testing.T) {
	api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})

	for _, path := range []string{
		"/api/fiscal-years/2026/quarters/5",
		"/api/fiscal-years/2026/quarters/0/modelo-303",
		"/api/fiscal-years/abc",
		"/api/fiscal-years/1999/modelo-390",
	} {
		resp := api.do(t, http.MethodGet, path, pkgjwt.RoleOwner, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestRouter_ValidacionDelCuerpo(t *testing.T) {
	api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})

	resp := api.do(t, http.MethodPost, "/api/invoices", pkgjwt.RoleOwner, `{"client_id":"Cliente SL","lines":[]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	fields := make([]string, 0, len(body.Details))
	for _, d := range body.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"client_id", "lines"}, fields)

	resp = api.do(t, http.MethodPost, "/api/fiscal-years", pkgjwt.RoleOwner, `{"year":1990}`)
	body = decodeError(t, resp)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "year", body.Details[0].Field)

	resp = api.do(t, http.MethodPost, "/api/fiscal-years", pkgjwt.RoleOwner, `{"year":`)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Code)

	resp = api.do(t, http.MethodGet, "/api/expenses?from=2026-04-01", pkgjwt.RoleOwner, "")
	body = decodeError(t, resp)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "to", body.Details[0].Field)
}

func TestRouter_ModoDeRegistro(t *testing.T) {
	business := newTestAPI(config.RecordModeBusinessLedger, stubDB{})
	resp := business.do(t, http.MethodGet, "/api/incomes?year=2026&quarter=1", pkgjwt.RoleOwner, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "RECORD_MODE_DISABLED", decodeError(t, resp).Code)

	quarter := newTestAPI(config.RecordModeQuarterLedger, stubDB{})
	resp = quarter.do(t, http.MethodPost, "/api/invoices", pkgjwt.RoleOwner, `{}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "RECORD_MODE_DISABLED", decodeError(t, resp).Code)

	resp = quarter.do(t, http.MethodGet, "/api/incomes?year=2026&quarter=1", pkgjwt.RoleViewer, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = quarter.do(t, http.MethodDelete, "/api/expenses/exp-9", pkgjwt.RoleAccountant, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode, "los gastos existen en ambos modos")
	assert.Equal(t, "exp-9", quarter.records.deleted)
}

func TestRouter_ExportCSV(t *testing.T) {
	api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})
	api.invoices.csv = "\ufeffNúmero;Cliente\r\n"

	resp := api.do(t, http.MethodGet, "/api/invoices/export.csv?status=sent&from=2026-01-01", pkgjwt.RoleViewer, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "facturas.csv")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffNúmero;Cliente\r\n", string(raw))
	assert.Equal(t, dto.ListInvoicesQuery{From: "2026-01-01", Status: "sent"}, api.invoices.query)

	resp = api.do(t, http.MethodGet, "/api/invoices/export.csv?status=pagada", pkgjwt.RoleViewer, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRouter_CierrePorLotes(t *testing.T) {
	api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})

	resp := api.do(t, http.MethodPost, "/api/quarters/close", pkgjwt.RoleOwner,
		`{"quarters":[{"year":2026,"number":1},{"year":2026,"number":2}]}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.BatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 2, out.Skipped)
	assert.Len(t, api.fiscal.refs, 2)

	resp2 := api.do(t, http.MethodPost, "/api/quarters/close", pkgjwt.RoleOwner, `{"quarters":[{"year":2026,"number":7}]}`)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestRouter_GuardarResultadosPorLotes(t *testing.T) {
	api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})

	resp := api.do(t, http.MethodPost, "/api/quarters/result", pkgjwt.RoleAccountant,
		`{"quarters":[{"year":2026,"number":1},{"year":2026,"number":4}]}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.BatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 1, out.Saved)
	assert.Equal(t, 1, out.Skipped)
	require.Len(t, out.Items, 2)
	assert.Equal(t, domfiscal.SkipQuarterClosed, out.Items[1].Reason)
	assert.Equal(t, testBusinessID, api.fiscal.businessID)

	resp2 := api.do(t, http.MethodPost, "/api/quarters/result", pkgjwt.RoleAccountant, `{"quarters":[]}`)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestRouter_GuardarResultadoSinCuerpo(t *testing.T) {
	api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})

	resp := api.do(t, http.MethodPost, "/api/fiscal-years/2026/quarters/3/result", pkgjwt.RoleAccountant, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, api.fiscal.n)
}

func TestRouter_PerfilDeEmpresa(t *testing.T) {
	api := newTestAPI(config.RecordModeQuarterLedger, stubDB{})

	resp := api.do(t, http.MethodGet, "/api/business", pkgjwt.RoleViewer, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.BusinessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	assert.Equal(t, testBusinessID, out.ID)
	assert.Equal(t, "F-2026-00001", out.NextNumber)

	// La gestoría opera pero no cambia los datos del titular.
	resp = api.do(t, http.MethodPatch, "/api/business", pkgjwt.RoleAccountant, `{"name":"Otra"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.do(t, http.MethodPatch, "/api/business", pkgjwt.RoleOwner, `{"email":"no-es-correo"}`)
	errBody := decodeError(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)
	require.Len(t, errBody.Details, 1)
	assert.Equal(t, "email", errBody.Details[0].Field)

	resp = api.do(t, http.MethodPatch, "/api/business", pkgjwt.RoleOwner, `{"series_prefix":"FR","legal_text":"Exento art. 20"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, api.business.update.SeriesPrefix)
	assert.Equal(t, "FR", *api.business.update.SeriesPrefix)
	assert.Nil(t, api.business.update.Name)
}

func TestRouter_Clientes(t *testing.T) {
	api := newTestAPI(config.RecordModeQuarterLedger, stubDB{})

	resp := api.do(t, http.MethodPost, "/api/clients", pkgjwt.RoleAccountant, `{"name":"Cliente SL","tax_id":"B12345678"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "disponibles en cualquier modo")

	resp = api.do(t, http.MethodPost, "/api/clients", pkgjwt.RoleOwner, `{"name":"","email":"no-es-email"}`)
	body := decodeError(t, resp)
	fields := make([]string, 0, len(body.Details))
	for _, d := range body.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email"}, fields)

	resp = api.do(t, http.MethodGet, "/api/clients?q=norte&limit=5", pkgjwt.RoleViewer, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dto.ListClientsQuery{Q: "norte", Limit: 5}, api.clients.query)

	resp = api.do(t, http.MethodDelete, "/api/clients/cli-1", pkgjwt.RoleAccountant, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo el titular borra clientes")
	assert.Empty(t, api.clients.deleted)

	resp = api.do(t, http.MethodDelete, "/api/clients/cli-1", pkgjwt.RoleOwner, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "cli-1", api.clients.deleted)

	api.clients.err = fmt.Errorf("borrar cliente: %w", domain.ErrConflict)
	resp = api.do(t, http.MethodDelete, "/api/clients/cli-2", pkgjwt.RoleOwner, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "con facturas asociadas")
	assert.Equal(t, "CONFLICT", decodeError(t, resp).Code)
}

func TestRouter_CatalogoInactivos(t *testing.T) {
	api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})

	resp := api.do(t, http.MethodGet, "/api/catalog", pkgjwt.RoleViewer, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, api.catalog.query.Inactive)

	resp = api.do(t, http.MethodGet, "/api/catalog?inactive=1", pkgjwt.RoleViewer, "")
	resp.Body.Close()
	assert.True(t, api.catalog.query.Inactive)

	resp = api.do(t, http.MethodPost, "/api/catalog", pkgjwt.RoleViewer, `{"name":"Hosting"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_EditarBorrador(t *testing.T) {
	api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})
	const clientID = "6f1c0a52-3b8e-4a51-9d52-0a4b7d3c2e10"

	resp := api.do(t, http.MethodPut, "/api/invoices/inv-1", pkgjwt.RoleAccountant,
		`{"client_id":"`+clientID+`","lines":[{"description":"Diseño","quantity":"1","unit_price":"100","tax_rate":"21"}]}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, clientID, api.invoices.updated.ClientID)
	require.Len(t, api.invoices.updated.Lines, 1)

	api.invoices.err = fmt.Errorf("%w: solo se editan borradores", domain.ErrConflict)
	resp2 := api.do(t, http.MethodPut, "/api/invoices/inv-1", pkgjwt.RoleOwner,
		`{"client_id":"`+clientID+`","lines":[{"description":"Diseño","quantity":"1","unit_price":"100","tax_rate":"21"}]}`)
	assert.Equal(t, http.StatusConflict, resp2.StatusCode)
	assert.Equal(t, "CONFLICT", decodeError(t, resp2).Code)

	resp3 := api.do(t, http.MethodPut, "/api/invoices/inv-1", pkgjwt.RoleViewer, `{}`)
	resp3.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp3.StatusCode)
}

func TestRouter_Panel(t *testing.T) {
	api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})

	resp := api.do(t, http.MethodGet, "/api/dashboard", pkgjwt.RoleViewer, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.DashboardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 3, out.MonthInvoiceCount)
	assert.Equal(t, testBusinessID, api.dashboard.businessID)

	quarter := newTestAPI(config.RecordModeQuarterLedger, stubDB{})
	resp2 := quarter.do(t, http.MethodGet, "/api/dashboard", pkgjwt.RoleOwner, "")
	assert.Equal(t, http.StatusForbidden, resp2.StatusCode, "sin facturas en el modo por trimestre")
	assert.Equal(t, "RECORD_MODE_DISABLED", decodeError(t, resp2).Code)
}

func TestRouter_PatronDeNumeracion(t *testing.T) {
	api := newTestAPI(config.RecordModeBusinessLedger, stubDB{})

	resp := api.do(t, http.MethodPatch, "/api/business", pkgjwt.RoleOwner, `{"number_pattern":"{year}/{prefix}{number:03d}"}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, api.business.update.NumberPattern)
	assert.Equal(t, "{year}/{prefix}{number:03d}", *api.business.update.NumberPattern)
}
