package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autonomo-api/pkg/config"
	"github.com/jhoicas/autonomo-api/pkg/jwt"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Business   businessService
	Fiscal     fiscalService
	Invoices   invoiceService
	Clients    clientService
	Catalog    catalogService
	Dashboard  dashboardService
	Expenses   expenseService
	Incomes    incomeService
	DB         pinger
	RecordMode string // config.RecordModeBusinessLedger o config.RecordModeQuarterLedger
	JWTSecret  string
	AppName    string
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", NewHealthHandler(deps.DB, deps.AppName).Health)

	// Todo /api requiere Bearer Token con business_id.
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	// Los de solo lectura consultan; titular y gestoría escriben.
	write := RequireRole(jwt.RoleOwner, jwt.RoleAccountant)
	read := RequireRole(jwt.RoleOwner, jwt.RoleAccountant, jwt.RoleViewer)

	// El perfil fiscal solo lo cambia el titular.
	business := NewBusinessHandler(deps.Business, log)
	api.Get("/business", read, business.Get)
	api.Patch("/business", RequireRole(jwt.RoleOwner), business.Update)

	fiscal := NewFiscalHandler(deps.Fiscal, log)
	years := api.Group("/fiscal-years")
	years.Post("/", write, fiscal.CreateFiscalYear)
	years.Get("/", read, fiscal.ListFiscalYears)
	years.Post("/close", write, fiscal.CloseFiscalYears)
	years.Get("/:year", read, fiscal.GetFiscalYear)
	years.Get("/:year/modelo-390", read, fiscal.Modelo390)
	years.Post("/:year/close", write, fiscal.CloseFiscalYear)
	years.Post("/:year/quarters", write, fiscal.EnsureQuarters)
	years.Get("/:year/quarters/:n", read, fiscal.QuarterDetail)
	years.Get("/:year/quarters/:n/modelo-303", read, fiscal.Modelo303)
	years.Get("/:year/quarters/:n/modelo-130", read, fiscal.Modelo130)
	years.Post("/:year/quarters/:n/result", write, fiscal.SaveQuarterResult)
	years.Post("/:year/quarters/:n/close", write, fiscal.CloseQuarter)
	api.Post("/quarters/close", write, fiscal.CloseQuarters)
	api.Post("/quarters/result", write, fiscal.SaveQuarterResults)

	// Facturas y cobros (modo por empresa)
	invoice := NewInvoiceHandler(deps.Invoices, log)
	invoices := api.Group("/invoices", RequireRecordMode(deps.RecordMode, config.RecordModeBusinessLedger))
	invoices.Post("/", write, invoice.Create)
	invoices.Get("/", read, invoice.List)
	invoices.Get("/export.csv", read, invoice.ExportCSV)
	invoices.Get("/:id", read, invoice.GetByID)
	invoices.Put("/:id", write, invoice.Update)
	invoices.Patch("/:id/status", write, invoice.ChangeStatus)
	invoices.Post("/:id/payments", write, invoice.RegisterPayment)
	invoices.Delete("/:id/payments/:paymentID", write, invoice.DeletePayment)

	// Clientes y catálogo se mantienen en cualquier modo; borrar un cliente es cosa del titular.
	client := NewClientHandler(deps.Clients, log)
	clients := api.Group("/clients")
	clients.Post("/", write, client.Create)
	clients.Get("/", read, client.List)
	clients.Get("/:id", read, client.GetByID)
	clients.Patch("/:id", write, client.Update)
	clients.Delete("/:id", RequireRole(jwt.RoleOwner), client.Delete)

	catalog := NewCatalogHandler(deps.Catalog, log)
	items := api.Group("/catalog")
	items.Post("/", write, catalog.Create)
	items.Get("/", read, catalog.List)
	items.Get("/:id", read, catalog.GetByID)
	items.Patch("/:id", write, catalog.Update)
	items.Delete("/:id", write, catalog.Delete)

	dashboard := NewDashboardHandler(deps.Dashboard, log)
	api.Get("/dashboard", RequireRecordMode(deps.RecordMode, config.RecordModeBusinessLedger), read, dashboard.GetSummary)

	records := NewRecordHandler(deps.Expenses, deps.Incomes, log)
	expenses := api.Group("/expenses")
	expenses.Post("/", write, records.CreateExpense)
	expenses.Get("/", read, records.ListExpenses)
	expenses.Delete("/:id", write, records.DeleteExpense)

	// Ingresos sueltos (modo por trimestre)
	incomes := api.Group("/incomes", RequireRecordMode(deps.RecordMode, config.RecordModeQuarterLedger))
	incomes.Post("/", write, records.CreateIncome)
	incomes.Get("/", read, records.ListIncomes)
	incomes.Delete("/:id", write, records.DeleteIncome)
}
