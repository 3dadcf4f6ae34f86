// @title           Autónomo API
// @version         1.0
// @description     Facturación y modelos trimestrales (303, 130, 390) para autónomos.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
// @description     "Bearer <token>" emitido por cmd/seed.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/autonomo-api/internal/application/analytics"
	"github.com/jhoicas/autonomo-api/internal/application/billing"
	"github.com/jhoicas/autonomo-api/internal/application/fiscal"
	"github.com/jhoicas/autonomo-api/internal/application/usecase"
	"github.com/jhoicas/autonomo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/autonomo-api/internal/interfaces/http"
	"github.com/jhoicas/autonomo-api/pkg/config"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("record_mode", cfg.Fiscal.RecordMode).
		Msg("iniciando aplicación")

	if cfg.DB.AutoMigrate {
		if err := migrate(cfg.DB, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	businessRepo := postgres.NewBusinessRepository(pool)

	// Origen de ingresos y gastos para los modelos según el modo de registro.
	var source fiscal.RecordSource = postgres.NewBusinessLedgerSource(pool)
	quarterLedger := cfg.Fiscal.RecordMode == config.RecordModeQuarterLedger
	if quarterLedger {
		source = postgres.NewQuarterLedgerSource(pool)
	}

	fiscalUC := fiscal.NewUseCase(postgres.FiscalStores(pool), txRunner, source, log)
	billingStores := postgres.BillingStores(pool)
	invoiceUC := billing.NewInvoiceUseCase(billingStores, txRunner, businessRepo, cfg.Fiscal.DefaultCurrency, log)
	expenseUC := billing.NewExpenseUseCase(billingStores, fiscalUC, quarterLedger, log)
	incomeUC := billing.NewIncomeUseCase(billingStores, fiscalUC, log)
	clientUC := billing.NewClientUseCase(billingStores.Clients, log)
	catalogUC := billing.NewCatalogUseCase(billingStores.Catalog, log)
	businessUC := usecase.NewBusinessUseCase(businessRepo, txRunner, log)
	dashboardUC := analytics.NewDashboardUseCase(postgres.NewAnalyticsRepository(pool), log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerPath,
			Path:     "docs",
			Title:    "Autónomo API",
		}))
	} else {
		log.Warn().Str("path", cfg.HTTP.SwaggerPath).Msg("swagger.json no encontrado, UI desactivada")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Business:   businessUC,
		Fiscal:     fiscalUC,
		Invoices:   invoiceUC,
		Clients:    clientUC,
		Catalog:    catalogUC,
		Dashboard:  dashboardUC,
		Expenses:   expenseUC,
		Incomes:    incomeUC,
		DB:         pool,
		RecordMode: cfg.Fiscal.RecordMode,
		JWTSecret:  cfg.JWT.Secret,
		AppName:    cfg.App.Name,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// migrate aplica las migraciones pendientes antes de abrir el pool.
func migrate(cfg config.DBConfig, log *logger.Logger) error {
	mg, err := postgres.NewMigrator(cfg.ConnectionString(), cfg.MigrationsDir, log)
	if err != nil {
		return err
	}
	defer mg.Close()
	return mg.Up()
}
