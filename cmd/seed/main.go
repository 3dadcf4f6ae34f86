// seed da de alta una empresa con su año fiscal y emite un token para operar con ella.
// La API no gestiona usuarios: el token lo firma quien conoce JWT_SECRET.
//
// Uso: go run ./cmd/seed -name "Ana Pérez" -tax-id 12345678Z [-year 2026] [-role owner]
// Con -business reutiliza una empresa existente y solo emite el token.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	"github.com/jhoicas/autonomo-api/internal/application/fiscal"
	"github.com/jhoicas/autonomo-api/internal/domain"
	"github.com/jhoicas/autonomo-api/internal/domain/entity"
	"github.com/jhoicas/autonomo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/autonomo-api/pkg/config"
	"github.com/jhoicas/autonomo-api/pkg/jwt"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

func main() {
	var (
		name, taxID, legal, businessID, role, userID string
		year                                         int
	)
	flag.StringVar(&name, "name", "", "nombre o razón social")
	flag.StringVar(&taxID, "tax-id", "", "NIF/CIF")
	flag.StringVar(&legal, "legal-text", "", "texto legal al pie de las facturas")
	flag.StringVar(&businessID, "business", "", "ID de una empresa existente")
	flag.StringVar(&role, "role", jwt.RoleOwner, "rol del token: owner, accountant o viewer")
	flag.StringVar(&userID, "user", "seed", "user_id del token")
	flag.IntVar(&year, "year", time.Now().Year(), "año fiscal a crear (0 = ninguno)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("Cargar configuración: %v", err)
	}
	if cfg.JWT.Secret == "" {
		fail("JWT_SECRET vacío")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("Conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	if businessID == "" {
		if strings.TrimSpace(name) == "" || strings.TrimSpace(taxID) == "" {
			fail("-name y -tax-id son obligatorios para crear la empresa")
		}
		now := time.Now()
		b := &entity.Business{
			Name:            name,
			TaxID:           strings.ToUpper(strings.TrimSpace(taxID)),
			DefaultCurrency: cfg.Fiscal.DefaultCurrency,
			LegalText:       legal,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := postgres.NewBusinessRepository(pool).Create(ctx, b); err != nil {
			fail("Crear empresa: %v", err)
		}
		businessID = b.ID
		fmt.Printf("Empresa creada: %s (%s)\n", b.Name, b.ID)
	}

	if year != 0 {
		uc := fiscal.NewUseCase(postgres.FiscalStores(pool), postgres.NewTxRunner(pool),
			postgres.NewBusinessLedgerSource(pool), logger.Nop())
		_, err := uc.CreateFiscalYear(ctx, businessID, dto.CreateFiscalYearRequest{Year: year})
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			fmt.Printf("Año fiscal %d ya existía\n", year)
		case err != nil:
			fail("Crear año fiscal %d: %v", year, err)
		default:
			fmt.Printf("Año fiscal %d creado con sus 4 trimestres\n", year)
		}
	}

	token, err := jwt.Generate(cfg.JWT.Secret, userID, businessID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fail("Generar token: %v", err)
	}
	fmt.Printf("Token (%s, %d min):\n%s\n", role, cfg.JWT.Expiration, token)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
