// migrate aplica o revierte el esquema de la base de datos.
//
// Uso: go run ./cmd/migrate [-path dir] up|down|version
// Sin -path usa las migraciones embebidas en el binario.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/autonomo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/autonomo-api/pkg/config"
	"github.com/jhoicas/autonomo-api/pkg/logger"
)

func main() {
	var dir, level string
	flag.StringVar(&dir, "path", "", "directorio de migraciones (por defecto las embebidas)")
	flag.StringVar(&level, "log-level", "info", "nivel de log (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		printUsage()
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: "development", Level: level})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("cargar configuración")
	}
	if dir == "" {
		dir = cfg.DB.MigrationsDir
	}

	mg, err := postgres.NewMigrator(cfg.DB.ConnectionString(), dir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer mg.Close()

	switch args[0] {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down()
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = mg.Version()
		if err == nil {
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión del esquema")
		}
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", args[0]).Msg("migración fallida")
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "uso: migrate [-path dir] [-log-level nivel] up|down|version")
}
