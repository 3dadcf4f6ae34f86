package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Campos de contexto fiscal comunes a todos los eventos.
const (
	FieldService    = "service"
	FieldBusinessID = "business_id"
	FieldYear       = "year"
	FieldQuarter    = "quarter"
)

// Config opciones para el logger.
type Config struct {
	Env     string // development -> consola legible; production -> JSON
	Level   string // trace, debug, info, warn, error
	Service string // nombre de la aplicación; vacío = sin campo service
}

// Logger wrapper sobre zerolog para inyección y consistencia.
type Logger struct {
	zl zerolog.Logger
}

// New crea un logger estructurado. En development usa salida legible; en production JSON.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	l := build(w, cfg)

	// Redirigir el logger global de zerolog para librerías que lo usen
	log.Logger = l.zl

	return l
}

// Nop devuelve un logger que descarta todo, útil en tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// NewWriter crea un logger JSON sobre w; se usa en tests para inspeccionar la salida.
func NewWriter(w io.Writer, level string) *Logger {
	return build(w, Config{Level: level})
}

func build(w io.Writer, cfg Config) *Logger {
	ctx := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str(FieldService, cfg.Service)
	}
	return &Logger{zl: ctx.Logger()}
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ForBusiness sublogger con la empresa fija. Los casos de uso lo usan para que
// cada evento quede asociado a su business_id.
func (l *Logger) ForBusiness(businessID string) *Logger {
	return &Logger{zl: l.zl.With().Str(FieldBusinessID, businessID).Logger()}
}

// ForQuarter sublogger con empresa, año y trimestre (quarter 0 = todo el año).
func (l *Logger) ForQuarter(businessID string, year, quarter int) *Logger {
	ctx := l.zl.With().Str(FieldBusinessID, businessID).Int(FieldYear, year)
	if quarter > 0 {
		ctx = ctx.Int(FieldQuarter, quarter)
	}
	return &Logger{zl: ctx.Logger()}
}

// Trace, Debug, Info, Warn, Error delegados a zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Zerolog devuelve el logger interno por si se necesita la API directa.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
