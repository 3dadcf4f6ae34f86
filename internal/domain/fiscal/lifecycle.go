package fiscal

import (
	"errors"
	"time"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// Precondiciones de cierre. Un cierre rechazado no modifica nada.
var (
	ErrQuarterWithoutResult    = errors.New("el trimestre no tiene resultado calculado")
	ErrQuarterAlreadyClosed    = errors.New("el trimestre ya está cerrado")
	ErrMissingQuarters         = errors.New("el año fiscal no tiene los 4 trimestres")
	ErrOpenQuarters            = errors.New("el año fiscal tiene trimestres sin cerrar")
	ErrFiscalYearAlreadyClosed = errors.New("el año fiscal ya está cerrado")
)

// State estado de un trimestre o año fiscal. Solo existe la transición open -> closed.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// QuarterState estado actual del trimestre.
func QuarterState(q *entity.Quarter) State {
	if q.Closed {
		return StateClosed
	}
	return StateOpen
}

// FiscalYearState estado actual del año fiscal.
func FiscalYearState(fy *entity.FiscalYear) State {
	if fy.Closed {
		return StateClosed
	}
	return StateOpen
}

// CanCloseQuarter valida la transición open -> closed: exige un resultado guardado.
func CanCloseQuarter(q *entity.Quarter, result *entity.QuarterlyResult) error {
	if QuarterState(q) == StateClosed {
		return ErrQuarterAlreadyClosed
	}
	if result == nil {
		return ErrQuarterWithoutResult
	}
	return nil
}

// CloseQuarter cierra el trimestre y sella la fecha de cierre con el día de today.
func CloseQuarter(q *entity.Quarter, result *entity.QuarterlyResult, today time.Time) error {
	if err := CanCloseQuarter(q, result); err != nil {
		return err
	}
	closing := dateOf(today)
	q.Closed = true
	q.ClosingDate = &closing
	return nil
}

// CanCloseFiscalYear valida la transición open -> closed: exige los 4 trimestres cerrados.
func CanCloseFiscalYear(fy *entity.FiscalYear, quarters []*entity.Quarter) error {
	if FiscalYearState(fy) == StateClosed {
		return ErrFiscalYearAlreadyClosed
	}
	seen := make(map[int]bool, len(quarters))
	for _, q := range quarters {
		if ValidQuarter(q.Number) {
			seen[q.Number] = true
		}
	}
	if len(quarters) != len(QuarterNumbers) || len(seen) != len(QuarterNumbers) {
		return ErrMissingQuarters
	}
	for _, q := range quarters {
		if QuarterState(q) != StateClosed {
			return ErrOpenQuarters
		}
	}
	return nil
}

// CloseFiscalYear cierra el año fiscal si se cumplen las precondiciones.
func CloseFiscalYear(fy *entity.FiscalYear, quarters []*entity.Quarter) error {
	if err := CanCloseFiscalYear(fy, quarters); err != nil {
		return err
	}
	fy.Closed = true
	return nil
}

// Motivos de omisión en cierres por lotes.
const (
	SkipMissingResult    = "missing_result"
	SkipQuarterClosed    = "already_closed"
	SkipMissingQuarters  = "missing_quarters"
	SkipOpenQuarters     = "open_quarters"
	SkipFiscalYearClosed = "already_closed"
	SkipNotFound         = "not_found"
)

// SkipReason traduce una precondición rechazada a su código de omisión.
// Devuelve "" si err no es una precondición de cierre.
func SkipReason(err error) string {
	switch {
	case errors.Is(err, ErrQuarterWithoutResult):
		return SkipMissingResult
	case errors.Is(err, ErrQuarterAlreadyClosed):
		return SkipQuarterClosed
	case errors.Is(err, ErrMissingQuarters):
		return SkipMissingQuarters
	case errors.Is(err, ErrOpenQuarters):
		return SkipOpenQuarters
	case errors.Is(err, ErrFiscalYearAlreadyClosed):
		return SkipFiscalYearClosed
	}
	return ""
}

// IsPrecondition indica si err es un cierre rechazado por precondición.
func IsPrecondition(err error) bool {
	return SkipReason(err) != ""
}
