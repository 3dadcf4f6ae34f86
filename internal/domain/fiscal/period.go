// Package fiscal contiene los cálculos fiscales puros (modelos 303, 130 y 390) y las reglas
// de cierre de trimestres y años fiscales. No depende de persistencia ni de transporte.
package fiscal

import "time"

// QuarterNumbers trimestres de un año natural en orden.
var QuarterNumbers = [4]int{1, 2, 3, 4}

// Period rango de fechas inclusivo [Start, End], a nivel de día.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains indica si la fecha (ignorando la hora) cae dentro del periodo.
func (p Period) Contains(t time.Time) bool {
	d := dateOf(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// ValidQuarter indica si n es un número de trimestre (1..4).
func ValidQuarter(n int) bool {
	return n >= 1 && n <= 4
}

// QuarterRange devuelve el periodo del trimestre n del año:
// 1T ene-mar, 2T abr-jun, 3T jul-sep, 4T oct-dic. n debe estar en 1..4.
func QuarterRange(year, n int) Period {
	startMonth := time.Month(3*(n-1) + 1)
	start := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, -1)
	return Period{Start: start, End: end}
}

// QuarterOf devuelve el trimestre (1..4) al que pertenece la fecha.
func QuarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
