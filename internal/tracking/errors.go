package tracking

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate   = errors.New("fecha inválida")
	ErrEntryNotFound = errors.New("registro de tiempo no encontrado")
)

// BlockedError rejects a mutation that falls inside an export closure's
// blocking scope. It carries the closure id and range for the caller's
// error message.
type BlockedError struct {
	ClosureID string
	DateStart string
	DateEnd   string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("Operación bloqueada por cierre activo del %s al %s", e.DateStart, e.DateEnd)
}

// DailyLimitError rejects an entry that would push an engineer's day past
// the configured ceiling.
type DailyLimitError struct {
	Total float64
	Max   float64
}

func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("Total de horas (%g) excede el límite diario de %gh", e.Total, e.Max)
}
