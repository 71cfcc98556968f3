package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrLockTimeout otra transacción retuvo el producto más allá de lock_timeout.
var ErrLockTimeout = errors.New("postgres: tiempo de espera del bloqueo agotado")

// Códigos SQLSTATE usados por los adaptadores.
const (
	sqlStateUniqueViolation  = "23505"
	sqlStateCheckViolation   = "23514"
	sqlStateLockNotAvailable = "55P03"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == sqlStateUniqueViolation
}

// isCheckViolation verifica si un error es una violación de CHECK (23514), p. ej. quantity >= 0.
func isCheckViolation(err error) bool {
	return pgErrorCode(err) == sqlStateCheckViolation
}

// isLockTimeout verifica si la espera por un bloqueo superó lock_timeout (55P03).
func isLockTimeout(err error) bool {
	return pgErrorCode(err) == sqlStateLockNotAvailable
}

// lockError envuelve el error de un SELECT ... FOR UPDATE. Si se agotó lock_timeout el
// resultado también cumple errors.Is(err, ErrLockTimeout).
func lockError(productID int64, err error) error {
	if isLockTimeout(err) {
		return fmt.Errorf("%w: producto %d: %w", ErrLockTimeout, productID, err)
	}
	return fmt.Errorf("get product for update: %w", err)
}
