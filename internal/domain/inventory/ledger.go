package inventory

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MaxDescriptionLength límite en caracteres (no bytes) de la descripción de un movimiento.
const MaxDescriptionLength = 500

// ValidateMovement revisa la forma de una solicitud de movimiento antes de abrir la transacción.
// Entry y Exit exigen magnitud positiva; Adjustment exige delta distinto de cero.
// Un productID no positivo no puede existir, así que se reporta como ErrNotFound.
func ValidateMovement(productID, quantity int64, movementType entity.MovementType, description string) error {
	if productID <= 0 {
		return domain.ErrNotFound
	}
	if !movementType.Valid() {
		return domain.NewValidationError("movementType", "debe ser 0 (entrada), 1 (salida) o 2 (ajuste)")
	}
	switch movementType {
	case entity.MovementTypeEntry, entity.MovementTypeExit:
		if quantity <= 0 {
			return domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
	case entity.MovementTypeAdjustment:
		if quantity == 0 {
			return domain.NewValidationError("quantity", "el ajuste no puede ser cero")
		}
	}
	if strings.TrimSpace(description) == "" {
		return domain.NewValidationError("description", "es obligatoria")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return domain.NewValidationError("description", "no puede superar 500 caracteres")
	}
	return nil
}

// SignedDelta efecto neto de un movimiento sobre la cantidad del producto.
func SignedDelta(movementType entity.MovementType, quantity int64) int64 {
	if movementType == entity.MovementTypeExit {
		return -quantity
	}
	return quantity
}

// Apply calcula la nueva cantidad de un producto con current unidades.
//
// Exit verifica suficiencia contra la cantidad actual y devuelve *domain.InsufficientStockError.
// Adjustment no hace esa verificación: un ajuste es una corrección, no una salida. Lo que sí se
// respeta para todos los tipos es que la cantidad resultante nunca sea negativa; en un ajuste
// eso se reporta como ValidationError sobre quantity.
func Apply(productID, current int64, movementType entity.MovementType, quantity int64) (int64, error) {
	switch movementType {
	case entity.MovementTypeEntry:
		if current > math.MaxInt64-quantity {
			return 0, domain.NewValidationError("quantity", "la entrada desborda la cantidad máxima")
		}
		return current + quantity, nil
	case entity.MovementTypeExit:
		if current < quantity {
			return 0, &domain.InsufficientStockError{ProductID: productID, Available: current, Requested: quantity}
		}
		return current - quantity, nil
	case entity.MovementTypeAdjustment:
		if quantity > 0 && current > math.MaxInt64-quantity {
			return 0, domain.NewValidationError("quantity", "el ajuste desborda la cantidad máxima")
		}
		next := current + quantity
		if next < 0 {
			return 0, domain.NewValidationError("quantity", "el ajuste dejaría la cantidad en negativo")
		}
		return next, nil
	}
	return 0, domain.NewValidationError("movementType", "tipo de movimiento desconocido")
}

// Replay reconstruye la cantidad de un producto a partir de su cantidad inicial y sus movimientos.
func Replay(initial int64, movements []*entity.StockMovement) int64 {
	q := initial
	for _, m := range movements {
		q += SignedDelta(m.MovementType, m.Quantity)
	}
	return q
}
