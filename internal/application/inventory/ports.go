package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error la transacción se revierte por completo; si no, se confirma.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// MovementRegistered evento publicado después de confirmar un movimiento.
type MovementRegistered struct {
	MovementID   int64     `json:"movementId"`
	ProductID    int64     `json:"productId"`
	MovementType int       `json:"movementType"`
	Quantity     int64     `json:"quantity"`
	NewQuantity  int64     `json:"newQuantity"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MovementPublisher notifica a terceros los movimientos confirmados. Un fallo aquí
// no revierte nada: el movimiento ya está confirmado cuando se publica.
type MovementPublisher interface {
	PublishMovementRegistered(ctx context.Context, evt MovementRegistered) error
}

// NopPublisher descarta los eventos (NATS no configurado).
type NopPublisher struct{}

// PublishMovementRegistered no hace nada.
func (NopPublisher) PublishMovementRegistered(context.Context, MovementRegistered) error { return nil }
