package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del ledger de stock.
// Es de solo inserción: no existen Update ni Delete.
type StockMovementRepository interface {
	// Create inserta el movimiento y completa ID y CreatedAt.
	Create(ctx context.Context, movement *entity.StockMovement) error
	// GetByID devuelve (nil, nil) si no existe. No resuelve Product.
	GetByID(ctx context.Context, id int64) (*entity.StockMovement, error)
	// List devuelve todos los movimientos por ID ascendente con Product resuelto.
	List(ctx context.Context) ([]*entity.StockMovement, error)
	ListByProduct(ctx context.Context, productID int64) ([]*entity.StockMovement, error)
	// ListByDateRange filtra created_at en [from, to], ambos inclusive.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.StockMovement, error)
}
