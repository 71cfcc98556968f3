package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos Get* devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetByIDForUpdate bloquea el producto hasta el fin de la transacción actual.
	// Solo tiene sentido sobre un repositorio atado a una transacción.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	ListAll(ctx context.Context) ([]*entity.Product, error)
	// Update modifica atributos descriptivos. Nunca escribe quantity.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateQuantity reescribe el contador; reservado al motor de movimientos.
	UpdateQuantity(ctx context.Context, id, quantity int64) error
	SoftDelete(ctx context.Context, id int64) error
}
