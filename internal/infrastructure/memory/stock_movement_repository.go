package memory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger en memoria. Solo inserción.
type StockMovementRepo struct {
	store *Store
	tx    *tx
}

// NewStockMovementRepository construye el repositorio fuera de transacción.
func NewStockMovementRepository(store *Store) *StockMovementRepo {
	return &StockMovementRepo{store: store}
}

// Create inserta el movimiento. Dentro de una transacción ID y CreatedAt se asignan en el Commit.
func (r *StockMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	if r.tx != nil {
		if r.tx.done {
			return errTxFinished
		}
		r.tx.movements = append(r.tx.movements, movement)
		return nil
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMovementID++
	movement.ID = s.nextMovementID
	movement.CreatedAt = s.now()
	s.movements = append(s.movements, copyMovement(movement))
	return nil
}

// GetByID obtiene un movimiento confirmado por ID.
func (r *StockMovementRepo) GetByID(_ context.Context, id int64) (*entity.StockMovement, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	// IDs contiguos desde 1 en orden de inserción.
	if id <= 0 || id > int64(len(s.movements)) {
		return nil, nil
	}
	return copyMovement(s.movements[id-1]), nil
}

// List devuelve todos los movimientos por ID ascendente con el producto resuelto.
func (r *StockMovementRepo) List(_ context.Context) ([]*entity.StockMovement, error) {
	return r.filter(func(*entity.StockMovement) bool { return true }), nil
}

// ListByProduct devuelve los movimientos de un producto, incluidos los pendientes de esta transacción.
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID int64) ([]*entity.StockMovement, error) {
	list := r.filter(func(m *entity.StockMovement) bool { return m.ProductID == productID })
	if r.tx != nil {
		for _, m := range r.tx.movements {
			if m.ProductID == productID {
				list = append(list, copyMovement(m))
			}
		}
	}
	return list, nil
}

// ListByDateRange filtra created_at en [from, to].
func (r *StockMovementRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]*entity.StockMovement, error) {
	return r.filter(func(m *entity.StockMovement) bool {
		return !m.CreatedAt.Before(from) && !m.CreatedAt.After(to)
	}), nil
}

func (r *StockMovementRepo) filter(keep func(*entity.StockMovement) bool) []*entity.StockMovement {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*entity.StockMovement, 0)
	for _, m := range s.movements {
		if !keep(m) {
			continue
		}
		c := copyMovement(m)
		c.Product = copyProduct(s.products[m.ProductID])
		list = append(list, c)
	}
	return list
}
