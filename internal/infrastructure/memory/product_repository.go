package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
// Con tx == nil opera sobre el estado confirmado; con tx ve además sus escrituras pendientes.
type ProductRepo struct {
	store *Store
	tx    *tx
}

// NewProductRepository construye el repositorio fuera de transacción.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

// Create persiste un producto nuevo y le asigna ID.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	if r.tx != nil {
		return errNotInTx
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProductID++
	product.ID = s.nextProductID
	now := s.now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	s.products[product.ID] = copyProduct(product)
	return nil
}

// GetByID obtiene un producto por ID (incluye eliminados lógicamente).
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.store.mu.RLock()
	p := copyProduct(r.store.products[id])
	r.store.mu.RUnlock()
	if p != nil && r.tx != nil {
		if q, ok := r.tx.quantities[id]; ok {
			p.Quantity = q
		}
	}
	return p, nil
}

// GetByIDForUpdate bloquea el producto hasta el Commit/Rollback de la transacción.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	if r.tx == nil {
		return nil, errTxRequired
	}
	if r.tx.done {
		return nil, errTxFinished
	}
	if !r.tx.holds(id) {
		release, err := r.store.lockProduct(ctx, id)
		if errors.Is(err, errProductAbsent) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		r.tx.held[id] = release
	}
	return r.GetByID(ctx, id)
}

// List lista productos no eliminados por ID ascendente con paginación.
func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	all := r.snapshot(false)
	if offset >= len(all) {
		return []*entity.Product{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// ListAll lista todos los productos, incluidos los eliminados.
func (r *ProductRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	return r.snapshot(true), nil
}

func (r *ProductRepo) snapshot(includeDeleted bool) []*entity.Product {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	list := make([]*entity.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		if p.IsDeleted && !includeDeleted {
			continue
		}
		list = append(list, copyProduct(p))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Update actualiza atributos descriptivos. Quantity, InitialQuantity e IsDeleted no se tocan.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	if r.tx != nil {
		return errNotInTx
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Name = product.Name
	p.Description = product.Description
	p.Price = product.Price
	p.Category = product.Category
	p.Brand = product.Brand
	p.UpdatedAt = s.now()
	return nil
}

// UpdateQuantity registra la nueva cantidad; exige que la transacción tenga el bloqueo del producto.
func (r *ProductRepo) UpdateQuantity(_ context.Context, id, quantity int64) error {
	if r.tx == nil {
		return errTxRequired
	}
	if !r.tx.holds(id) {
		return errLockNotHeld
	}
	r.tx.quantities[id] = quantity
	return nil
}

// SoftDelete marca el producto como eliminado.
func (r *ProductRepo) SoftDelete(_ context.Context, id int64) error {
	if r.tx != nil {
		return errNotInTx
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.IsDeleted {
		return domain.ErrNotFound
	}
	p.IsDeleted = true
	p.UpdatedAt = s.now()
	return nil
}
