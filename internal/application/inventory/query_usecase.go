package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// QueryUseCase acceso de solo lectura al ledger de movimientos.
type QueryUseCase struct {
	txRunner    TxRunner
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
}

// NewQueryUseCase construye el servicio de consulta.
func NewQueryUseCase(txRunner TxRunner, movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) *QueryUseCase {
	return &QueryUseCase{txRunner: txRunner, movRepo: movRepo, productRepo: productRepo}
}

// Reconciliation resultado de reconstruir la cantidad de un producto desde el ledger.
type Reconciliation struct {
	ProductID       int64
	InitialQuantity int64
	LedgerTotal     int64 // suma de deltas con signo
	Expected        int64 // InitialQuantity + LedgerTotal
	Actual          int64 // Product.Quantity
	Movements       int
}

// Consistent indica si el contador coincide con el ledger.
func (r Reconciliation) Consistent() bool { return r.Expected == r.Actual }

// GetAllMovements devuelve todos los movimientos por orden de inserción con el producto resuelto.
func (uc *QueryUseCase) GetAllMovements(ctx context.Context) ([]*entity.StockMovement, error) {
	return uc.movRepo.List(ctx)
}

// GetMovementsByProduct devuelve los movimientos de un producto existente y no eliminado.
func (uc *QueryUseCase) GetMovementsByProduct(ctx context.Context, productID int64) ([]*entity.StockMovement, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsMovable() {
		return nil, domain.ErrNotFound
	}
	return uc.movRepo.ListByProduct(ctx, productID)
}

// GetMovementByID devuelve un movimiento por ID. El producto se resuelve en cada lectura
// (aunque esté eliminado lógicamente: la historia se conserva).
func (uc *QueryUseCase) GetMovementByID(ctx context.Context, id int64) (*entity.StockMovement, error) {
	mov, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(ctx, mov.ProductID)
	if err != nil {
		return nil, err
	}
	mov.Product = product
	return mov, nil
}

// GetMovementsInRange filtra por created_at en [start, end]. El caller garantiza start <= end.
func (uc *QueryUseCase) GetMovementsInRange(ctx context.Context, start, end time.Time) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByDateRange(ctx, start, end)
}

// Reconcile bloquea el producto y reconstruye su cantidad desde el ledger.
// Con el bloqueo tomado ningún movimiento concurrente puede confirmarse entre las dos lecturas.
func (uc *QueryUseCase) Reconcile(ctx context.Context, productID int64) (*Reconciliation, error) {
	var out *Reconciliation
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		product, err := productRepo.GetByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		movs, err := movRepo.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		expected := inventory.Replay(product.InitialQuantity, movs)
		out = &Reconciliation{
			ProductID:       product.ID,
			InitialQuantity: product.InitialQuantity,
			LedgerTotal:     expected - product.InitialQuantity,
			Expected:        expected,
			Actual:          product.Quantity,
			Movements:       len(movs),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReconcileAll reconcilia todos los productos (incluidos los eliminados lógicamente).
func (uc *QueryUseCase) ReconcileAll(ctx context.Context) ([]Reconciliation, error) {
	products, err := uc.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Reconciliation, 0, len(products))
	for _, p := range products {
		r, err := uc.Reconcile(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}
