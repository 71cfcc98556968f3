package memory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una unidad de trabajo en memoria.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run abre una unidad de trabajo, ejecuta fn con repos atados a ella y hace Commit o Rollback.
// Si ctx se cancela antes del Commit, la unidad se descarta entera.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := &tx{
		store:      r.store,
		held:       make(map[int64]func()),
		quantities: make(map[int64]int64),
	}
	defer t.rollback()

	if err := fn(&ProductRepo{store: r.store, tx: t}, &StockMovementRepo{store: r.store, tx: t}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.commit()
}

// tx escrituras pendientes y bloqueos tomados por una unidad de trabajo.
type tx struct {
	store      *Store
	held       map[int64]func()
	quantities map[int64]int64
	movements  []*entity.StockMovement
	done       bool
}

func (t *tx) holds(id int64) bool {
	_, ok := t.held[id]
	return ok
}

func (t *tx) commit() error {
	if t.done {
		return errTxFinished
	}
	s := t.store
	s.mu.Lock()
	for id := range t.quantities {
		if _, ok := s.products[id]; !ok {
			s.mu.Unlock()
			return errProductAbsent
		}
	}
	now := s.now()
	for id, q := range t.quantities {
		p := s.products[id]
		p.Quantity = q
		p.UpdatedAt = now
	}
	for _, m := range t.movements {
		s.nextMovementID++
		m.ID = s.nextMovementID
		m.CreatedAt = now
		s.movements = append(s.movements, copyMovement(m))
	}
	s.mu.Unlock()
	t.finish()
	return nil
}

func (t *tx) rollback() {
	if t.done {
		return
	}
	t.quantities = nil
	t.movements = nil
	t.finish()
}

func (t *tx) finish() {
	t.done = true
	for id, release := range t.held {
		release()
		delete(t.held, id)
	}
}
