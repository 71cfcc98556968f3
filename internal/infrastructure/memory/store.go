// Package memory implementa los puertos de persistencia en memoria del proceso.
// Respeta la misma semántica que el adaptador PostgreSQL: bloqueo exclusivo por producto
// durante la transacción, escrituras diferidas hasta el Commit e IDs monótonos en el ledger.
// Se usa con DB_DRIVER=memory y en los tests.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var (
	errTxRequired    = errors.New("memory: operación solo válida dentro de una transacción")
	errNotInTx       = errors.New("memory: operación no soportada dentro de una transacción")
	errLockNotHeld   = errors.New("memory: el producto no está bloqueado por esta transacción")
	errTxFinished    = errors.New("memory: transacción finalizada")
	errProductAbsent = errors.New("memory: producto inexistente")
)

// Store estado compartido: productos, ledger y usuarios.
type Store struct {
	instanceID string

	mu             sync.RWMutex
	products       map[int64]*entity.Product
	movements      []*entity.StockMovement // orden de inserción == ID ascendente
	users          map[string]*entity.User
	nextProductID  int64
	nextMovementID int64

	locksMu sync.Mutex
	locks   map[int64]chan struct{}

	now func() time.Time
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		instanceID: uuid.New().String(),
		products:   make(map[int64]*entity.Product),
		users:      make(map[string]*entity.User),
		locks:      make(map[int64]chan struct{}),
		now:        time.Now,
	}
}

// InstanceID identifica este store. Los IDs vuelven a empezar en 1 con cada store nuevo,
// así que cualquier caché externa debe incluirlo en sus claves.
func (s *Store) InstanceID() string { return s.instanceID }

// SetClock reemplaza el reloj usado para created_at/updated_at (tests de rangos de fecha).
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// lockProduct toma el bloqueo exclusivo del producto; respeta la cancelación de ctx mientras espera.
// Solo existe un canal por producto creado (los productos nunca se borran físicamente), así que
// un ID desconocido devuelve errProductAbsent sin dejar rastro en locks.
func (s *Store) lockProduct(ctx context.Context, id int64) (func(), error) {
	s.locksMu.Lock()
	ch, ok := s.locks[id]
	if !ok {
		s.mu.RLock()
		_, exists := s.products[id]
		s.mu.RUnlock()
		if !exists {
			s.locksMu.Unlock()
			return nil, errProductAbsent
		}
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	s.locksMu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func copyProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func copyMovement(m *entity.StockMovement) *entity.StockMovement {
	c := *m
	c.Product = nil
	return &c
}
