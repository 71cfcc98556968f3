package inventory_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// ─── helpers ──────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memory.Store
	products *memory.ProductRepo
	movs     *memory.StockMovementRepo
	runner   *memory.TxRunner
	pub      *recordingPublisher
	uc       *inventory.RegisterMovementUseCase
	query    *inventory.QueryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:    store,
		products: memory.NewProductRepository(store),
		movs:     memory.NewStockMovementRepository(store),
		runner:   memory.NewTxRunner(store),
		pub:      &recordingPublisher{},
	}
	f.uc = inventory.NewRegisterMovementUseCase(f.runner, f.pub, zerolog.Nop())
	f.query = inventory.NewQueryUseCase(f.runner, f.movs, f.products)
	return f
}

func (f *fixture) product(t *testing.T, qty int64) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: "Producto", InitialQuantity: qty, Quantity: qty}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) quantity(t *testing.T, id int64) int64 {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func (f *fixture) ledger(t *testing.T, productID int64) []*entity.StockMovement {
	t.Helper()
	list, err := f.movs.ListByProduct(context.Background(), productID)
	require.NoError(t, err)
	return list
}

func in(productID int64, typ entity.MovementType, qty int64, desc string) inventory.MovementInputDTO {
	return inventory.MovementInputDTO{ProductID: productID, MovementType: typ, Quantity: qty, Description: desc}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []inventory.MovementRegistered
	err    error
}

func (p *recordingPublisher) PublishMovementRegistered(_ context.Context, evt inventory.MovementRegistered) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

// faultyRunner envuelve el runner real e inyecta fallos en los repositorios de la transacción.
type faultyRunner struct {
	inner             inventory.TxRunner
	failUpdate        bool
	failMovementWrite bool
}

var errInjected = errors.New("fallo inyectado")

type faultyProductRepo struct {
	repository.ProductRepository
	fail bool
}

func (r faultyProductRepo) UpdateQuantity(ctx context.Context, id, q int64) error {
	if r.fail {
		return errInjected
	}
	return r.ProductRepository.UpdateQuantity(ctx, id, q)
}

type faultyMovementRepo struct {
	repository.StockMovementRepository
	fail bool
}

func (r faultyMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if r.fail {
		return errInjected
	}
	return r.StockMovementRepository.Create(ctx, m)
}

func (r *faultyRunner) Run(ctx context.Context, fn func(repository.ProductRepository, repository.StockMovementRepository) error) error {
	return r.inner.Run(ctx, func(p repository.ProductRepository, m repository.StockMovementRepository) error {
		return fn(faultyProductRepo{p, r.failUpdate}, faultyMovementRepo{m, r.failMovementWrite})
	})
}

// ─── escenarios ───────────────────────────────────────────────────────────────

func TestRegisterMovement_EscenarioA_Entrada(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 10)

	mov, err := f.uc.RegisterMovement(context.Background(), in(p.ID, entity.MovementTypeEntry, 5, "restock"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), mov.ID)
	assert.False(t, mov.CreatedAt.IsZero())
	require.NotNil(t, mov.Product)
	assert.Equal(t, int64(15), mov.Product.Quantity)
	assert.Equal(t, int64(15), f.quantity(t, p.ID))
}

func TestRegisterMovement_EscenarioB_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 10)
	ctx := context.Background()
	_, err := f.uc.RegisterMovement(ctx, in(p.ID, entity.MovementTypeEntry, 5, "restock"))
	require.NoError(t, err)
	before := f.ledger(t, p.ID)

	_, err = f.uc.RegisterMovement(ctx, in(p.ID, entity.MovementTypeExit, 20, "bulk sale"))

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(15), ise.Available)
	assert.Equal(t, int64(20), ise.Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(15), f.quantity(t, p.ID))
	assert.Equal(t, before, f.ledger(t, p.ID))
}

func TestRegisterMovement_EscenarioC_AjusteNegativo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 10)
	ctx := context.Background()
	_, err := f.uc.RegisterMovement(ctx, in(p.ID, entity.MovementTypeEntry, 5, "restock"))
	require.NoError(t, err)

	mov, err := f.uc.RegisterMovement(ctx, in(p.ID, entity.MovementTypeAdjustment, -3, "damage writeoff"))
	require.NoError(t, err)

	assert.Equal(t, int64(-3), mov.Quantity)
	assert.Equal(t, int64(12), f.quantity(t, p.ID))
	assert.Len(t, f.ledger(t, p.ID), 2)
}

func TestRegisterMovement_EscenarioD_ProductoInexistenteOEliminado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	deleted := f.product(t, 10)
	require.NoError(t, f.products.SoftDelete(ctx, deleted.ID))

	for _, id := range []int64{deleted.ID, 999} {
		_, err := f.uc.RegisterMovement(ctx, in(id, entity.MovementTypeEntry, 1, "x"))
		assert.ErrorIs(t, err, domain.ErrNotFound, "producto %d", id)
	}

	all, err := f.movs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, int64(10), f.quantity(t, deleted.ID))
}

// ─── reglas de negocio ────────────────────────────────────────────────────────

func TestRegisterMovement_SalidaExactaDejaCero(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 7)

	_, err := f.uc.RegisterMovement(context.Background(), in(p.ID, entity.MovementTypeExit, 7, "venta total"))
	require.NoError(t, err)
	assert.Zero(t, f.quantity(t, p.ID))
}

func TestRegisterMovement_AjusteBajoCeroRechazado(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 2)

	_, err := f.uc.RegisterMovement(context.Background(), in(p.ID, entity.MovementTypeAdjustment, -5, "conteo"))

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "quantity", ve.Field)
	assert.False(t, errors.Is(err, domain.ErrInsufficientStock), "el ajuste no pasa por la verificación de suficiencia")
	assert.Equal(t, int64(2), f.quantity(t, p.ID))
	assert.Empty(t, f.ledger(t, p.ID))
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 10)

	cases := []struct {
		name  string
		input inventory.MovementInputDTO
		field string
	}{
		{"tipo desconocido", in(p.ID, entity.MovementType(7), 1, "x"), "movementType"},
		{"entrada cero", in(p.ID, entity.MovementTypeEntry, 0, "x"), "quantity"},
		{"salida negativa", in(p.ID, entity.MovementTypeExit, -1, "x"), "quantity"},
		{"ajuste cero", in(p.ID, entity.MovementTypeAdjustment, 0, "x"), "quantity"},
		{"descripción vacía", in(p.ID, entity.MovementTypeEntry, 1, "   "), "description"},
		{"descripción larga", in(p.ID, entity.MovementTypeEntry, 1, strings.Repeat("a", 501)), "description"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.RegisterMovement(context.Background(), tc.input)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve), "err = %v", err)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
	assert.Equal(t, int64(10), f.quantity(t, p.ID))
	assert.Empty(t, f.ledger(t, p.ID))
	assert.Empty(t, f.pub.events)
}

func TestRegisterMovement_DescripcionDe500RunasEsValida(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 0)

	_, err := f.uc.RegisterMovement(context.Background(), in(p.ID, entity.MovementTypeEntry, 1, strings.Repeat("ñ", 500)))
	assert.NoError(t, err)
}

// ─── atomicidad ───────────────────────────────────────────────────────────────

func TestRegisterMovement_FalloInyectadoRevierteTodo(t *testing.T) {
	cases := []struct {
		name   string
		runner func(inner inventory.TxRunner) *faultyRunner
	}{
		{"falla el insert del ledger", func(inner inventory.TxRunner) *faultyRunner {
			return &faultyRunner{inner: inner, failMovementWrite: true}
		}},
		{"falla la escritura de cantidad", func(inner inventory.TxRunner) *faultyRunner {
			return &faultyRunner{inner: inner, failUpdate: true}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			p := f.product(t, 10)
			uc := inventory.NewRegisterMovementUseCase(tc.runner(f.runner), f.pub, zerolog.Nop())

			_, err := uc.RegisterMovement(context.Background(), in(p.ID, entity.MovementTypeEntry, 5, "restock"))

			require.Error(t, err)
			assert.ErrorIs(t, err, errInjected)
			assert.False(t, domain.IsDomain(err), "un fallo de infraestructura no es error de dominio")
			assert.Equal(t, int64(10), f.quantity(t, p.ID))
			assert.Empty(t, f.ledger(t, p.ID))
			assert.Empty(t, f.pub.events)

			// El bloqueo se liberó: un registro posterior funciona.
			_, err = f.uc.RegisterMovement(context.Background(), in(p.ID, entity.MovementTypeEntry, 1, "ok"))
			assert.NoError(t, err)
		})
	}
}

func TestRegisterMovement_ContextoCanceladoNoTieneEfecto(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.uc.RegisterMovement(ctx, in(p.ID, entity.MovementTypeEntry, 5, "restock"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(10), f.quantity(t, p.ID))
	assert.Empty(t, f.ledger(t, p.ID))
}

// ─── eventos ──────────────────────────────────────────────────────────────────

func TestRegisterMovement_PublicaEventoTrasCommit(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 10)

	mov, err := f.uc.RegisterMovement(context.Background(), in(p.ID, entity.MovementTypeExit, 4, "venta"))
	require.NoError(t, err)

	require.Len(t, f.pub.events, 1)
	evt := f.pub.events[0]
	assert.Equal(t, mov.ID, evt.MovementID)
	assert.Equal(t, p.ID, evt.ProductID)
	assert.Equal(t, 1, evt.MovementType)
	assert.Equal(t, int64(6), evt.NewQuantity)
	assert.True(t, mov.CreatedAt.Equal(evt.CreatedAt))
}

func TestRegisterMovement_FalloDePublicacionNoAfecta(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("nats caído")
	p := f.product(t, 10)

	_, err := f.uc.RegisterMovement(context.Background(), in(p.ID, entity.MovementTypeEntry, 1, "x"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), f.quantity(t, p.ID))
}

// ─── concurrencia ─────────────────────────────────────────────────────────────

func TestRegisterMovement_DosSalidasConcurrentes(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 10)

	var (
		wg           sync.WaitGroup
		ok, rejected atomic.Int32
		start        = make(chan struct{})
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.uc.RegisterMovement(context.Background(), in(p.ID, entity.MovementTypeExit, 6, "venta"))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(1), rejected.Load())
	assert.Equal(t, int64(4), f.quantity(t, p.ID))
	assert.Len(t, f.ledger(t, p.ID), 1)
}

func TestRegisterMovement_ReplayBajoCarga(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, 50)
	b := f.product(t, 5)
	ctx := context.Background()

	inputs := make([]inventory.MovementInputDTO, 0, 200)
	for i := 0; i < 200; i++ {
		id := a.ID
		if i%3 == 0 {
			id = b.ID
		}
		switch i % 4 {
		case 0:
			inputs = append(inputs, in(id, entity.MovementTypeEntry, int64(i%7+1), "entrada"))
		case 1, 2:
			inputs = append(inputs, in(id, entity.MovementTypeExit, int64(i%5+1), "salida"))
		default:
			inputs = append(inputs, in(id, entity.MovementTypeAdjustment, int64(i%9-4)|1, "ajuste"))
		}
	}

	var wg sync.WaitGroup
	for _, input := range inputs {
		wg.Add(1)
		go func(input inventory.MovementInputDTO) {
			defer wg.Done()
			_, err := f.uc.RegisterMovement(ctx, input)
			if err != nil && !domain.IsDomain(err) {
				t.Errorf("error inesperado: %v", err)
			}
		}(input)
	}
	wg.Wait()

	recs, err := f.query.ReconcileAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.True(t, r.Consistent(), "producto %d: esperado %d, actual %d", r.ProductID, r.Expected, r.Actual)
		assert.GreaterOrEqual(t, r.Actual, int64(0))
	}

	// IDs estrictamente crecientes en el ledger global.
	all, err := f.movs.List(ctx)
	require.NoError(t, err)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
}

// ─── adaptador de request ─────────────────────────────────────────────────────

func TestRegisterMovementFromRequest_Respuesta(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 3)

	resp, err := f.uc.RegisterMovementFromRequest(context.Background(), dto.RegisterMovementRequest{
		ProductID: p.ID, Quantity: 2, MovementType: 2, Description: "recuento",
	})
	require.NoError(t, err)
	assert.Equal(t, "Adjustment", resp.MovementTypeName)
	require.NotNil(t, resp.Product)
	assert.Equal(t, int64(5), resp.Product.Quantity)
}
