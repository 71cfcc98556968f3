package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// countingRepo cuenta las lecturas que llegan al repositorio real.
type countingRepo struct {
	repository.StockMovementRepository
	gets int
}

func (c *countingRepo) GetByID(ctx context.Context, id int64) (*entity.StockMovement, error) {
	c.gets++
	return c.StockMovementRepository.GetByID(ctx, id)
}

const testInstance = "test-instance"

func newCachedStore(t *testing.T, mr *miniredis.Miniredis, instanceID string, qty int64, description string) (*CachedMovementRepo, *countingRepo) {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := memory.NewStore()
	inner := &countingRepo{StockMovementRepository: memory.NewStockMovementRepository(store)}
	require.NoError(t, inner.Create(context.Background(), &entity.StockMovement{
		ProductID:    1,
		MovementType: entity.MovementTypeEntry,
		Quantity:     qty,
		Description:  description,
	}))
	return NewCachedMovementRepository(inner, client, instanceID, time.Minute, zerolog.Nop()), inner
}

func setupCache(t *testing.T) (*CachedMovementRepo, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	repo, inner := newCachedStore(t, mr, testInstance, 5, "compra")
	return repo, inner, mr
}

func TestCachedMovementRepo_SegundaLecturaDesdeCache(t *testing.T) {
	repo, inner, mr := setupCache(t)
	ctx := context.Background()

	first, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, mr.Exists("ledger:test-instance:movement:1"))

	second, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.gets)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Quantity, second.Quantity)
	assert.Equal(t, first.MovementType, second.MovementType)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.Nil(t, second.Product)
}

func TestCachedMovementRepo_NoExisteNoSeCachea(t *testing.T) {
	repo, _, mr := setupCache(t)

	m, err := repo.GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.False(t, mr.Exists("ledger:test-instance:movement:99"))
}

func TestCachedMovementRepo_RedisCaidoLeeDelRepositorio(t *testing.T) {
	repo, inner, mr := setupCache(t)
	mr.Close()

	m, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 1, inner.gets)
}

func TestCachedMovementRepo_TTL(t *testing.T) {
	repo, _, mr := setupCache(t)

	_, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("ledger:test-instance:movement:1"))
}

func TestCachedMovementRepo_InstanciasNoCompartenClaves(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	first, _ := newCachedStore(t, mr, "instancia-a", 7, "primer proceso")
	second, _ := newCachedStore(t, mr, "instancia-b", 3, "segundo proceso")

	m, err := first.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "primer proceso", m.Description)

	m, err = second.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "segundo proceso", m.Description)
	assert.Equal(t, int64(3), m.Quantity)
}
