package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*CachedMovementRepo)(nil)

const keyPrefix = "ledger:"

// cachedMovement fila del ledger tal como se guarda en Redis. No incluye el producto:
// su cantidad cambia y se resuelve en cada lectura.
type cachedMovement struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"productId"`
	MovementType int       `json:"movementType"`
	Quantity     int64     `json:"quantity"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CachedMovementRepo decora un StockMovementRepository con caché read-through de GetByID.
// Los movimientos son inmutables, así que las entradas nunca se invalidan; el TTL solo acota memoria.
// Si Redis falla se lee directo del repositorio.
// Las claves llevan el instanceID del almacenamiento: los IDs solo son únicos dentro de una
// misma base (o proceso, en memoria) y varias instancias pueden compartir el mismo Redis.
type CachedMovementRepo struct {
	repository.StockMovementRepository
	client     *redis.Client
	instanceID string
	ttl        time.Duration
	log        zerolog.Logger
}

// NewCachedMovementRepository construye el decorador.
func NewCachedMovementRepository(inner repository.StockMovementRepository, client *redis.Client, instanceID string, ttl time.Duration, log zerolog.Logger) *CachedMovementRepo {
	return &CachedMovementRepo{
		StockMovementRepository: inner,
		client:                  client,
		instanceID:              instanceID,
		ttl:                     ttl,
		log:                     log.With().Str("component", "movement_cache").Logger(),
	}
}

// GetByID busca primero en Redis; en un miss lee del repositorio y guarda la fila.
func (r *CachedMovementRepo) GetByID(ctx context.Context, id int64) (*entity.StockMovement, error) {
	key := movementKey(r.instanceID, id)

	val, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cm cachedMovement
		if jerr := json.Unmarshal(val, &cm); jerr == nil {
			return cm.toEntity(), nil
		}
		r.log.Warn().Int64("movement_id", id).Msg("entrada de caché corrupta, se ignora")
	case errors.Is(err, redis.Nil):
	default:
		r.log.Warn().Err(err).Int64("movement_id", id).Msg("lectura de caché fallida")
	}

	m, err := r.StockMovementRepository.GetByID(ctx, id)
	if err != nil || m == nil {
		return m, err
	}

	if err := r.store(ctx, key, m); err != nil {
		r.log.Warn().Err(err).Int64("movement_id", id).Msg("escritura de caché fallida")
	}
	return m, nil
}

func (r *CachedMovementRepo) store(ctx context.Context, key string, m *entity.StockMovement) error {
	data, err := json.Marshal(fromEntity(m))
	if err != nil {
		return fmt.Errorf("marshal movement: %w", err)
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func movementKey(instanceID string, id int64) string {
	return fmt.Sprintf("%s%s:movement:%d", keyPrefix, instanceID, id)
}

func fromEntity(m *entity.StockMovement) cachedMovement {
	return cachedMovement{
		ID:           m.ID,
		ProductID:    m.ProductID,
		MovementType: int(m.MovementType),
		Quantity:     m.Quantity,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt,
	}
}

func (c cachedMovement) toEntity() *entity.StockMovement {
	return &entity.StockMovement{
		ID:           c.ID,
		ProductID:    c.ProductID,
		MovementType: entity.MovementType(c.MovementType),
		Quantity:     c.Quantity,
		Description:  c.Description,
		CreatedAt:    c.CreatedAt,
	}
}
