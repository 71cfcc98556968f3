// Package backend arma los repositorios y la unidad de trabajo según DB_DRIVER,
// con la caché Redis opcional delante de las lecturas de movimientos.
package backend

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/inventario-ledger/internal/infrastructure/redis"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

// Backend repositorios listos para inyectar en los casos de uso.
// Movements es la vista de lectura (posiblemente cacheada); las escrituras pasan siempre por TxRunner.
type Backend struct {
	Products  repository.ProductRepository
	Movements repository.StockMovementRepository
	Users     repository.UserRepository
	TxRunner  inventory.TxRunner
	// InstanceID identifica el almacenamiento; prefija las claves de la caché.
	InstanceID string

	closers []func()
}

// Open abre el almacenamiento configurado. El caller debe llamar Close.
func Open(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Backend, error) {
	var b *Backend
	switch cfg.DB.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		b = &Backend{
			Products:   memory.NewProductRepository(store),
			Movements:  memory.NewStockMovementRepository(store),
			Users:      memory.NewUserRepository(store),
			TxRunner:   memory.NewTxRunner(store),
			InstanceID: store.InstanceID(),
		}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrar esquema: %w", err)
			}
			log.Info().Msg("esquema aplicado")
		}
		instanceID, err := postgres.InstanceID(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		b = &Backend{
			Products:   postgres.NewProductRepository(pool),
			Movements:  postgres.NewStockMovementRepository(pool),
			Users:      postgres.NewUserRepository(pool),
			TxRunner:   postgres.NewTxRunner(pool, cfg.DB.LockTimeout()),
			InstanceID: instanceID,
			closers:    []func(){pool.Close},
		}
	default:
		return nil, fmt.Errorf("DB_DRIVER desconocido: %q", cfg.DB.Driver)
	}

	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Movements = infraredis.NewCachedMovementRepository(b.Movements, client, b.InstanceID, cfg.Redis.TTL, log)
		b.closers = append(b.closers, func() { closeRedis(client, log) })
		log.Info().Str("addr", cfg.Redis.Addr).Str("instance_id", b.InstanceID).Msg("caché de movimientos en Redis activa")
	}
	return b, nil
}

// Close libera conexiones en orden inverso a su apertura.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

func closeRedis(client *goredis.Client, log zerolog.Logger) {
	if err := client.Close(); err != nil {
		log.Warn().Err(err).Msg("cerrar cliente Redis")
	}
}
