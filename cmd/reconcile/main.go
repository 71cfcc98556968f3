// Comando reconcile reconstruye la cantidad de cada producto desde el ledger y
// la compara con el contador persistido. Sale con código 1 si hay diferencias.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/backend"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, *cfg, log.Zerolog())
	if err != nil {
		log.Error().Err(err).Msg("abrir almacenamiento")
		return 2
	}
	defer store.Close()

	query := inventory.NewQueryUseCase(store.TxRunner, store.Movements, store.Products)
	results, err := query.ReconcileAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconciliación interrumpida")
		return 2
	}

	drift := 0
	for _, r := range results {
		if r.Consistent() {
			continue
		}
		drift++
		log.Error().
			Int64("product_id", r.ProductID).
			Int64("initial_quantity", r.InitialQuantity).
			Int64("ledger_total", r.LedgerTotal).
			Int64("expected", r.Expected).
			Int64("actual", r.Actual).
			Int("movements", r.Movements).
			Msg("cantidad no coincide con el ledger")
	}
	log.Info().Int("products", len(results)).Int("inconsistent", drift).Msg("reconciliación terminada")
	if drift > 0 {
		return 1
	}
	return 0
}
