package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// Migrate aplica el esquema embebido. Todas las sentencias son idempotentes.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// InstanceID devuelve el identificador de la base creado por el esquema.
func InstanceID(ctx context.Context, q Querier) (string, error) {
	var id string
	err := q.QueryRow(ctx, `SELECT id::text FROM ledger_instance`).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", errors.New("ledger_instance vacío: aplique el esquema (DB_AUTO_MIGRATE=true)")
	}
	if err != nil {
		return "", fmt.Errorf("read instance id: %w", err)
	}
	return id, nil
}
