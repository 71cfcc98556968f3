package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con su contador de existencias.
// Quantity solo cambia como efecto de un movimiento de stock confirmado;
// InitialQuantity es la cantidad con la que se creó y sirve para reconstruir Quantity desde el ledger.
type Product struct {
	ID              int64
	Name            string
	Description     string
	Price           decimal.Decimal
	Category        string
	Brand           string
	InitialQuantity int64
	Quantity        int64
	IsDeleted       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsMovable indica si el producto puede recibir movimientos (existe y no está eliminado).
func (p *Product) IsMovable() bool {
	return p != nil && !p.IsDeleted
}
