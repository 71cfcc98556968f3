package entity

import "time"

// MovementType clasifica un movimiento de stock. Los valores numéricos viajan
// tal cual por la API y se guardan en la columna movement_type: no renumerar.
type MovementType int

const (
	MovementTypeEntry      MovementType = 0 // entrada
	MovementTypeExit       MovementType = 1 // salida
	MovementTypeAdjustment MovementType = 2 // ajuste con signo
)

// Valid indica si t pertenece a la enumeración cerrada.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeAdjustment:
		return true
	}
	return false
}

func (t MovementType) String() string {
	switch t {
	case MovementTypeEntry:
		return "Entry"
	case MovementTypeExit:
		return "Exit"
	case MovementTypeAdjustment:
		return "Adjustment"
	}
	return "Unknown"
}

// Label nombre en español para reportes.
func (t MovementType) Label() string {
	switch t {
	case MovementTypeEntry:
		return "Entrada"
	case MovementTypeExit:
		return "Salida"
	case MovementTypeAdjustment:
		return "Ajuste"
	}
	return "Desconocido"
}

// StockMovement es una fila inmutable del ledger de stock.
// Quantity es magnitud para Entry/Exit y delta con signo para Adjustment.
// Product se resuelve solo en lecturas; nunca se persiste desde aquí.
type StockMovement struct {
	ID           int64
	ProductID    int64
	MovementType MovementType
	Quantity     int64
	Description  string
	CreatedAt    time.Time

	Product *Product
}
