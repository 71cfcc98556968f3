package report

import (
	"context"
	"time"
)

// Format formato de salida del reporte.
type Format string

const (
	FormatXLS Format = "xls"
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Row una línea del reporte (un movimiento).
type Row struct {
	MovementID  int64
	CreatedAt   time.Time
	ProductID   int64
	ProductName string
	TypeLabel   string
	Quantity    int64 // valor registrado
	Delta       int64 // efecto con signo sobre el stock
	Description string
}

// Totals agregados del período.
type Totals struct {
	Movements  int
	Entries    int64
	Exits      int64
	Adjustment int64 // suma neta de ajustes
	Net        int64
}

// StockMovementReport datos ya calculados, independientes del formato.
type StockMovementReport struct {
	Start       time.Time
	End         time.Time
	GeneratedAt time.Time
	Rows        []Row
	Totals      Totals
}

// Renderer puerto de salida: convierte el reporte a bytes en un formato concreto.
// Los adaptadores viven en infrastructure (etree, csv, maroto).
type Renderer interface {
	Render(ctx context.Context, r *StockMovementReport) ([]byte, error)
	ContentType() string
	Extension() string
}
