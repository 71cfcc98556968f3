package spreadsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-ledger/internal/application/report"
)

var _ report.Renderer = (*CSVRenderer)(nil)

// CSVRenderer genera CSV separado por ';' y codificado en Windows-1252,
// que es lo que espera Excel en configuración regional es-CO al abrir el archivo directo.
type CSVRenderer struct{}

// NewCSVRenderer construye el renderer.
func NewCSVRenderer() *CSVRenderer { return &CSVRenderer{} }

func (*CSVRenderer) ContentType() string { return "text/csv; charset=windows-1252" }
func (*CSVRenderer) Extension() string   { return "csv" }

// Render escribe encabezado, una línea por movimiento y la fila de totales.
// Caracteres sin representación en Windows-1252 se reemplazan por '?'.
func (*CSVRenderer) Render(_ context.Context, r *report.StockMovementReport) ([]byte, error) {
	var buf bytes.Buffer
	enc := transform.NewWriter(&buf, charmap.Windows1252.NewEncoder())
	w := csv.NewWriter(enc)
	w.Comma = ';'
	w.UseCRLF = true

	records := make([][]string, 0, len(r.Rows)+2)
	records = append(records, columnHeaders)
	for _, row := range r.Rows {
		records = append(records, []string{
			strconv.FormatInt(row.MovementID, 10),
			row.CreatedAt.Format(dateTimeLayout),
			strconv.FormatInt(row.ProductID, 10),
			sanitize(row.ProductName),
			row.TypeLabel,
			strconv.FormatInt(row.Quantity, 10),
			strconv.FormatInt(row.Delta, 10),
			sanitize(row.Description),
		})
	}
	records = append(records, []string{
		"TOTAL", "", "", fmt.Sprintf("%d movimientos", r.Totals.Movements), "", "", strconv.FormatInt(r.Totals.Net, 10), "",
	})

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("spreadsheet: escribir csv: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("spreadsheet: codificar csv: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitize reemplaza las runas que Windows-1252 no puede codificar.
func sanitize(s string) string {
	enc := charmap.Windows1252
	out := []rune(s)
	for i, r := range out {
		if _, ok := enc.EncodeRune(r); !ok {
			out[i] = '?'
		}
	}
	return string(out)
}
