// Package pdf renderiza el reporte de movimientos de stock con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + período      │  Fecha de generación       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Fecha | Producto | Tipo | Cant. | Efecto | Desc │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Ajustes / Variación neta      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-ledger/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

const dateLayout = "02/01/2006 15:04"

var _ report.Renderer = (*ReportRenderer)(nil)

// ── Renderer ──────────────────────────────────────────────────────────────────

// ReportRenderer implementa report.Renderer usando Maroto v2.
type ReportRenderer struct{}

// NewReportRenderer construye el renderer.
func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

func (*ReportRenderer) ContentType() string { return "application/pdf" }
func (*ReportRenderer) Extension() string   { return "pdf" }

// Render genera el PDF y devuelve sus bytes.
func (*ReportRenderer) Render(_ context.Context, r *report.StockMovementReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Reporte de movimientos de stock", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(r.Rows)...)
	if len(r.Rows) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos en el período.", props.Text{Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r.Totals))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + período (izq) y fecha de generación (der).
func headerRow(r *report.StockMovementReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("MOVIMIENTOS DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Período: %s a %s", r.Start.Format(dateLayout), r.End.Format(dateLayout)), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+r.GeneratedAt.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla con fondo primario.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Center),
		h("Fecha", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Tipo", 1, align.Center),
		h("Cant.", 1, align.Right),
		h("Efecto", 1, align.Right),
		h("Descripción", 3, align.Left),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows: una fila por movimiento, con franjas alternas.
func tableRows(rows []report.Row) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for i, d := range rows {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		product := d.ProductName
		if product == "" {
			product = "#" + strconv.FormatInt(d.ProductID, 10)
		}
		r := row.New(7).Add(
			cell(strconv.FormatInt(d.MovementID, 10), 1, align.Center),
			cell(d.CreatedAt.Format(dateLayout), 2, align.Left),
			cell(product, 3, align.Left),
			cell(d.TypeLabel, 1, align.Center),
			cell(formatQuantity(d.Quantity), 1, align.Right),
			cell(formatSigned(d.Delta), 1, align.Right),
			cell(d.Description, 3, align.Left),
		)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, r)
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(t report.Totals) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Movimientos:"),
			label("Entradas:"),
			label("Salidas:"),
			label("Ajustes (neto):"),
			label("Variación neta:"),
		),
		col.New(3).Add(
			value(strconv.Itoa(t.Movements)),
			value(formatQuantity(t.Entries)),
			value(formatQuantity(t.Exits)),
			value(formatSigned(t.Adjustment)),
			value(formatSigned(t.Net)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatQuantity inserta puntos de miles. Ej: 25000 → "25.000", -1000 → "-1.000".
func formatQuantity(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}

func formatSigned(n int64) string {
	if n > 0 {
		return "+" + formatQuantity(n)
	}
	return formatQuantity(n)
}
