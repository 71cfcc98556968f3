// Package spreadsheet renderiza el reporte de movimientos en formatos de hoja de cálculo:
// SpreadsheetML 2003 (abre en Excel como .xls) y CSV en Windows-1252.
package spreadsheet

import (
	"context"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/jhoicas/inventario-ledger/internal/application/report"
)

var _ report.Renderer = (*WorkbookRenderer)(nil)

const (
	nsSpreadsheet = "urn:schemas-microsoft-com:office:spreadsheet"
	nsOffice      = "urn:schemas-microsoft-com:office:office"
	nsExcel       = "urn:schemas-microsoft-com:office:excel"

	dateTimeLayout = "2006-01-02 15:04:05"
)

var columnHeaders = []string{"ID", "Fecha", "Producto ID", "Producto", "Tipo", "Cantidad", "Efecto", "Descripción"}

// WorkbookRenderer genera un libro SpreadsheetML 2003 con una hoja "Movimientos".
type WorkbookRenderer struct{}

// NewWorkbookRenderer construye el renderer.
func NewWorkbookRenderer() *WorkbookRenderer { return &WorkbookRenderer{} }

func (*WorkbookRenderer) ContentType() string { return "application/vnd.ms-excel" }
func (*WorkbookRenderer) Extension() string   { return "xls" }

// Render arma el documento XML con etree.
func (*WorkbookRenderer) Render(_ context.Context, r *report.StockMovementReport) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateProcInst("mso-application", `progid="Excel.Sheet"`)

	wb := doc.CreateElement("Workbook")
	wb.CreateAttr("xmlns", nsSpreadsheet)
	wb.CreateAttr("xmlns:o", nsOffice)
	wb.CreateAttr("xmlns:x", nsExcel)
	wb.CreateAttr("xmlns:ss", nsSpreadsheet)

	styles := wb.CreateElement("Styles")
	header := styles.CreateElement("Style")
	header.CreateAttr("ss:ID", "header")
	header.CreateElement("Font").CreateAttr("ss:Bold", "1")

	ws := wb.CreateElement("Worksheet")
	ws.CreateAttr("ss:Name", "Movimientos")
	table := ws.CreateElement("Table")

	title := table.CreateElement("Row")
	addCell(title, "String", fmt.Sprintf("Movimientos de stock del %s al %s",
		r.Start.Format(dateTimeLayout), r.End.Format(dateTimeLayout)), "header")

	head := table.CreateElement("Row")
	for _, h := range columnHeaders {
		addCell(head, "String", h, "header")
	}

	for _, row := range r.Rows {
		x := table.CreateElement("Row")
		addCell(x, "Number", strconv.FormatInt(row.MovementID, 10), "")
		addCell(x, "String", row.CreatedAt.Format(dateTimeLayout), "")
		addCell(x, "Number", strconv.FormatInt(row.ProductID, 10), "")
		addCell(x, "String", row.ProductName, "")
		addCell(x, "String", row.TypeLabel, "")
		addCell(x, "Number", strconv.FormatInt(row.Quantity, 10), "")
		addCell(x, "Number", strconv.FormatInt(row.Delta, 10), "")
		addCell(x, "String", row.Description, "")
	}

	table.CreateElement("Row")
	for _, t := range []struct {
		label string
		value int64
	}{
		{"Movimientos", int64(r.Totals.Movements)},
		{"Entradas", r.Totals.Entries},
		{"Salidas", r.Totals.Exits},
		{"Ajustes (neto)", r.Totals.Adjustment},
		{"Variación neta", r.Totals.Net},
	} {
		x := table.CreateElement("Row")
		addCell(x, "String", t.label, "header")
		addCell(x, "Number", strconv.FormatInt(t.value, 10), "")
	}

	doc.Indent(1)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: serializar libro: %w", err)
	}
	return out, nil
}

func addCell(row *etree.Element, kind, value, style string) {
	cell := row.CreateElement("Cell")
	if style != "" {
		cell.CreateAttr("ss:StyleID", style)
	}
	data := cell.CreateElement("Data")
	data.CreateAttr("ss:Type", kind)
	data.SetText(value)
}
