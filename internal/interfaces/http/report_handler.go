package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/report"
)

// ReportHandler descarga reportes de movimientos.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockMovement godoc
// @Summary      Reporte de movimientos por rango de fechas
// @Description  startDate y endDate en YYYY-MM-DD (endDate inclusivo) o RFC3339. format: xls (default), csv o pdf.
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.ms-excel
// @Produce      text/csv
// @Produce      application/pdf
// @Param        startDate  query  string  true   "Inicio"
// @Param        endDate    query  string  true   "Fin"
// @Param        format     query  string  false  "xls | csv | pdf"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-movement [get]
func (h *ReportHandler) StockMovement(c *fiber.Ctx) error {
	start, end, err := report.ParseRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return respondError(c, err)
	}
	doc, err := h.uc.StockMovementReport(c.UserContext(), start, end, c.Query("format"))
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment(doc.Filename)
	c.Set(fiber.HeaderContentType, doc.ContentType)
	return c.Send(doc.Content)
}
