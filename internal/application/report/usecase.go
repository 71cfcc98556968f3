package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// MovementSource fuente de movimientos por rango (inventory.QueryUseCase).
type MovementSource interface {
	GetMovementsInRange(ctx context.Context, start, end time.Time) ([]*entity.StockMovement, error)
}

// Document resultado listo para descargar.
type Document struct {
	Content     []byte
	ContentType string
	Filename    string
}

// UseCase genera el reporte de movimientos de stock en el formato pedido.
type UseCase struct {
	source    MovementSource
	renderers map[Format]Renderer
	now       func() time.Time
}

// NewUseCase construye el caso de uso. renderers asocia cada formato soportado a su adaptador.
func NewUseCase(source MovementSource, renderers map[Format]Renderer) *UseCase {
	return &UseCase{source: source, renderers: renderers, now: time.Now}
}

// StockMovementReport valida el rango, consulta los movimientos y los renderiza.
//
// Retorna:
//   - *domain.ValidationError si start > end o el formato no está soportado.
//   - error envuelto si falla la consulta o el renderizado.
func (uc *UseCase) StockMovementReport(ctx context.Context, start, end time.Time, format string) (*Document, error) {
	if start.After(end) {
		return nil, domain.NewValidationError("startDate", "la fecha inicial no puede ser posterior a la final")
	}
	f := Format(strings.ToLower(strings.TrimSpace(format)))
	if f == "" {
		f = FormatXLS
	}
	renderer, ok := uc.renderers[f]
	if !ok {
		return nil, domain.NewValidationError("format", fmt.Sprintf("formato %q no soportado", format))
	}

	movements, err := uc.source.GetMovementsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("reporte: consultar movimientos: %w", err)
	}

	data := Build(start, end, uc.now(), movements)
	content, err := renderer.Render(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("reporte: renderizar %s: %w", f, err)
	}

	filename := fmt.Sprintf("movimientos_%s_%s.%s",
		start.Format("20060102"), end.Format("20060102"), renderer.Extension())
	return &Document{
		Content:     content,
		ContentType: renderer.ContentType(),
		Filename:    filename,
	}, nil
}

// Build arma las filas y los totales a partir de los movimientos del período.
func Build(start, end, generatedAt time.Time, movements []*entity.StockMovement) *StockMovementReport {
	r := &StockMovementReport{
		Start:       start,
		End:         end,
		GeneratedAt: generatedAt,
		Rows:        make([]Row, 0, len(movements)),
	}
	for _, m := range movements {
		name := ""
		if m.Product != nil {
			name = m.Product.Name
		}
		delta := inventory.SignedDelta(m.MovementType, m.Quantity)
		r.Rows = append(r.Rows, Row{
			MovementID:  m.ID,
			CreatedAt:   m.CreatedAt,
			ProductID:   m.ProductID,
			ProductName: name,
			TypeLabel:   m.MovementType.Label(),
			Quantity:    m.Quantity,
			Delta:       delta,
			Description: m.Description,
		})

		switch m.MovementType {
		case entity.MovementTypeEntry:
			r.Totals.Entries += m.Quantity
		case entity.MovementTypeExit:
			r.Totals.Exits += m.Quantity
		case entity.MovementTypeAdjustment:
			r.Totals.Adjustment += m.Quantity
		}
		r.Totals.Net += delta
	}
	r.Totals.Movements = len(r.Rows)
	return r
}
