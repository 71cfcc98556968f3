package dto

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/movements.
// movementType: 0 = entrada, 1 = salida, 2 = ajuste (quantity con signo).
type RegisterMovementRequest struct {
	ProductID    int64  `json:"productId"`
	Quantity     int64  `json:"quantity"`
	MovementType int    `json:"movementType"`
	Description  string `json:"description"`
}

// MovementProductDTO referencia resuelta al producto de un movimiento.
type MovementProductDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Brand     string `json:"brand"`
	Quantity  int64  `json:"quantity"`
	IsDeleted bool   `json:"isDeleted"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID               int64               `json:"id"`
	ProductID        int64               `json:"productId"`
	MovementType     int                 `json:"movementType"`
	MovementTypeName string              `json:"movementTypeName"`
	Quantity         int64               `json:"quantity"`
	Description      string              `json:"description"`
	CreatedAt        time.Time           `json:"createdAt"`
	Product          *MovementProductDTO `json:"product,omitempty"`
}

// ReconciliationResponse resultado de reconstruir la cantidad desde el ledger.
type ReconciliationResponse struct {
	ProductID       int64 `json:"productId"`
	InitialQuantity int64 `json:"initialQuantity"`
	LedgerTotal     int64 `json:"ledgerTotal"`
	Expected        int64 `json:"expected"`
	Actual          int64 `json:"actual"`
	Movements       int   `json:"movements"`
	Consistent      bool  `json:"consistent"`
}

// ToMovementResponse mapea la entidad al DTO de salida.
func ToMovementResponse(m *entity.StockMovement) *MovementResponse {
	if m == nil {
		return nil
	}
	out := &MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		MovementType:     int(m.MovementType),
		MovementTypeName: m.MovementType.String(),
		Quantity:         m.Quantity,
		Description:      m.Description,
		CreatedAt:        m.CreatedAt,
	}
	if p := m.Product; p != nil {
		out.Product = &MovementProductDTO{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Brand:     p.Brand,
			Quantity:  p.Quantity,
			IsDeleted: p.IsDeleted,
		}
	}
	return out
}

// ToMovementResponses mapea una lista; nunca devuelve nil para que el JSON sea [].
func ToMovementResponses(list []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *ToMovementResponse(m))
	}
	return out
}
