package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	mov, err := uc.RegisterMovement(ctx, MovementInputDTO{
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		MovementType: entity.MovementType(in.MovementType),
		Description:  in.Description,
	})
	if err != nil {
		return nil, err
	}
	return dto.ToMovementResponse(mov), nil
}
