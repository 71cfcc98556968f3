package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de stock de forma transaccional
// (Entry, Exit, Adjustment) con bloqueo de la fila del producto y Commit/Rollback.
// Es el único camino que modifica Product.Quantity.
type RegisterMovementUseCase struct {
	txRunner  TxRunner
	publisher MovementPublisher
	log       zerolog.Logger
}

// NewRegisterMovementUseCase construye el caso de uso. publisher puede ser nil.
func NewRegisterMovementUseCase(txRunner TxRunner, publisher MovementPublisher, log zerolog.Logger) *RegisterMovementUseCase {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &RegisterMovementUseCase{
		txRunner:  txRunner,
		publisher: publisher,
		log:       log.With().Str("component", "register_movement").Logger(),
	}
}

// MovementInputDTO entrada para registrar un movimiento.
// Quantity es magnitud positiva para Entry/Exit y delta con signo para Adjustment.
type MovementInputDTO struct {
	ProductID    int64
	Quantity     int64
	MovementType entity.MovementType
	Description  string
}

// RegisterMovement valida la solicitud, abre una transacción, bloquea el producto
// (SELECT FOR UPDATE), calcula la nueva cantidad, la escribe, inserta la fila del ledger
// y confirma. Ante cualquier error no queda ningún efecto persistido.
//
// Errores: *domain.ValidationError, domain.ErrNotFound, *domain.InsufficientStockError,
// o un error envuelto de infraestructura (inesperado).
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.StockMovement, error) {
	if err := inventory.ValidateMovement(input.ProductID, input.Quantity, input.MovementType, input.Description); err != nil {
		uc.log.Debug().Err(err).Int64("product_id", input.ProductID).Msg("movimiento rechazado por validación")
		return nil, err
	}

	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		product, err := productRepo.GetByIDForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if !product.IsMovable() {
			return domain.ErrNotFound
		}

		next, err := inventory.Apply(product.ID, product.Quantity, input.MovementType, input.Quantity)
		if err != nil {
			return err
		}
		if err := productRepo.UpdateQuantity(ctx, product.ID, next); err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ProductID:    product.ID,
			MovementType: input.MovementType,
			Quantity:     input.Quantity,
			Description:  input.Description,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}

		resolved := *product
		resolved.Quantity = next
		mov.Product = &resolved
		created = mov
		return nil
	})
	if err != nil {
		if domain.IsDomain(err) {
			uc.log.Debug().Err(err).Int64("product_id", input.ProductID).
				Str("type", input.MovementType.String()).Msg("movimiento rechazado")
			return nil, err
		}
		uc.log.Error().Err(err).Int64("product_id", input.ProductID).
			Str("type", input.MovementType.String()).Msg("fallo al registrar movimiento, transacción revertida")
		return nil, fmt.Errorf("registrar movimiento: %w", err)
	}

	uc.log.Info().
		Int64("movement_id", created.ID).
		Int64("product_id", created.ProductID).
		Str("type", created.MovementType.String()).
		Int64("quantity", created.Quantity).
		Int64("new_quantity", created.Product.Quantity).
		Msg("movimiento registrado")

	uc.publish(ctx, created)
	return created, nil
}

func (uc *RegisterMovementUseCase) publish(ctx context.Context, mov *entity.StockMovement) {
	// El movimiento ya está confirmado; la publicación no depende de que el caller siga esperando.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	evt := MovementRegistered{
		MovementID:   mov.ID,
		ProductID:    mov.ProductID,
		MovementType: int(mov.MovementType),
		Quantity:     mov.Quantity,
		NewQuantity:  mov.Product.Quantity,
		Description:  mov.Description,
		CreatedAt:    mov.CreatedAt,
	}
	if err := uc.publisher.PublishMovementRegistered(pubCtx, evt); err != nil {
		uc.log.Warn().Err(err).Int64("movement_id", mov.ID).Msg("no se pudo publicar el evento de movimiento")
	}
}
