package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// MovementHandler expone el ledger de movimientos de stock.
type MovementHandler struct {
	register *inventory.RegisterMovementUseCase
	query    *inventory.QueryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(register *inventory.RegisterMovementUseCase, query *inventory.QueryUseCase) *MovementHandler {
	return &MovementHandler{register: register, query: query}
}

// Register godoc
// @Summary      Registrar movimiento de stock
// @Description  Entrada (0), salida (1) o ajuste con signo (2). Actualiza la cantidad del producto en la misma transacción.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "", "cuerpo inválido")
	}
	out, err := h.register.RegisterMovementFromRequest(c.UserContext(), in)
	if err != nil {
		return respondMovementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	list, err := h.query.GetAllMovements(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementResponses(list))
}

// ListByProduct godoc
// @Summary      Movimientos de un producto
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        productId  path  int  true  "ID del producto"
// @Success      200  {array}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/product/{productId} [get]
func (h *MovementHandler) ListByProduct(c *fiber.Ctx) error {
	productID, ok := paramID(c, "productId")
	if !ok {
		return badRequest(c, "productId", "debe ser un entero")
	}
	list, err := h.query.GetMovementsByProduct(c.UserContext(), productID)
	if err != nil {
		return respondMovementError(c, err)
	}
	return c.JSON(dto.ToMovementResponses(list))
}

// Reconcile godoc
// @Summary      Reconciliar producto contra el ledger
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        productId  path  int  true  "ID del producto"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/product/{productId}/reconcile [get]
func (h *MovementHandler) Reconcile(c *fiber.Ctx) error {
	productID, ok := paramID(c, "productId")
	if !ok {
		return badRequest(c, "productId", "debe ser un entero")
	}
	r, err := h.query.Reconcile(c.UserContext(), productID)
	if err != nil {
		return respondMovementError(c, err)
	}
	return c.JSON(dto.ReconciliationResponse{
		ProductID:       r.ProductID,
		InitialQuantity: r.InitialQuantity,
		LedgerTotal:     r.LedgerTotal,
		Expected:        r.Expected,
		Actual:          r.Actual,
		Movements:       r.Movements,
		Consistent:      r.Consistent(),
	})
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "debe ser un entero")
	}
	mov, err := h.query.GetMovementByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(mov))
}

// paramID solo rechaza lo que no es entero. Un ID no positivo llega al caso de uso,
// que lo reporta como no encontrado.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
