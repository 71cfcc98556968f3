package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

const msgInternal = "error interno, intente de nuevo más tarde"

// mapError traduce un error de dominio a status HTTP y cuerpo.
// ok=false indica un error inesperado (infraestructura) que no debe exponerse al cliente.
func mapError(err error) (status int, body dto.ErrorResponse, ok bool) {
	var (
		ise *domain.InsufficientStockError
		ve  *domain.ValidationError
	)
	switch {
	case errors.As(err, &ise):
		available := ise.Available
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code:      dto.CodeInsufficientStock,
			Message:   ise.Error(),
			Available: &available,
		}, true
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: dto.CodeValidation, Message: ve.Error(), Field: ve.Field}, true
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: dto.CodeValidation, Message: err.Error()}, true
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: dto.CodeNotFound, Message: err.Error()}, true
	case errors.Is(err, domain.ErrEmailAlreadyExists), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: dto.CodeDuplicate, Message: err.Error()}, true
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: dto.CodeUnauthorized, Message: "credenciales inválidas"}, true
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: dto.CodeForbidden, Message: err.Error()}, true
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: dto.CodeInternal, Message: msgInternal}, false
}

// respondError escribe la respuesta de error. Los inesperados se registran con el request_id
// y al cliente solo le llega un mensaje genérico.
func respondError(c *fiber.Ctx, err error) error {
	status, body, ok := mapError(err)
	if !ok {
		l := RequestLog(c)
		l.Error().Err(err).Str("path", c.Path()).Msg("error inesperado")
	}
	return c.Status(status).JSON(body)
}

// respondMovementError igual que respondError, pero un producto inexistente es 400:
// en el ledger un productId desconocido es un error de la solicitud, no de la ruta.
func respondMovementError(c *fiber.Ctx, err error) error {
	status, body, ok := mapError(err)
	if ok && status == fiber.StatusNotFound {
		status = fiber.StatusBadRequest
	}
	if !ok {
		l := RequestLog(c)
		l.Error().Err(err).Str("path", c.Path()).Msg("error inesperado")
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, field, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeValidation, Message: message, Field: field})
}
