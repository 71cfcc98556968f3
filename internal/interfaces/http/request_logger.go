package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Locals keys del request logger.
const (
	LocalRequestID = "request_id"
	LocalLogger    = "logger"

	headerRequestID = "X-Request-ID"
)

// RequestLogger asigna un request_id (o respeta el X-Request-ID entrante), deja un sublogger
// en c.Locals y registra método, ruta, status y latencia al terminar.
func RequestLogger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(headerRequestID)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}
		c.Set(headerRequestID, requestID)
		l := base.With().Str("request_id", requestID).Logger()
		c.Locals(LocalRequestID, requestID)
		c.Locals(LocalLogger, l)

		start := time.Now()
		if err := c.Next(); err != nil {
			// El status final lo fija el ErrorHandler de la app.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		evt := l.Info()
		switch {
		case status >= 500:
			evt = l.Error()
		case status >= 400:
			evt = l.Warn()
		}
		evt.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")
		return nil
	}
}

// RequestLog devuelve el logger del request o el global si el middleware no corrió.
func RequestLog(c *fiber.Ctx) *zerolog.Logger {
	if l, ok := c.Locals(LocalLogger).(zerolog.Logger); ok {
		return &l
	}
	return &log.Logger
}
