package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

var _ inventory.MovementPublisher = (*MovementPublisher)(nil)

// conn subconjunto de *nats.Conn usado por el publicador.
type conn interface {
	PublishMsg(m *nats.Msg) error
	FlushWithContext(ctx context.Context) error
}

// MovementPublisher publica MovementRegistered como JSON en un subject de NATS.
// El header Nats-Msg-Id lleva el ID del movimiento para que JetStream pueda deduplicar.
type MovementPublisher struct {
	nc      conn
	subject string
}

// NewMovementPublisher construye el publicador sobre una conexión abierta.
func NewMovementPublisher(nc *nats.Conn, subject string) *MovementPublisher {
	return &MovementPublisher{nc: nc, subject: subject}
}

// PublishMovementRegistered serializa el evento, lo publica y espera el flush al servidor.
func (p *MovementPublisher) PublishMovementRegistered(ctx context.Context, evt inventory.MovementRegistered) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, strconv.FormatInt(evt.MovementID, 10))

	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	if err := p.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", p.subject, err)
	}
	return nil
}

// Connect abre la conexión a NATS con reconexión indefinida y logs de desconexión.
func Connect(url, name string, log zerolog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS desconectado")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconectado")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}
