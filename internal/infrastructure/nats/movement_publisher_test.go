package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

type fakeConn struct {
	published  []*nats.Msg
	publishErr error
	flushes    int
}

func (f *fakeConn) PublishMsg(m *nats.Msg) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, m)
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error {
	f.flushes++
	return nil
}

func TestPublishMovementRegistered_JSONYHeader(t *testing.T) {
	fc := &fakeConn{}
	p := &MovementPublisher{nc: fc, subject: "inventory.movements.registered"}

	evt := inventory.MovementRegistered{
		MovementID:   42,
		ProductID:    7,
		MovementType: 1,
		Quantity:     3,
		NewQuantity:  9,
		Description:  "venta",
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, p.PublishMovementRegistered(context.Background(), evt))

	require.Len(t, fc.published, 1)
	msg := fc.published[0]
	assert.Equal(t, "inventory.movements.registered", msg.Subject)
	assert.Equal(t, "42", msg.Header.Get(nats.MsgIdHdr))
	assert.Equal(t, 1, fc.flushes)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	assert.Equal(t, float64(7), body["productId"])
	assert.Equal(t, float64(9), body["newQuantity"])
	assert.Equal(t, "2026-01-02T03:04:05Z", body["createdAt"])
}

func TestPublishMovementRegistered_ErrorDePublicacion(t *testing.T) {
	fc := &fakeConn{publishErr: nats.ErrConnectionClosed}
	p := &MovementPublisher{nc: fc, subject: "s"}

	err := p.PublishMovementRegistered(context.Background(), inventory.MovementRegistered{MovementID: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, nats.ErrConnectionClosed))
	assert.Zero(t, fc.flushes)
}
