package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_OrderPlaced(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	msg, err := encode("A-1", Envelope{
		Type:       TypeOrderPlaced,
		OccurredAt: at,
		Payload: OrderPlaced{
			OrderID:           "o1",
			OrderNumber:       "A-1",
			DropoffLocationID: "market",
			Lines:             2,
			Units:             5,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "A-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "type", msg.Headers[0].Key)
	assert.Equal(t, TypeOrderPlaced, string(msg.Headers[0].Value))
	assert.JSONEq(t, `{
		"type": "order.placed",
		"occurred_at": "2026-05-01T10:00:00Z",
		"payload": {
			"order_id": "o1",
			"order_number": "A-1",
			"dropoff_location_id": "market",
			"lines": 2,
			"units": 5
		}
	}`, string(msg.Value))
}

func TestEncode_UnmarshalablePayload(t *testing.T) {
	_, err := encode("k", Envelope{Type: "bad", Payload: make(chan int)})
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), "k", Envelope{Type: TypeOrderPlaced}))
	assert.NoError(t, p.Close())
}
