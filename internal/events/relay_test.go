package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"storefront_backend/internal/testutil"
	"storefront_backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic, key string
	payload    []byte
}

type fakePublisher struct {
	sent   []published
	failAt int // 1-based publish call that fails; 0 never fails
	calls  int
}

func (f *fakePublisher) Publish(_ context.Context, topic, key string, payload []byte) error {
	f.calls++
	if f.calls == f.failAt {
		return errors.New("broker unavailable")
	}
	f.sent = append(f.sent, published{topic, key, payload})
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func TestEnqueueWritesEnvelope(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, Enqueue(db, "orders", "order-1", TypeOrderStatusChanged, OrderStatusChanged{
		OrderID: "order-1",
		UserID:  7,
		From:    "PENDING",
		Status:  "COMPLETED",
	}))

	var ev models.OutboxEvent
	require.NoError(t, db.First(&ev).Error)
	assert.Equal(t, "orders", ev.Topic)
	assert.Equal(t, "order-1", ev.Key)
	assert.Nil(t, ev.SentAt)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(ev.Payload), &envelope))
	assert.Equal(t, ev.EventID, envelope["eventId"])
	assert.Equal(t, TypeOrderStatusChanged, envelope["type"])
	assert.Equal(t, "COMPLETED", envelope["data"].(map[string]interface{})["status"])
}

func TestRelayFlush(t *testing.T) {
	db := testutil.NewDB(t)
	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, Enqueue(db, "orders", key, TypeOrderCreated, OrderCreated{OrderID: key}))
	}

	pub := &fakePublisher{}
	relay := NewRelay(db, pub, 0)

	n, err := relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, pub.sent, 3)
	assert.Equal(t, "a", pub.sent[0].key)
	assert.Equal(t, "c", pub.sent[2].key)

	// Nothing left to send.
	n, err = relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, pub.sent, 3)
}

func TestRelayStopsAtFirstFailure(t *testing.T) {
	db := testutil.NewDB(t)
	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, Enqueue(db, "orders", key, TypeOrderCreated, OrderCreated{OrderID: key}))
	}

	pub := &fakePublisher{failAt: 2}
	relay := NewRelay(db, pub, 0)

	n, err := relay.Flush(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, n)

	pending, err := FetchPending(context.Background(), db, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "b", pending[0].Key)

	// The retry picks up where the failed flush stopped.
	n, err = relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b", "c"}, []string{pub.sent[0].key, pub.sent[1].key, pub.sent[2].key})
}

func TestRelayBatch(t *testing.T) {
	db := testutil.NewDB(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, Enqueue(db, "orders", "k", TypeOrderCreated, OrderCreated{}))
	}

	relay := NewRelay(db, &fakePublisher{}, 0)
	relay.Batch = 2

	n, err := relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, int64(5), testutil.Count(t, db, &models.OutboxEvent{}))
}
