package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_PublishEvent(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := &Producer{writer: w}

	ev := NewEvent(CartItemAdded, "alice", map[string]any{"dish_id": 3, "quantity": 2})
	require.NoError(t, p.PublishEvent(context.Background(), TopicCart, "alice", ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, TopicCart, msg.Topic)
	assert.Equal(t, []byte("alice"), msg.Key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "cart_item_added", got["type"])
	assert.Equal(t, "alice", got["user"])
	assert.NotEmpty(t, got["id"])
	assert.EqualValues(t, 3, got["data"].(map[string]any)["dish_id"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishEventWrapsWriteError(t *testing.T) {
	t.Parallel()

	boom := errors.New("leader not available")
	p := &Producer{writer: &fakeWriter{err: boom}}

	err := p.PublishEvent(context.Background(), TopicOrders, "bob", NewEvent(OrderPlaced, "bob", nil))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), TopicOrders)
}

func TestProducer_PublishEventRejectsUnencodable(t *testing.T) {
	t.Parallel()

	p := &Producer{writer: &fakeWriter{}}
	err := p.PublishEvent(context.Background(), TopicCart, "k", map[string]any{"f": func() {}})
	require.Error(t, err)
}

func TestNew_WithoutBrokersIsNop(t *testing.T) {
	t.Parallel()

	p := New(nil)
	assert.IsType(t, Nop{}, p)
	assert.NoError(t, p.PublishEvent(context.Background(), TopicCart, "k", struct{}{}))
	assert.NoError(t, p.Close())

	assert.IsType(t, &Producer{}, New([]string{"localhost:9092"}))
}
