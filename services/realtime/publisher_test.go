package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{channel: ch}

	err := p.Publish(context.Background(), "booking.job_started", map[string]any{"bookingId": "bk-1", "status": "In_Progress"})
	require.NoError(t, err)

	assert.Equal(t, ExchangeName, ch.exchange)
	assert.Equal(t, "booking.job_started", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)

	var body map[string]string
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	assert.Equal(t, "In_Progress", body["status"])

	p.Close()
	assert.True(t, ch.closed)
}

func TestPublish_Errors(t *testing.T) {
	p := &Publisher{channel: &fakeChannel{err: errors.New("channel closed")}}
	assert.Error(t, p.Publish(context.Background(), "booking.created", map[string]string{}))
	assert.Error(t, p.Publish(context.Background(), "booking.created", make(chan int)))
}
