package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, "pharmacy:queue")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewRedisPublisher(rdb, "pharmacy:queue")
	require.NoError(t, pub.Publish(ctx, []byte(`{"type":"queue_update"}`)))

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, "pharmacy:queue", msg.Channel)
		assert.Equal(t, `{"type":"queue_update"}`, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestRedisPublisherError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	defer rdb.Close()

	err = NewRedisPublisher(rdb, "pharmacy:queue").Publish(context.Background(), []byte("x"))
	assert.Error(t, err)
}
