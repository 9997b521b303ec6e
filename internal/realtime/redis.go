package realtime

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher - teruskan snapshot antrian ke channel Redis,
// supaya display di proses lain bisa subscribe.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, payload []byte) error {
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return errors.Wrapf(err, "realtime : publish ke %s gagal", p.channel)
	}
	return nil
}
