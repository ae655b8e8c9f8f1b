package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// redisSubscriber adapts a go-redis PubSub to the Subscriber contract.
type redisSubscriber struct {
	sub    *redis.PubSub
	out    chan Message
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewRedisSubscriber subscribes to the given channels and confirms the
// subscription before returning, so a bad Redis address fails at startup
// rather than as a silent dead listener.
func NewRedisSubscriber(ctx context.Context, client *redis.Client, logger *slog.Logger, channels ...string) (Subscriber, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("at least one channel is required")
	}

	sub := client.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe to %v: %w", channels, err)
	}
	logger.Info("subscribed to channels", "channels", channels)

	s := &redisSubscriber{
		sub:    sub,
		out:    make(chan Message),
		logger: logger,
	}
	go s.forward()
	return s, nil
}

// forward copies messages from the Redis subscription to the out channel.
// When the subscription closes, the Redis channel is drained and closed,
// which in turn closes out and signals the consumer to drain.
func (s *redisSubscriber) forward() {
	defer close(s.out)
	for msg := range s.sub.Channel() {
		s.out <- Message{Channel: msg.Channel, Payload: []byte(msg.Payload)}
	}
	s.logger.Debug("subscription channel closed")
}

func (s *redisSubscriber) Messages() <-chan Message {
	return s.out
}

func (s *redisSubscriber) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.sub.Close()
	})
	return s.closeErr
}
