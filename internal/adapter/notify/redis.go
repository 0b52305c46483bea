package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

// RedisPublisher publishes events as JSON on a Redis pub/sub channel.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	log     *slog.Logger
}

// NewRedis connects to Redis and verifies connectivity.
func NewRedis(ctx context.Context, url, channel string, logger *slog.Logger) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("notify: invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("notify: redis ping failed: %w", err)
	}

	return newRedisPublisher(rdb, channel, logger), nil
}

func newRedisPublisher(rdb *redis.Client, channel string, logger *slog.Logger) *RedisPublisher {
	return &RedisPublisher{
		rdb:     rdb,
		channel: channel,
		log:     logger.With("component", "notify", "channel", channel),
	}
}

// Notify publishes n to the configured channel.
func (p *RedisPublisher) Notify(ctx context.Context, n domain.Notification) error {
	data, err := Encode(n)
	if err != nil {
		return err
	}

	receivers, err := p.rdb.Publish(ctx, p.channel, string(data)).Result()
	if err != nil {
		return fmt.Errorf("notify: publish %s: %w", n.Type, err)
	}

	p.log.DebugContext(ctx, "notification published",
		slog.String("type", n.Type.String()),
		slog.Int64("receivers", receivers),
	)
	return nil
}

// Ping checks that the broker is reachable.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
