package redislock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-app/internal/pipeline"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a pipeline.Locker shared by every instance talking to one Redis.
type Locker struct {
	client *redis.Client
	prefix string
	log    zerolog.Logger
}

func New(addr, password, prefix string, log zerolog.Logger) (*Locker, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis lock addr is required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "portfolio:lock"
	}
	return &Locker{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		prefix: prefix,
		log:    log.With().Str("component", "redis-lock").Logger(),
	}, nil
}

// Lock takes key with SET NX PX. A held key yields pipeline.ErrBusy.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	redisKey := l.prefix + ":" + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, redisKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, pipeline.ErrBusy
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("failed to release lock")
		}
	}, nil
}

func (l *Locker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *Locker) Close() error {
	return l.client.Close()
}
