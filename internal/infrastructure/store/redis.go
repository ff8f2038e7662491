package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"dynmcp/internal/config"
)

const keyspacePrefix = "__keyspace@0__:"

// RedisStore serves the BackingStore contract from a redis instance. Change
// propagation relies on keyspace notifications (notify-keyspace-events must
// include K and g/$ classes on the server).
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) GetPrefix(ctx context.Context, prefix string) ([]KV, error) {
	var out []KV
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, KV{Key: key, Value: val})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RedisStore) Watch(ctx context.Context, prefix string) <-chan WatchEvent {
	events := make(chan WatchEvent, 64)
	go func() {
		defer close(events)
		delay := backoffInitial
		pattern := keyspacePrefix + prefix + "*"
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			pubsub := s.client.PSubscribe(ctx, pattern)
			if _, err := pubsub.Receive(ctx); err != nil {
				_ = pubsub.Close()
				if ctx.Err() != nil {
					return
				}
				log.Warn().Err(err).Str("pattern", pattern).Msg("redis subscribe failed")
				if !sleepCtx(ctx, delay) {
					return
				}
				delay = nextBackoff(delay)
				continue
			}
			delay = backoffInitial

			ch := pubsub.Channel()
		recv:
			for {
				select {
				case <-ctx.Done():
					_ = pubsub.Close()
					return
				case msg, ok := <-ch:
					if !ok {
						break recv
					}
					key := strings.TrimPrefix(msg.Channel, keyspacePrefix)
					ev := WatchEvent{Key: key}
					switch msg.Payload {
					case "set":
						val, err := s.client.Get(ctx, key).Result()
						if errors.Is(err, redis.Nil) {
							continue
						}
						if err != nil {
							log.Warn().Err(err).Str("key", key).Msg("redis fetch after set failed")
							continue
						}
						ev.Type = EventPut
						ev.Value = val
					case "del", "expired":
						ev.Type = EventDelete
					default:
						ev.Type = EventUnknown
					}
					select {
					case events <- ev:
					case <-ctx.Done():
						_ = pubsub.Close()
						return
					}
				}
			}
			_ = pubsub.Close()
			if ctx.Err() != nil {
				return
			}
			log.Info().Str("pattern", pattern).Dur("retry_in", delay).Msg("redis watch reconnecting")
			if !sleepCtx(ctx, delay) {
				return
			}
		}
	}()
	return events
}

func (s *RedisStore) Put(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
