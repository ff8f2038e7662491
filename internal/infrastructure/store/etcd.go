package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	clientv3 "go.etcd.io/etcd/client/v3"

	"dynmcp/internal/config"
)

// EtcdStore serves the BackingStore contract from an etcd cluster. The client
// multiplexes a bounded set of gRPC connections with keep-alive; the watch
// loop reconnects with exponential backoff when the stream breaks.
type EtcdStore struct {
	client *clientv3.Client
}

func NewEtcdStore(cfg config.EtcdConfig) (*EtcdStore, error) {
	client, err := clientv3.New(clientv3.Config{
		Endpoints:            cfg.Endpoints,
		Username:             cfg.Username,
		Password:             cfg.Password,
		DialTimeout:          3 * time.Second,
		DialKeepAliveTime:    5 * time.Second,
		DialKeepAliveTimeout: 10 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &EtcdStore{client: client}, nil
}

func (s *EtcdStore) GetPrefix(ctx context.Context, prefix string) ([]KV, error) {
	resp, err := s.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}
	out := make([]KV, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		key := string(kv.Key)
		if key == prefix {
			continue
		}
		out = append(out, KV{Key: key, Value: string(kv.Value)})
	}
	return out, nil
}

func (s *EtcdStore) Watch(ctx context.Context, prefix string) <-chan WatchEvent {
	events := make(chan WatchEvent, 64)
	go func() {
		defer close(events)
		delay := backoffInitial
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			wch := s.client.Watch(ctx, prefix, clientv3.WithPrefix(), clientv3.WithPrevKV())
			healthy := false
			for resp := range wch {
				if err := resp.Err(); err != nil {
					log.Warn().Err(err).Str("prefix", prefix).Msg("etcd watch stream error")
					break
				}
				healthy = true
				delay = backoffInitial
				for _, ev := range resp.Events {
					out := WatchEvent{Key: string(ev.Kv.Key)}
					switch ev.Type {
					case clientv3.EventTypePut:
						out.Type = EventPut
						out.Value = string(ev.Kv.Value)
					case clientv3.EventTypeDelete:
						out.Type = EventDelete
					default:
						out.Type = EventUnknown
					}
					select {
					case events <- out:
					case <-ctx.Done():
						return
					}
				}
			}
			if ctx.Err() != nil {
				return
			}
			log.Info().Str("prefix", prefix).Dur("retry_in", delay).Msg("etcd watch reconnecting")
			if !sleepCtx(ctx, delay) {
				return
			}
			if !healthy {
				delay = nextBackoff(delay)
			}
		}
	}()
	return events
}

func (s *EtcdStore) Put(ctx context.Context, key, value string) error {
	_, err := s.client.Put(ctx, key, value)
	return err
}

func (s *EtcdStore) Get(ctx context.Context, key string) (string, bool, error) {
	resp, err := s.client.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	for _, kv := range resp.Kvs {
		if string(kv.Key) == key {
			return string(kv.Value), true, nil
		}
	}
	return "", false, nil
}

func (s *EtcdStore) Delete(ctx context.Context, key string) (bool, error) {
	resp, err := s.client.Delete(ctx, key)
	if err != nil {
		return false, err
	}
	return resp.Deleted > 0, nil
}

// Close releases the underlying client connections.
func (s *EtcdStore) Close() error {
	return s.client.Close()
}
