package datasource

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"dynmcp/internal/domain/xds"
	"dynmcp/internal/infrastructure/metrics"
	"dynmcp/internal/infrastructure/store"
)

// DataSource wraps one BackingStore: it populates the McpCache at startup,
// keeps it converged through the store's watch channels, and services the
// admin CRUD surface. The cache is updated by the watch consumers, not
// directly by the admin path.
type DataSource struct {
	store store.BackingStore
	cache *xds.McpCache
}

func New(s store.BackingStore, cache *xds.McpCache) *DataSource {
	return &DataSource{store: s, cache: cache}
}

// Start scans both prefixes into the cache, then launches one watch consumer
// per prefix. Values that fail to deserialize are logged and skipped; they do
// not abort startup.
func (d *DataSource) Start(ctx context.Context) error {
	for _, prefix := range []string{store.TDSPrefix, store.IDSPrefix} {
		kvs, err := d.store.GetPrefix(ctx, prefix)
		if err != nil {
			return err
		}
		for _, kv := range kvs {
			d.apply(prefix, kv.Key, kv.Value)
		}
		log.Info().Str("prefix", prefix).Int("count", len(kvs)).Msg("xds cache loaded")

		events := d.store.Watch(ctx, prefix)
		go d.consume(prefix, events)
	}
	return nil
}

func (d *DataSource) consume(prefix string, events <-chan store.WatchEvent) {
	for ev := range events {
		switch ev.Type {
		case store.EventPut:
			if ev.Value == "" {
				continue
			}
			if d.apply(prefix, ev.Key, ev.Value) {
				metrics.WatchEventsTotal.WithLabelValues(prefix, "put").Inc()
			}
		case store.EventDelete:
			d.remove(prefix, ev.Key)
			metrics.WatchEventsTotal.WithLabelValues(prefix, "delete").Inc()
		default:
			// other event types are ignored
		}
	}
}

// apply deserializes one value and inserts it into the cache under the key's
// id suffix. Returns false when the value does not parse.
func (d *DataSource) apply(prefix, key, value string) bool {
	id := strings.TrimPrefix(key, prefix)
	switch prefix {
	case store.TDSPrefix:
		var tds xds.TDS
		if err := json.Unmarshal([]byte(value), &tds); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to parse TDS, skipping")
			return false
		}
		d.cache.InsertTDS(id, tds)
	case store.IDSPrefix:
		var ids xds.IDS
		if err := json.Unmarshal([]byte(value), &ids); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to parse IDS, skipping")
			return false
		}
		d.cache.InsertIDS(id, ids)
	}
	return true
}

func (d *DataSource) remove(prefix, key string) {
	id := strings.TrimPrefix(key, prefix)
	switch prefix {
	case store.TDSPrefix:
		d.cache.RemoveTDS(id)
	case store.IDSPrefix:
		d.cache.RemoveIDS(id)
	}
}

func (d *DataSource) PutTDS(ctx context.Context, tds xds.TDS) error {
	data, err := json.Marshal(tds)
	if err != nil {
		return err
	}
	return d.store.Put(ctx, store.TDSPrefix+tds.ID, string(data))
}

func (d *DataSource) GetTDS(ctx context.Context, id string) (xds.TDS, bool, error) {
	value, found, err := d.store.Get(ctx, store.TDSPrefix+id)
	if err != nil || !found {
		return xds.TDS{}, false, err
	}
	var tds xds.TDS
	if err := json.Unmarshal([]byte(value), &tds); err != nil {
		return xds.TDS{}, false, err
	}
	return tds, true, nil
}

func (d *DataSource) DeleteTDS(ctx context.Context, id string) (bool, error) {
	return d.store.Delete(ctx, store.TDSPrefix+id)
}

func (d *DataSource) PutIDS(ctx context.Context, ids xds.IDS) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return d.store.Put(ctx, store.IDSPrefix+ids.ID, string(data))
}

func (d *DataSource) GetIDS(ctx context.Context, id string) (xds.IDS, bool, error) {
	value, found, err := d.store.Get(ctx, store.IDSPrefix+id)
	if err != nil || !found {
		return xds.IDS{}, false, err
	}
	var ids xds.IDS
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return xds.IDS{}, false, err
	}
	return ids, true, nil
}

func (d *DataSource) DeleteIDS(ctx context.Context, id string) (bool, error) {
	return d.store.Delete(ctx, store.IDSPrefix+id)
}
