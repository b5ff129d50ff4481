package database

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/biokg/retriever/model"
)

// graphReader is the read interface a cache can wrap
type graphReader interface {
	GetNode(ctx context.Context, id string) (*model.Node, error)
	GetEdges(ctx context.Context, id string, filter *model.EdgeFilter) ([]*model.Edge, error)
}

// CachedStore decorates a graph accessor with a bounded Redis cache keyed by
// node id, so hot nodes are not re-fetched across questions. The cache lives
// outside the request-scoped retrieval state; entries expire by TTL and
// eviction is delegated to Redis. Cache failures degrade to the inner store.
type CachedStore struct {
	inner graphReader
	rdb   *goredis.Client
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedStore creates a caching decorator around a graph accessor
func NewCachedStore(inner graphReader, rdb *goredis.Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
		log:   logger,
	}
}

// GetNode fetches a node, serving from cache when possible. Absent node ids
// are not cached: a NotFound always consults the store.
func (s *CachedStore) GetNode(ctx context.Context, id string) (*model.Node, error) {
	key := "biokg:node:" + id

	if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		node := &model.Node{}
		if err := json.Unmarshal(data, node); err == nil {
			return node, nil
		}
		s.log.Warn("Dropping malformed cache entry", slog.String("key", key))
		s.rdb.Del(ctx, key)
	}

	node, err := s.inner.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(node); err == nil {
		if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.log.Warn("Failed to cache node", slog.String("id", id), slog.String("error", err.Error()))
		}
	}

	return node, nil
}

// GetEdges fetches the edges incident to a node. Only unfiltered edge lists
// are cached; filtered lookups always consult the store.
func (s *CachedStore) GetEdges(ctx context.Context, id string, filter *model.EdgeFilter) ([]*model.Edge, error) {
	if filter != nil && len(filter.Labels) > 0 {
		return s.inner.GetEdges(ctx, id, filter)
	}

	key := "biokg:edges:" + id

	if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var edges []*model.Edge
		if err := json.Unmarshal(data, &edges); err == nil {
			return edges, nil
		}
		s.log.Warn("Dropping malformed cache entry", slog.String("key", key))
		s.rdb.Del(ctx, key)
	}

	edges, err := s.inner.GetEdges(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(edges); err == nil {
		if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.log.Warn("Failed to cache edges", slog.String("id", id), slog.String("error", err.Error()))
		}
	}

	return edges, nil
}
