package cache

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/clients/megadata"
	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/draftstore"
	"github.com/megayours/megadata-studio/internal/logger"
)

const (
	cacheKeyPrefix = "megadata_cache_collections_"
	// DefaultTTL bounds how stale the cached view may get
	DefaultTTL = 30 * time.Second
)

// CollectionView is one entry of the authoritative collection list: a
// collection record tagged with where it is authoritative.
type CollectionView struct {
	domain.Collection
	Provenance domain.Provenance `json:"provenance"`
}

// Collections is a read-through cache over the merged collection list,
// keyed by collection id. Local drafts and remote published records never
// collide: publishing renames the draft to the remote id, so one id has
// exactly one provenance.
type Collections struct {
	redis  adapter.RedisClient
	drafts draftstore.Store
	remote megadata.Client
	json   adapter.JSON
	ttl    time.Duration
}

// NewCollections creates the collection cache. redis may be nil, in which
// case every read goes straight through.
func NewCollections(redis adapter.RedisClient, drafts draftstore.Store, remote megadata.Client, json adapter.JSON, ttl time.Duration) *Collections {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Collections{redis: redis, drafts: drafts, remote: remote, json: json, ttl: ttl}
}

func cacheKey(owner string) string {
	return cacheKeyPrefix + owner
}

// List returns the merged collection list for an owner, serving from Redis
// when a fresh entry exists.
func (c *Collections) List(ctx context.Context, owner string) ([]CollectionView, error) {
	if c.redis != nil {
		raw, err := c.redis.Get(ctx, cacheKey(owner))
		if err == nil {
			var views []CollectionView
			if err := c.json.Unmarshal([]byte(raw), &views); err == nil {
				return views, nil
			}
		} else if !adapter.IsRedisNil(err) {
			logger.Warn("collection cache read failed", zap.Error(err))
		}
	}

	views, err := c.build(ctx, owner)
	if err != nil {
		return nil, err
	}

	if c.redis != nil {
		if data, err := c.json.Marshal(views); err == nil {
			if err := c.redis.Set(ctx, cacheKey(owner), string(data), c.ttl); err != nil {
				logger.Warn("collection cache write failed", zap.Error(err))
			}
		}
	}

	return views, nil
}

// build assembles the authoritative list: every record enters keyed by id
// with its provenance, rather than ad-hoc merging of two arrays.
func (c *Collections) build(ctx context.Context, owner string) ([]CollectionView, error) {
	byID := make(map[string]CollectionView)

	locals, err := c.drafts.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	for _, col := range locals {
		provenance := domain.ProvenanceLocalDraft
		if col.Published {
			provenance = domain.ProvenanceRemotePublished
		}
		byID[col.ID] = CollectionView{Collection: col, Provenance: provenance}
	}

	remotes, err := c.remote.ListCollections(ctx, owner)
	if err != nil {
		return nil, err
	}
	for _, rc := range remotes {
		byID[rc.ID] = CollectionView{
			Collection: domain.Collection{
				ID:        rc.ID,
				Name:      rc.Name,
				Published: true,
				NumTokens: rc.NumTokens,
			},
			Provenance: domain.ProvenanceRemotePublished,
		}
	}

	views := make([]CollectionView, 0, len(byID))
	for _, v := range byID {
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views, nil
}

// Invalidate drops the cached list for an owner, forcing the next read through
func (c *Collections) Invalidate(ctx context.Context, owner string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Delete(ctx, cacheKey(owner)); err != nil {
		logger.Warn("collection cache invalidation failed", zap.Error(err))
	}
}
