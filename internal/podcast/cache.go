package podcast

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	listCacheKey = "podcasts::list"
	listCacheTTL = time.Minute
)

// ListCache keeps the full ordered catalog in redis, so the public
// listing endpoint can skip postgres between writes. Writes invalidate
// the key; a stale entry lives at most listCacheTTL.
type ListCache struct {
	rdb *redis.Client
}

func NewListCache(rdb *redis.Client) *ListCache {
	return &ListCache{
		rdb: rdb,
	}
}

func (c *ListCache) Get(ctx context.Context) ([]Podcast, bool) {
	if c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, listCacheKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("podcast list cache get: %s", err)
		}
		return nil, false
	}

	var podcasts []Podcast
	if err := json.Unmarshal([]byte(raw), &podcasts); err != nil {
		log.Errorf("podcast list cache unmarshal: %s", err)
		return nil, false
	}

	return podcasts, true
}

func (c *ListCache) Set(ctx context.Context, podcasts []Podcast) {
	if c.rdb == nil {
		return
	}

	raw, err := json.Marshal(podcasts)
	if err != nil {
		log.Errorf("podcast list cache marshal: %s", err)
		return
	}

	if err := c.rdb.Set(ctx, listCacheKey, raw, listCacheTTL).Err(); err != nil {
		log.Errorf("podcast list cache set: %s", err)
	}
}

func (c *ListCache) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}

	if err := c.rdb.Del(ctx, listCacheKey).Err(); err != nil {
		log.Errorf("podcast list cache invalidate: %s", err)
	}
}
