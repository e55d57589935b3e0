package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/fenwickretail/invpipe/internal/config"
)

// Caches bundles the three read-through caches C5 consults at pipeline
// runtime (§5 "Shared-resource policy": color-mapping cache, discontinued
// registry, marketplace price cache). Built on the same redis.Client +
// TTL shape as the teacher's dashboard/stock-health caches.
type Caches struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis using the same options-building helper the
// teacher's dashboard cache used. Returns a Caches with a nil client
// (every lookup passes straight through to its loader) when cfg.Enabled
// is false, mirroring cmd/server's fallback pattern.
func New(cfg config.CacheConfig) (*Caches, error) {
	if !cfg.Enabled {
		return &Caches{}, nil
	}
	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Caches{client: client, ttl: ttl}, nil
}

func (c *Caches) enabled() bool { return c.client != nil }

// ColorMapping is a read-through cache in front of the global
// bad-color -> good-color table (read by internal/clean via the caller's
// supplied map, populated from here at the start of a run).
func (c *Caches) ColorMapping(ctx context.Context, sourceKey string, load func(ctx context.Context) (map[string]string, error)) (map[string]string, error) {
	key := "colormap:" + sourceKey
	if c.enabled() {
		if raw, err := c.client.Get(ctx, key).Result(); err == nil {
			var m map[string]string
			if json.Unmarshal([]byte(raw), &m) == nil {
				return m, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Msg("color mapping cache read failed, loading from store")
		}
	}

	m, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if c.enabled() {
		if raw, err := json.Marshal(m); err == nil {
			if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				log.Warn().Err(err).Msg("color mapping cache write failed")
			}
		}
	}
	return m, nil
}

// InvalidateColorMapping drops the cached color-mapping table, e.g. after
// an operator edits the global ColorMapping table or promotes a
// color-suggestion review entry.
func (c *Caches) InvalidateColorMapping(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return deleteKeysWithPrefix(ctx, c.client, "colormap:", 100)
}

// ActiveStyles caches the full active-style set for one sale source,
// consulted by C7's regular-source filter (§4.7) once per import run.
func (c *Caches) ActiveStyles(ctx context.Context, saleSourceID string, load func(ctx context.Context) (map[string]bool, error)) (map[string]bool, error) {
	key := "discontinued:" + saleSourceID
	if c.enabled() {
		if raw, err := c.client.Get(ctx, key).Result(); err == nil {
			var m map[string]bool
			if json.Unmarshal([]byte(raw), &m) == nil {
				return m, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Msg("discontinued-styles cache read failed, loading from store")
		}
	}

	m, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if c.enabled() {
		if raw, err := json.Marshal(m); err == nil {
			if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				log.Warn().Err(err).Msg("discontinued-styles cache write failed")
			}
		}
	}
	return m, nil
}

// InvalidateActiveStyles drops the cached active-style set for one sale
// source, called right after C7's RegisterSaleStyles writes a fresh
// active/inactive set.
func (c *Caches) InvalidateActiveStyles(ctx context.Context, saleSourceID string) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Del(ctx, "discontinued:"+saleSourceID).Err()
}

// MarketplacePrice caches a per-style marketplace price lookup for C6's
// price expander and step 15's compare-at lookup, both of which may issue
// concurrent per-SKU lookups (§5).
func (c *Caches) MarketplacePrice(ctx context.Context, storeID, style string, load func(ctx context.Context) (float64, bool, error)) (float64, bool, error) {
	key := fmt.Sprintf("mktprice:%s:%s", storeID, strings.ToUpper(style))
	if c.enabled() {
		if raw, err := c.client.Get(ctx, key).Result(); err == nil {
			if raw == "" {
				return 0, false, nil
			}
			var price float64
			if _, err := fmt.Sscanf(raw, "%f", &price); err == nil {
				return price, true, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Msg("marketplace price cache read failed, loading from store")
		}
	}

	price, ok, err := load(ctx)
	if err != nil {
		return 0, false, err
	}
	if c.enabled() {
		val := ""
		if ok {
			val = fmt.Sprintf("%f", price)
		}
		if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Msg("marketplace price cache write failed")
		}
	}
	return price, ok, nil
}
