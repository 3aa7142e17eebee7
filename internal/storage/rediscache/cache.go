// Package rediscache provides a Redis read-through cache for item stats providers.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/cory-johannsen/pvptracker/internal/game/inventory"
	"github.com/cory-johannsen/pvptracker/internal/observability"
)

const keyPrefix = "itemstats:"

// missMarker is cached for items the backing provider does not know.
const missMarker = "-"

// Provider caches another inventory.Provider in Redis. Misses are cached
// too, so unknown items do not reach the backing store on every attack.
type Provider struct {
	client redis.UniversalClient
	next   inventory.Provider
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// New creates a caching Provider.
//
// Precondition: client and next must be non-nil; ttl must be positive.
func New(client redis.UniversalClient, next inventory.Provider, ttl time.Duration, logger *zap.Logger) *Provider {
	return &Provider{client: client, next: next, ttl: ttl, logger: observability.OrNop(logger)}
}

// Key returns the cache key of an item id.
func Key(itemID int) string {
	return keyPrefix + strconv.Itoa(itemID)
}

type entry struct {
	v     inventory.BonusVector
	found bool
}

// Lookup implements inventory.Provider. A Redis failure falls through to the
// backing provider; only backing-provider errors are returned.
func (p *Provider) Lookup(ctx context.Context, itemID int) (inventory.BonusVector, bool, error) {
	key := Key(itemID)

	raw, err := p.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		v, found, decErr := decode(raw)
		if decErr == nil {
			return v, found, nil
		}
		p.logger.Warn("discarding corrupt cache entry", zap.String("key", key), zap.Error(decErr))
	case !errors.Is(err, redis.Nil):
		p.logger.Warn("item stats cache read failed", zap.String("key", key), zap.Error(err))
	}

	res, err, _ := p.group.Do(key, func() (any, error) {
		v, found, err := p.next.Lookup(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if setErr := p.client.Set(ctx, key, encode(v, found), p.ttl).Err(); setErr != nil {
			p.logger.Warn("item stats cache write failed", zap.String("key", key), zap.Error(setErr))
		}
		return entry{v: v, found: found}, nil
	})
	if err != nil {
		return inventory.BonusVector{}, false, err
	}
	e := res.(entry)
	return e.v, e.found, nil
}

// Invalidate removes the cached entries of the given item ids.
func (p *Provider) Invalidate(ctx context.Context, itemIDs ...int) error {
	if len(itemIDs) == 0 {
		return nil
	}
	keys := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		keys[i] = Key(id)
	}
	if err := p.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidating item stats cache: %w", err)
	}
	return nil
}

func encode(v inventory.BonusVector, found bool) string {
	if !found {
		return missMarker
	}
	data, _ := json.Marshal(v)
	return string(data)
}

func decode(raw string) (inventory.BonusVector, bool, error) {
	if raw == missMarker {
		return inventory.BonusVector{}, false, nil
	}
	var v inventory.BonusVector
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return inventory.BonusVector{}, false, fmt.Errorf("decoding cached item stats: %w", err)
	}
	return v, true, nil
}
