package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/fintrack/fintrack/internal/model"
)

// statsCachePrefix is the Redis key prefix for per-user stats.
const statsCachePrefix = "stats:"

// statsGenPrefix prefixes the per-user invalidation counter.
const statsGenPrefix = "stats:gen:"

func statsKey(ownerID string) string {
	return statsCachePrefix + ownerID
}

func statsGenKey(ownerID string) string {
	return statsGenPrefix + ownerID
}

// setStatsScript stores an entry only while the owner's generation still
// matches the one observed by the reader. A missing counter is generation 0.
var setStatsScript = redis.NewScript(`
	local gen = redis.call('GET', KEYS[1]) or '0'
	if gen ~= ARGV[1] then
		return 0
	end
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
	return 1
`)

// GetStats retrieves cached stats for an owner together with the owner's
// current generation. Stats are nil on a cache miss or a corrupted entry.
func (c *Cache) GetStats(ctx context.Context, ownerID string) (*model.Stats, uint64, error) {
	vals, err := c.client.MGet(ctx, statsGenKey(ownerID), statsKey(ownerID)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("get stats: %w", err)
	}

	gen, err := parseGeneration(vals[0])
	if err != nil {
		return nil, 0, fmt.Errorf("get stats: %w", err)
	}

	data, ok := vals[1].(string)
	if !ok {
		return nil, gen, nil
	}
	stats, err := decodeStats([]byte(data))
	if err != nil {
		// Corrupted cache entry - treat as miss
		return nil, gen, nil //nolint:nilerr
	}
	return stats, gen, nil
}

// SetStats caches stats for an owner for the configured TTL, unless the
// owner's records changed since gen was read. Reports whether it was stored.
func (c *Cache) SetStats(ctx context.Context, ownerID string, gen uint64, stats *model.Stats) (bool, error) {
	data, err := json.Marshal(stats)
	if err != nil {
		return false, fmt.Errorf("marshal stats: %w", err)
	}

	stored, err := setStatsScript.Run(ctx, c.client,
		[]string{statsGenKey(ownerID), statsKey(ownerID)},
		strconv.FormatUint(gen, 10), data, c.statsTTL.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("set stats: %w", err)
	}
	return stored == 1, nil
}

// InvalidateStats bumps the owner's generation and removes cached stats.
// Called whenever one of the owner's records changes.
func (c *Cache) InvalidateStats(ctx context.Context, ownerID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, statsGenKey(ownerID))
		pipe.Del(ctx, statsKey(ownerID))
		return nil
	})
	return err
}

func parseGeneration(v interface{}) (uint64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse generation %q: %w", s, err)
	}
	return gen, nil
}

func decodeStats(data []byte) (*model.Stats, error) {
	var stats model.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
