package pairing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"league-companion/internal/domain"
	"league-companion/internal/storage"
)

// WeeklyCache persists pairing reports for fully elapsed ISO weeks in an
// object store. Completed-week data is immutable, so keys never need
// invalidation.
type WeeklyCache struct {
	store  storage.ObjectStore
	logger zerolog.Logger
}

func NewWeeklyCache(store storage.ObjectStore, logger zerolog.Logger) *WeeklyCache {
	return &WeeklyCache{store: store, logger: logger}
}

func cacheKey(serverID string, year, week int) string {
	return fmt.Sprintf("pairing-stats/%s/week-%d-%02d.json", serverID, year, week)
}

// Load returns the cached report for a server week, or ok=false on any
// kind of miss: absent key, malformed document, version mismatch, or a
// record not flagged complete. Read failures are misses, never errors;
// the caller falls back to recomputation.
func (c *WeeklyCache) Load(ctx context.Context, serverID string, year, week int) (*domain.ServerPairingStats, bool) {
	key := cacheKey(serverID, year, week)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("weekly cache miss")
		return nil, false
	}

	var cached domain.WeeklyPairingCache
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("malformed weekly cache document, treating as miss")
		return nil, false
	}
	if cached.Version != domain.PairingStatsVersion {
		c.logger.Debug().Int("version", cached.Version).Str("key", key).Msg("weekly cache version mismatch")
		return nil, false
	}
	if !cached.IsComplete {
		// Guards against a write of partial-week data ever being trusted.
		c.logger.Warn().Str("key", key).Msg("weekly cache record not complete, treating as miss")
		return nil, false
	}

	c.logger.Debug().Str("key", key).Msg("weekly cache hit")
	return &cached.Stats, true
}

// Save writes the report for a server week and reports whether a write
// happened. It is a no-op returning false unless the week has fully
// elapsed; a failed write is logged and reported false, never
// propagated, so it cannot abort an otherwise-successful run.
func (c *WeeklyCache) Save(ctx context.Context, stats *domain.ServerPairingStats, year, week int) bool {
	if !WeekEnd(year, week).Before(time.Now().UTC()) {
		c.logger.Debug().Int("year", year).Int("week", week).Msg("week not yet complete, skipping cache write")
		return false
	}

	cached := domain.WeeklyPairingCache{
		Version:    domain.PairingStatsVersion,
		ServerID:   stats.ServerID,
		Year:       year,
		WeekNumber: week,
		IsComplete: true,
		Stats:      *stats,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to marshal weekly cache document")
		return false
	}

	key := cacheKey(stats.ServerID, year, week)
	if err := c.store.Put(ctx, key, data); err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("failed to write weekly cache")
		return false
	}

	c.logger.Info().Str("key", key).Msg("weekly cache written")
	return true
}
