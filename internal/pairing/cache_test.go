package pairing_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"league-companion/internal/domain"
	"league-companion/internal/pairing"
	"league-companion/internal/storage"
)

func testStats(serverID string) *domain.ServerPairingStats {
	return &domain.ServerPairingStats{
		Version:      domain.PairingStatsVersion,
		RunID:        "run-1",
		ServerID:     serverID,
		Category:     domain.ModeRanked,
		CalculatedAt: time.Now().UTC(),
		IndividualStats: []domain.IndividualPlayerStats{
			{Alias: "Alice", Wins: 3, Losses: 1, TotalGames: 4, WinRate: 0.75},
		},
		Pairings: []domain.PairingStatsEntry{
			{Players: []string{"Alice", "Bob"}, Wins: 2, Losses: 0, TotalGames: 2, WinRate: 1},
		},
		TotalMatchesAnalyzed: 4,
	}
}

func TestWeeklyCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache := pairing.NewWeeklyCache(storage.NewFSStore(dir), zerolog.Nop())

	// A week comfortably in the past.
	year, week := pairing.WeekOf(time.Now().UTC().AddDate(0, 0, -21))
	stats := testStats("server-1")

	assert.True(t, cache.Save(context.Background(), stats, year, week))

	loaded, ok := cache.Load(context.Background(), "server-1", year, week)
	require.True(t, ok)
	assert.Equal(t, stats.RunID, loaded.RunID)
	assert.Equal(t, stats.IndividualStats, loaded.IndividualStats)
	assert.Equal(t, stats.Pairings, loaded.Pairings)
	assert.Equal(t, stats.TotalMatchesAnalyzed, loaded.TotalMatchesAnalyzed)
}

func TestWeeklyCacheRefusesIncompleteWeek(t *testing.T) {
	dir := t.TempDir()
	cache := pairing.NewWeeklyCache(storage.NewFSStore(dir), zerolog.Nop())

	year, week := pairing.WeekOf(time.Now().UTC())
	assert.False(t, cache.Save(context.Background(), testStats("server-1"), year, week))

	// Nothing may have been written for the current week.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, ok := cache.Load(context.Background(), "server-1", year, week)
	assert.False(t, ok)
}

func TestWeeklyCacheMissOnAbsentKey(t *testing.T) {
	cache := pairing.NewWeeklyCache(storage.NewFSStore(t.TempDir()), zerolog.Nop())

	_, ok := cache.Load(context.Background(), "server-1", 2024, 10)
	assert.False(t, ok)
}

func TestWeeklyCacheMissOnMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewFSStore(dir)
	cache := pairing.NewWeeklyCache(store, zerolog.Nop())

	key := "pairing-stats/server-1/week-2024-10.json"
	require.NoError(t, store.Put(context.Background(), key, []byte("{not json")))

	_, ok := cache.Load(context.Background(), "server-1", 2024, 10)
	assert.False(t, ok)
}

func TestWeeklyCacheMissOnVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewFSStore(dir)
	cache := pairing.NewWeeklyCache(store, zerolog.Nop())

	doc := domain.WeeklyPairingCache{
		Version:    domain.PairingStatsVersion + 1,
		ServerID:   "server-1",
		Year:       2024,
		WeekNumber: 10,
		IsComplete: true,
		Stats:      *testStats("server-1"),
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), "pairing-stats/server-1/week-2024-10.json", data))

	_, ok := cache.Load(context.Background(), "server-1", 2024, 10)
	assert.False(t, ok)
}

func TestWeeklyCacheMissOnIncompleteRecord(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewFSStore(dir)
	cache := pairing.NewWeeklyCache(store, zerolog.Nop())

	doc := domain.WeeklyPairingCache{
		Version:    domain.PairingStatsVersion,
		ServerID:   "server-1",
		Year:       2024,
		WeekNumber: 10,
		IsComplete: false,
		Stats:      *testStats("server-1"),
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), "pairing-stats/server-1/week-2024-10.json", data))

	_, ok := cache.Load(context.Background(), "server-1", 2024, 10)
	assert.False(t, ok)
}

func TestWeeklyCacheKeyLayout(t *testing.T) {
	dir := t.TempDir()
	cache := pairing.NewWeeklyCache(storage.NewFSStore(dir), zerolog.Nop())

	require.True(t, cache.Save(context.Background(), testStats("guild-42"), 2024, 3))

	path := filepath.Join(dir, "pairing-stats", "guild-42", "week-2024-03.json")
	_, err := os.Stat(path)
	assert.NoError(t, err, "expected zero-padded week key on disk")
}
