package domain

import "time"

// GameModeCategory groups queues for pairing reports.
type GameModeCategory string

const (
	ModeRanked GameModeCategory = "ranked"
	ModeArena  GameModeCategory = "arena"
	ModeARAM   GameModeCategory = "aram"
)

// AllGameModeCategories lists the categories a weekly report covers.
var AllGameModeCategories = []GameModeCategory{ModeRanked, ModeArena, ModeARAM}

// QueueTypes returns the queues the category allows.
func (c GameModeCategory) QueueTypes() []QueueType {
	switch c {
	case ModeRanked:
		return []QueueType{QueueSolo, QueueFlex}
	case ModeArena:
		return []QueueType{QueueArena}
	case ModeARAM:
		return []QueueType{QueueARAM}
	default:
		return nil
	}
}

// Allows reports whether a queue belongs to the category.
func (c GameModeCategory) Allows(q QueueType) bool {
	for _, allowed := range c.QueueTypes() {
		if q == allowed {
			return true
		}
	}
	return false
}

// IsValid reports whether the category is one of the known values.
func (c GameModeCategory) IsValid() bool {
	switch c {
	case ModeRanked, ModeArena, ModeARAM:
		return true
	}
	return false
}

// IndividualPlayerStats is the per-alias tally of a pairing report.
type IndividualPlayerStats struct {
	Alias      string  `json:"alias"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Surrenders int     `json:"surrenders"`
	TotalGames int     `json:"totalGames"`
	WinRate    float64 `json:"winRate"`
}

// PairingStatsEntry is the tally for a group of two or more aliases that
// played together.
type PairingStatsEntry struct {
	Players    []string `json:"players"`
	Wins       int      `json:"wins"`
	Losses     int      `json:"losses"`
	Surrenders int      `json:"surrenders"`
	TotalGames int      `json:"totalGames"`
	WinRate    float64  `json:"winRate"`
}

// PairingStatsVersion is bumped when the report shape changes, so stale
// cached documents can be recognized.
const PairingStatsVersion = 1

// ServerPairingStats is one full pairing report run. Never mutated after
// creation.
type ServerPairingStats struct {
	Version              int                     `json:"version"`
	RunID                string                  `json:"runId"`
	ServerID             string                  `json:"serverId"`
	Category             GameModeCategory        `json:"category"`
	PeriodStart          time.Time               `json:"periodStart"`
	PeriodEnd            time.Time               `json:"periodEnd"`
	CalculatedAt         time.Time               `json:"calculatedAt"`
	IndividualStats      []IndividualPlayerStats `json:"individualStats"`
	Pairings             []PairingStatsEntry     `json:"pairings"`
	TotalMatchesAnalyzed int                     `json:"totalMatchesAnalyzed"`
	TotalMatchesFiltered int                     `json:"totalMatchesFiltered"`
}

// WeeklyPairingCache wraps a report for object storage. IsComplete is
// only ever true for fully elapsed weeks; partial-week data is never
// persisted as if final.
type WeeklyPairingCache struct {
	Version    int                `json:"version"`
	ServerID   string             `json:"serverId"`
	Year       int                `json:"year"`
	WeekNumber int                `json:"weekNumber"`
	IsComplete bool               `json:"isComplete"`
	Stats      ServerPairingStats `json:"stats"`
}
