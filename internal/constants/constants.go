package constants

import "time"

const (
	// MinMatchDuration filters remakes and early-surrender noise out of
	// pairing reports.
	MinMatchDuration = 15 * time.Minute
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	ReportTimeout      = 2 * time.Minute
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	// SyncConcurrency bounds parallel Riot fetches during a match sync.
	SyncConcurrency = 4
	// MatchIDFetchCount is how many recent match ids are requested per
	// account per sync.
	MatchIDFetchCount = 40
)

const (
	ShutdownTimeout = 5 * time.Second
)
