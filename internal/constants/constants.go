package constants

import "time"

const (
	EventStartInterval      = 1 * time.Minute
	EventFinishInterval     = 1 * time.Minute
	MatchSimulationInterval = 1 * time.Minute
	BootcampTickInterval    = 1 * time.Hour
)

const (
	NotifyTimeout   = 10 * time.Second
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
	JobTimeout      = 2 * time.Minute
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultSimulationWorkers = 4
	MatchStream              = "matches.completed"
	MatchStreamMaxLen        = 10000
)
