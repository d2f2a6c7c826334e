package config

import "time"

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./badreads.db"

	// DefaultLogFile is where the rotating JSON log is written
	DefaultLogFile = "./logs/badreads.log"
)

// Reading session duration bounds used when logging a read.
const (
	DefaultMinSessionDuration = 15 * time.Minute
	DefaultMaxSessionDuration = 300 * time.Minute
)

// Report defaults.
const (
	DefaultRecentWindowDays = 90
	DefaultNewReleasesLimit = 5
	DefaultTopBooksLimit    = 10
)
