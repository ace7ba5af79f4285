// Package constants provides shared constants used throughout the curator codebase.
// This includes timeouts, pool sizing, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the ontology service
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// LongRunningTimeout bounds a full curation run
	LongRunningTimeout = 12 * time.Hour
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Pool constants size the adaptive worker pool
const (
	// DefaultCoreWorkers is the number of workers kept alive while idle
	DefaultCoreWorkers = 4

	// DefaultMaxWorkers is the upper bound on concurrent workers
	DefaultMaxWorkers = 32

	// DefaultQueueSize is the capacity of the pending-task queue
	DefaultQueueSize = 1000

	// DefaultScaleInterval is how often the pool re-evaluates its size
	DefaultScaleInterval = 2 * time.Second

	// ProgressInterval is how many scheduled samples pass between progress logs
	ProgressInterval = 500
)

// Engine constants
const (
	// DefaultMaxIterations bounds every fixpoint loop
	DefaultMaxIterations = 1000

	// DefaultDomain is the curation domain stamped on links when none is configured
	DefaultDomain = "self.BiosampleCuration"
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached ontology answers
	CacheTTL = 15 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 5 * time.Minute
)

// Ontology constants
const (
	// DefaultOntologyURL is the base URL of the Ontology Lookup Service
	DefaultOntologyURL = "https://www.ebi.ac.uk/ols4"
)

// Path constants
const (
	// DefaultStorePath is the default directory for persisted curation links
	DefaultStorePath = "./curations"

	// DefaultSamplesPath is the default directory of sample documents
	DefaultSamplesPath = "./samples"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)
