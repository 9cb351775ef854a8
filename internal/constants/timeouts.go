// Package constants defines timeout values and retry limits used throughout the application.
package constants

import "time"

const (
	// Per-attempt timeout for upstream requests
	UpstreamTimeout = 10 * time.Second

	// Extra attempts after the first one on transient failure
	UpstreamRetries = 2

	// Fixed pause between upstream attempts
	UpstreamRetryDelay = 800 * time.Millisecond

	// Cache windows per call site
	ListingCacheTTL   = 30 * time.Second
	DetailCacheTTL    = 60 * time.Second
	AggregateCacheTTL = 60 * time.Second

	// How often expired cache entries are swept
	CacheCleanupInterval = 5 * time.Minute

	// Grace period for in-flight requests at shutdown
	ShutdownTimeout = 10 * time.Second
)
