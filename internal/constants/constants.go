// Package constants defines application-wide constants and default values.
package constants

const (
	// Service metadata
	ServiceName    = "venusplay"
	ServiceVersion = "1.0.0"

	// Default configuration values
	DefaultUpstreamURL = "https://hiveos.space/player_api.php"
	DefaultPort        = "5000"
	DefaultLogLevel    = "info"
	DefaultPageSize    = 27

	// Cache settings
	DefaultCacheSize = 1000

	// Rate limiting for the upstream provider
	UpstreamRateLimit = 20 // requests per second
	UpstreamRateBurst = 5  // burst capacity

	// Upstream connection pool bound
	UpstreamMaxConnections = 100
)

// Image hosts prepended to relative artwork paths. Cover and banner artwork
// use different renditions and must never be swapped.
const (
	CoverImageBase  = "https://image.tmdb.org/t/p/w600_and_h900_bestv2"
	BannerImageBase = "https://image.tmdb.org/t/p/w1280"
)

// Upstream action vocabulary
const (
	ActionVodStreams       = "get_vod_streams"
	ActionSeries           = "get_series"
	ActionVodInfo          = "get_vod_info"
	ActionSeriesInfo       = "get_series_info"
	ActionVodCategories    = "get_vod_categories"
	ActionSeriesCategories = "get_series_categories"

	ParamVodID    = "vod_id"
	ParamSeriesID = "series_id"
)

// Item kinds as exposed to clients
const (
	KindMovie  = "Movie"
	KindSeries = "Series"
)
