package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 60 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Short link calls sit on the ad creation path and must stay short.
const MaxShortLinkTimeoutSeconds = 10

// Admin ad listing
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Request body limits
const MaxJSONBodySize = 1 << 20

// Uploaded images younger than this are never treated as orphans.
const OrphanGracePeriod = time.Hour
