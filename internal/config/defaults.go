// Package config - defaults.go centralizes default values and limits.
package config

import "time"

// DefaultPort is the listening port when PORT is unset.
const DefaultPort = 3024

// DefaultStaticDir is where frontend assets are served from.
const DefaultStaticDir = "public"

// DefaultLogLevel is the zerolog level name used when LOG_LEVEL is unset.
const DefaultLogLevel = "info"

// MaxRequestBodySize caps inbound JSON bodies (1MB). Auth payloads are tiny.
const MaxRequestBodySize = 1 << 20

// DefaultBackendTimeout bounds a single Supabase call. No retries are
// performed, so this is also the worst-case handler latency.
const DefaultBackendTimeout = 15 * time.Second

// DefaultServerReadTimeout for the HTTP server.
const DefaultServerReadTimeout = 15 * time.Second

// DefaultServerWriteTimeout for the HTTP server.
const DefaultServerWriteTimeout = 30 * time.Second

// DefaultShutdownTimeout is how long in-flight requests get to finish
// after SIGINT/SIGTERM.
const DefaultShutdownTimeout = 10 * time.Second
