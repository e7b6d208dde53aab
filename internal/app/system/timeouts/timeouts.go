// internal/app/system/timeouts/timeouts.go

// Package timeouts provides the per-tier deadlines that handlers and
// background jobs pass to context.WithTimeout for Mongo operations.
//
// Tiers:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads (group by ID, tier lookups)
//   - Medium: list queries, unread-count batches, upserts
//   - Long: multi-collection writes (group delete with membership and
//     discussion cleanup, discussion edits that touch the group)
//
// Values can be overridden per deployment with ConfigureFromEnv at startup.
package timeouts

import (
	"os"
	"sync"
	"time"
)

// Defaults, used when no environment override is set.
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var mu sync.RWMutex

var (
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for single-document reads.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Medium returns the timeout for list queries and moderate writes. Most
// handlers use this tier.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

// Long returns the timeout for writes that touch multiple collections.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// ConfigureFromEnv overrides timeout tiers from environment variables
// (TIMEOUT_PING, TIMEOUT_SHORT, TIMEOUT_MEDIUM, TIMEOUT_LONG), each a
// time.ParseDuration string. Unset or invalid values keep the defaults.
// Returns the number of tiers overridden.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	configured := 0

	set := func(env string, dst *time.Duration) {
		if v := os.Getenv(env); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				*dst = d
				configured++
			}
		}
	}
	set("TIMEOUT_PING", &ping)
	set("TIMEOUT_SHORT", &short)
	set("TIMEOUT_MEDIUM", &medium)
	set("TIMEOUT_LONG", &long)

	return configured
}
