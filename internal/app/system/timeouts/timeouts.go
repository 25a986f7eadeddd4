// Package timeouts centralizes database operation deadlines so handlers
// and workers apply a consistent policy.
package timeouts

import "time"

// Short is for single-document reads (session user fetch, lookups).
func Short() time.Duration { return 3 * time.Second }

// Medium is for form handling and multi-document reads.
func Medium() time.Duration { return 10 * time.Second }

// Long is for batch work such as the expiration sweep.
func Long() time.Duration { return 60 * time.Second }
