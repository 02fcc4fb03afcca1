package domain

import "time"

// CacheStats summarises the raw page cache.
type CacheStats struct {
	// Entries is the number of stored pages, expired ones included.
	Entries int

	// Expired is the number of stored pages past their TTL.
	Expired int

	// Bytes is the total size of the stored bodies.
	Bytes int64

	// Hits counts reads served from the cache since each page was stored.
	Hits int64

	// Oldest is when the oldest stored page was written. Zero when empty.
	Oldest time.Time
}

// Live returns the number of pages that can still be served.
func (s CacheStats) Live() int {
	return s.Entries - s.Expired
}
