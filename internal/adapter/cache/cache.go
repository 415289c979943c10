package cache

import (
	"fmt"
	"time"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

// Clock returns the current time. Tests replace it to step over TTL boundaries.
type Clock func() time.Time

// Backend names accepted by Open.
const (
	BackendMemory  = "memory"
	BackendSQLite  = "sqlite"
	BackendLevelDB = "leveldb"
)

func fresh(entry model.CacheEntry, now time.Time, ttl time.Duration) bool {
	return now.Sub(entry.FetchedAt) < ttl
}

// Open builds the statement cache named by backend. path is ignored by the
// memory backend.
func Open(backend, path string, ttl time.Duration, clock Clock) (ports.StatementCache, error) {
	if clock == nil {
		clock = time.Now
	}
	switch backend {
	case "", BackendMemory:
		return NewMemory(ttl, clock), nil
	case BackendSQLite:
		return NewSQLite(path, ttl, clock)
	case BackendLevelDB:
		return NewLevelDB(path, ttl, clock)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
