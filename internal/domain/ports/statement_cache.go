package ports

import "codemate/internal/domain/model"

// StatementCache stores scraped statements for a bounded time.
// Get only reports entries that are still fresh.
type StatementCache interface {
	Get(key string) (*model.CacheEntry, bool)
	Put(entry model.CacheEntry) error
	Clear(expiredOnly bool) (int, error)
	Close() error
}
