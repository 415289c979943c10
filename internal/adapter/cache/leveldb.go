package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

var statementPrefix = []byte("s:")

// LevelDB stores statements in an embedded LevelDB directory.
type LevelDB struct {
	db  *leveldb.DB
	ttl time.Duration
	now Clock
}

var _ ports.StatementCache = (*LevelDB)(nil)

func NewLevelDB(path string, ttl time.Duration, clock Clock) (*LevelDB, error) {
	if clock == nil {
		clock = time.Now
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb cache: %w", err)
	}
	return &LevelDB{db: db, ttl: ttl, now: clock}, nil
}

func statementKey(key string) []byte {
	return append(append([]byte{}, statementPrefix...), key...)
}

func (c *LevelDB) Get(key string) (*model.CacheEntry, bool) {
	b, err := c.db.Get(statementKey(key), nil)
	if err != nil {
		return nil, false
	}
	var entry model.CacheEntry
	if err := json.Unmarshal(b, &entry); err != nil {
		return nil, false
	}
	if !fresh(entry, c.now(), c.ttl) {
		return nil, false
	}
	return &entry, true
}

func (c *LevelDB) Put(entry model.CacheEntry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.db.Put(statementKey(entry.Key), b, nil); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

func (c *LevelDB) Clear(expiredOnly bool) (int, error) {
	it := c.db.NewIterator(util.BytesPrefix(statementPrefix), nil)
	defer it.Release()

	now := c.now()
	batch := new(leveldb.Batch)
	for it.Next() {
		if expiredOnly {
			var entry model.CacheEntry
			if err := json.Unmarshal(it.Value(), &entry); err == nil && fresh(entry, now, c.ttl) {
				continue
			}
		}
		batch.Delete(bytes.Clone(it.Key()))
	}
	if err := it.Error(); err != nil {
		return 0, fmt.Errorf("scan cache: %w", err)
	}

	if err := c.db.Write(batch, nil); err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	return batch.Len(), nil
}

func (c *LevelDB) Close() error {
	return c.db.Close()
}
