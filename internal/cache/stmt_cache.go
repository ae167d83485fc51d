// Package cache provides an LRU cache for prepared statements keyed by SQL text.
package cache

import (
	"container/list"
	"database/sql"
	"sync"
	"sync/atomic"
)

// DefaultStmtCacheCapacity is the default maximum number of cached prepared statements.
const DefaultStmtCacheCapacity = 1000

// StmtCache stores prepared statements with LRU eviction. Evicted and
// replaced statements are closed; callers must not close cached statements
// themselves.
type StmtCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	lru      *list.List // front = most recently used

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type stmtEntry struct {
	sql  string
	stmt *sql.Stmt
}

// NewStmtCache creates a statement cache with the default capacity.
func NewStmtCache() *StmtCache {
	return NewStmtCacheWithCapacity(DefaultStmtCacheCapacity)
}

// NewStmtCacheWithCapacity creates a statement cache with the given capacity.
// Non-positive capacities fall back to the default.
func NewStmtCacheWithCapacity(capacity int) *StmtCache {
	if capacity <= 0 {
		capacity = DefaultStmtCacheCapacity
	}
	return &StmtCache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		lru:      list.New(),
	}
}

// Get returns the cached statement for the SQL text, marking it most
// recently used.
func (c *StmtCache) Get(sqlText string) (*sql.Stmt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[sqlText]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	c.lru.MoveToFront(elem)
	c.hits.Add(1)
	return elem.Value.(*stmtEntry).stmt, true
}

// Set stores a prepared statement under its SQL text, evicting the least
// recently used entry when at capacity.
func (c *StmtCache) Set(sqlText string, stmt *sql.Stmt) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[sqlText]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*stmtEntry)
		_ = entry.stmt.Close()
		entry.stmt = stmt
		return
	}

	if c.lru.Len() >= c.capacity {
		c.evictOldest()
	}

	c.items[sqlText] = c.lru.PushFront(&stmtEntry{sql: sqlText, stmt: stmt})
}

// evictOldest removes and closes the least recently used statement.
// Caller must hold the lock.
func (c *StmtCache) evictOldest() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}

	c.lru.Remove(elem)
	entry := elem.Value.(*stmtEntry)
	delete(c.items, entry.sql)
	_ = entry.stmt.Close()
	c.evictions.Add(1)
}

// Clear closes and removes all cached statements.
func (c *StmtCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		_ = elem.Value.(*stmtEntry).stmt.Close()
	}
	c.items = make(map[string]*list.Element, c.capacity)
	c.lru.Init()
}

// Stats holds cache performance counters.
type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns a snapshot of the cache counters.
func (c *StmtCache) Stats() Stats {
	c.mu.Lock()
	size := c.lru.Len()
	c.mu.Unlock()

	return Stats{
		Size:      size,
		Capacity:  c.capacity,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
